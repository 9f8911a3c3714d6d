// Copyright © 2026 The jank authors

package interop

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// catalogFile is the on-disk catalog layout:
//
//	[[scope]]
//	name = "std"
//
//	[[type]]
//	name = "std::vector"
//	template_params = 1
type catalogFile struct {
	Scopes []struct {
		Name string `toml:"name"`
	} `toml:"scope"`
	Types []struct {
		Name           string   `toml:"name"`
		Size           int      `toml:"size"`
		Fields         []string `toml:"fields"`
		TemplateParams int      `toml:"template_params"`
	} `toml:"type"`
}

// LoadCatalog reads a TOML catalog file into a new catalog.
func LoadCatalog(path string) (*MemCatalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reads a user-specified catalog
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c := NewCatalog()
	if err := DecodeCatalog(c, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DecodeCatalog adds the declarations in TOML document data to c.
func DecodeCatalog(c *MemCatalog, data []byte) error {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, s := range f.Scopes {
		if s.Name == "" {
			return fmt.Errorf("scope declaration without a name")
		}
		c.DeclareScope(s.Name)
	}
	for _, t := range f.Types {
		tn, err := ParseTypeName(t.Name)
		if err != nil {
			return fmt.Errorf("type %q: %w", t.Name, err)
		}
		if len(tn.Args) > 0 || tn.Pointers > 0 {
			return fmt.Errorf("type %q: declarations name a plain type", t.Name)
		}
		c.DeclareType(TypeDecl{
			Name:           tn.Qualified(),
			Size:           t.Size,
			Fields:         t.Fields,
			TemplateParams: t.TemplateParams,
		})
	}
	return nil
}
