// Copyright © 2026 The jank authors

// Package interop resolves foreign (C++) type and scope names against a
// declaration catalog.
//
// The catalog is an external collaborator of the analyzer.  It may be shared
// by concurrent analyses, so MemCatalog synchronizes internally.
package interop

import (
	"sort"
	"strings"
	"sync"
)

// ScopeKind classifies a foreign scope.
type ScopeKind int

const (
	ScopeNamespace ScopeKind = iota // a C++ namespace (or the global scope)
	ScopeRecord                     // a class or struct acting as a scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNamespace:
		return "namespace"
	case ScopeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ScopeDecl declares a foreign scope.  The global scope has an empty Name.
type ScopeDecl struct {
	Name string
	Kind ScopeKind
}

// TypeDecl declares a foreign type by its fully qualified name.
type TypeDecl struct {
	Name      string
	Size      int
	Fields    []string
	Primitive bool
	// TemplateParams is the number of template parameters, 0 for ordinary
	// types.  -1 accepts any number (variadic templates).
	TemplateParams int
}

// Scope returns the qualified name of the scope enclosing d.
func (d *TypeDecl) Scope() string {
	return enclosing(d.Name)
}

// Catalog answers foreign declaration queries.
type Catalog interface {
	LookupType(name string) (*TypeDecl, bool)
	LookupScope(name string) (*ScopeDecl, bool)
}

// Primitives are the foreign types every MemCatalog knows about.
var Primitives = []string{
	"void", "bool", "char", "short", "int", "long", "float", "double",
	"size_t", "int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
}

// MemCatalog is an in-memory Catalog.
type MemCatalog struct {
	mu     sync.RWMutex
	types  map[string]*TypeDecl
	scopes map[string]*ScopeDecl
}

var _ Catalog = (*MemCatalog)(nil)

// NewCatalog returns a catalog containing the global scope and the
// primitive types.
func NewCatalog() *MemCatalog {
	c := &MemCatalog{
		types:  make(map[string]*TypeDecl),
		scopes: make(map[string]*ScopeDecl),
	}
	c.scopes[""] = &ScopeDecl{Name: "", Kind: ScopeNamespace}
	for _, name := range Primitives {
		c.types[name] = &TypeDecl{Name: name, Primitive: true}
	}
	return c
}

// DeclareScope declares the namespace name and all of its enclosing
// namespaces.
func (c *MemCatalog) DeclareScope(name string) *ScopeDecl {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.declareScope(name, ScopeNamespace)
}

func (c *MemCatalog) declareScope(name string, kind ScopeKind) *ScopeDecl {
	if s, ok := c.scopes[name]; ok {
		return s
	}
	if parent := enclosing(name); parent != "" {
		c.declareScope(parent, ScopeNamespace)
	}
	s := &ScopeDecl{Name: name, Kind: kind}
	c.scopes[name] = s
	return s
}

// DeclareType declares decl, its enclosing scopes and the record scope it
// introduces.  Redeclaring a type replaces the previous declaration.
func (c *MemCatalog) DeclareType(decl TypeDecl) *TypeDecl {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &decl
	if parent := enclosing(d.Name); parent != "" {
		c.declareScope(parent, ScopeNamespace)
	}
	c.types[d.Name] = d
	if _, ok := c.scopes[d.Name]; !ok {
		c.scopes[d.Name] = &ScopeDecl{Name: d.Name, Kind: ScopeRecord}
	}
	return d
}

// LookupType implements Catalog.
func (c *MemCatalog) LookupType(name string) (*TypeDecl, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.types[name]
	return d, ok
}

// LookupScope implements Catalog.
func (c *MemCatalog) LookupScope(name string) (*ScopeDecl, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.scopes[name]
	return s, ok
}

// TypeNames returns the names of all declared types, sorted.
func (c *MemCatalog) TypeNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// enclosing returns the qualified name of the scope containing name.
func enclosing(name string) string {
	i := strings.LastIndex(name, "::")
	if i < 0 {
		return ""
	}
	return name[:i]
}
