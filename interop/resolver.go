// Copyright © 2026 The jank authors

package interop

import (
	"fmt"
	"strings"
)

// UnresolvedError reports a foreign name missing from the catalog.
type UnresolvedError struct {
	What string // "type" or "scope"
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unable to resolve %s: %s", e.What, e.Name)
}

// TypeHandle is a resolved foreign type.
type TypeHandle struct {
	Decl     *TypeDecl
	Args     []*TypeHandle
	Pointers int
	// Literal holds the value of a constant template argument.  Decl is nil
	// for literals.
	Literal string
}

// Name returns the canonical spelling of the type.
func (h *TypeHandle) Name() string {
	if h.Decl == nil {
		return h.Literal
	}
	var b strings.Builder
	b.WriteString(h.Decl.Name)
	if len(h.Args) > 0 {
		b.WriteString("<")
		for i, arg := range h.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name())
		}
		b.WriteString(">")
	}
	b.WriteString(strings.Repeat("*", h.Pointers))
	return b.String()
}

func (h *TypeHandle) String() string {
	return h.Name()
}

// IsPointer reports whether the type is a pointer type.
func (h *TypeHandle) IsPointer() bool {
	return h.Pointers > 0
}

// Pointee returns the type h points to.  It returns h when h is not a
// pointer.
func (h *TypeHandle) Pointee() *TypeHandle {
	if h.Pointers == 0 {
		return h
	}
	cp := *h
	cp.Pointers--
	return &cp
}

// PointerTo returns a pointer to h.
func (h *TypeHandle) PointerTo() *TypeHandle {
	cp := *h
	cp.Pointers++
	return &cp
}

// ScopeHandle is a resolved foreign scope.
type ScopeHandle struct {
	Decl *ScopeDecl
}

// Name returns the qualified scope name.
func (h *ScopeHandle) Name() string {
	return h.Decl.Name
}

// Resolver resolves foreign names against a catalog.
type Resolver struct {
	Catalog Catalog
}

// NewResolver returns a resolver backed by c.  A nil catalog is replaced by
// a catalog of primitive types.
func NewResolver(c Catalog) *Resolver {
	if c == nil {
		c = NewCatalog()
	}
	return &Resolver{Catalog: c}
}

// ResolveType resolves a type spelling, returning false if the spelling is
// malformed or any component is unknown.
func (r *Resolver) ResolveType(spelling string) (*TypeHandle, bool) {
	h, err := r.LookupType(spelling)
	return h, err == nil
}

// LookupType resolves a type spelling and explains failures.
func (r *Resolver) LookupType(spelling string) (*TypeHandle, error) {
	tn, err := ParseTypeName(spelling)
	if err != nil {
		return nil, err
	}
	return r.ResolveTypeName(tn)
}

// ResolveTypeName resolves a parsed type name.
func (r *Resolver) ResolveTypeName(tn *TypeName) (*TypeHandle, error) {
	if tn.Literal != "" {
		return &TypeHandle{Literal: tn.Literal}, nil
	}
	if _, ok := r.Catalog.LookupScope(tn.ScopeName()); !ok {
		return nil, &UnresolvedError{What: "scope", Name: tn.ScopeName()}
	}
	decl, ok := r.Catalog.LookupType(tn.Qualified())
	if !ok {
		return nil, &UnresolvedError{What: "type", Name: tn.Qualified()}
	}
	switch {
	case len(tn.Args) > 0 && decl.TemplateParams == 0:
		return nil, fmt.Errorf("type %s is not a template", decl.Name)
	case decl.TemplateParams > 0 && len(tn.Args) != decl.TemplateParams:
		return nil, fmt.Errorf("template %s expects %d arguments but got %d",
			decl.Name, decl.TemplateParams, len(tn.Args))
	}
	h := &TypeHandle{Decl: decl, Pointers: tn.Pointers}
	for _, arg := range tn.Args {
		ah, err := r.ResolveTypeName(arg)
		if err != nil {
			return nil, err
		}
		h.Args = append(h.Args, ah)
	}
	return h, nil
}

// ResolveScope resolves a qualified scope name such as "std" or
// "std::chrono".  The empty name is the global scope.
func (r *Resolver) ResolveScope(name string) (*ScopeHandle, error) {
	s, ok := r.Catalog.LookupScope(name)
	if !ok {
		return nil, &UnresolvedError{What: "scope", Name: name}
	}
	return &ScopeHandle{Decl: s}, nil
}

// SymbolSpelling converts the name part of a cpp/ symbol to a foreign
// spelling.  Dots separate scopes, so "std.string" names std::string.
func SymbolSpelling(name string) string {
	return strings.ReplaceAll(name, ".", "::")
}

// ResolveSymbol resolves the name part of a cpp/ symbol.  The enclosing
// scope is resolved first so that errors name the first missing component.
func (r *Resolver) ResolveSymbol(name string) (*TypeHandle, error) {
	spelling := SymbolSpelling(name)
	if scope := enclosing(spelling); scope != "" {
		if _, err := r.ResolveScope(scope); err != nil {
			return nil, err
		}
	}
	return r.LookupType(spelling)
}
