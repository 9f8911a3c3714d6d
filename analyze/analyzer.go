// Copyright © 2026 The jank authors

// Package analyze turns read forms into a scope-resolved expression tree.
//
// Analysis of one top-level form is a single recursive descent.  The
// Analyzer itself holds no per-analysis state, so one Analyzer may serve
// many goroutines as long as each analysis has its own root frame.
package analyze

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
)

// Analyzer builds expression trees from forms.
type Analyzer struct {
	Interop *interop.Resolver

	gensym atomic.Uint64
}

// New returns an analyzer resolving foreign names with resolver.  A nil
// resolver only knows the primitive foreign types.
func New(resolver *interop.Resolver) *Analyzer {
	if resolver == nil {
		resolver = interop.NewResolver(nil)
	}
	return &Analyzer{Interop: resolver}
}

// Analyze builds the expression for f under frame.  The hint pos is the
// evaluation context of f.  A returned error is always an *Error.
func (a *Analyzer) Analyze(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	if frame == nil {
		frame = NewRootFrame(nil)
	}
	return a.analyze(f, frame, pos)
}

func (a *Analyzer) analyze(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	if f == nil {
		f = form.MakeNil()
	}
	switch f.Type {
	case form.Nil, form.Bool, form.Int, form.Float, form.String, form.Keyword:
		return a.literal(f, f, frame, pos), nil
	case form.Symbol:
		return a.analyzeSymbol(f, frame, pos, true)
	case form.List:
		return a.analyzeList(f, frame, pos)
	case form.Vector:
		return a.analyzeCollection(KindVector, f, frame, pos)
	case form.Set:
		return a.analyzeCollection(KindSet, f, frame, pos)
	case form.Map:
		return a.analyzeMap(f, frame, pos)
	default:
		return nil, syntaxError(f, "unable to analyze form of type %s", f.Type)
	}
}

func (a *Analyzer) literal(value, src *form.Form, frame *Frame, pos Position) *Literal {
	return &Literal{Base: newBase(KindLiteral, frame, pos, src), Value: value}
}

// analyzeSymbol resolves a symbol in value position.  When boxed is false
// the reference is consumed in native form and does not count as a boxed
// usage of a local.
func (a *Analyzer) analyzeSymbol(f *form.Form, frame *Frame, pos Position, boxed bool) (Expr, error) {
	if f.NS == "" {
		if res, ok := frame.resolve(f.Str); ok {
			if res.recursion != nil {
				return &RecursionReference{
					Base:    newBase(KindRecursionReference, frame, pos, f),
					Context: res.recursion,
				}, nil
			}
			if boxed {
				res.binding.HasBoxedUsage = true
			} else {
				res.binding.HasUnboxedUsage = true
			}
			return &LocalRef{Base: newBase(KindLocalRef, frame, pos, f), Binding: res.binding}, nil
		}
	}
	if f.NS == cppNamespace {
		return a.analyzeCppSymbol(f, frame, pos)
	}
	if g := frame.Globals(); g != nil {
		if v, ok := g.ResolveGlobal(f); ok {
			return &VarRef{Base: newBase(KindVarDeref, frame, pos, f), Var: v}, nil
		}
	}
	return nil, unresolved(f, f.Name(), "unable to resolve symbol: %s", f.Name())
}

func (a *Analyzer) analyzeList(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	if len(f.Cells) == 0 {
		return &Collection{Base: newBase(KindList, frame, pos, f), Meta: f.Meta}, nil
	}
	head := f.Cells[0]
	if head.Type == form.Symbol {
		if sf, ok := specialForms[specialKey(head)]; ok {
			return sf.build(a, f, frame, pos)
		}
		if head.NS == "" {
			if res, ok := frame.resolve(head.Str); ok && res.recursion != nil {
				args, err := a.analyzeAll(f.Cells[1:], frame)
				if err != nil {
					return nil, err
				}
				return &Recursion{
					Base:    newBase(KindNamedRecursion, frame, pos, f),
					Context: res.recursion,
					Args:    args,
				}, nil
			}
		}
	}
	fn, err := a.analyze(head, frame, Nested)
	if err != nil {
		return nil, err
	}
	args, err := a.analyzeAll(f.Cells[1:], frame)
	if err != nil {
		return nil, err
	}
	return &Call{Base: newBase(KindCall, frame, pos, f), Fn: fn, Args: args}, nil
}

// analyzeAll analyzes forms in nested position.
func (a *Analyzer) analyzeAll(forms []*form.Form, frame *Frame) ([]Expr, error) {
	if len(forms) == 0 {
		return nil, nil
	}
	out := make([]Expr, len(forms))
	for i, c := range forms {
		e, err := a.analyze(c, frame, Nested)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (a *Analyzer) analyzeCollection(kind Kind, f *form.Form, frame *Frame, pos Position) (Expr, error) {
	items, err := a.analyzeAll(f.Cells, frame)
	if err != nil {
		return nil, err
	}
	return &Collection{Base: newBase(kind, frame, pos, f), Items: items, Meta: f.Meta}, nil
}

func (a *Analyzer) analyzeMap(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	n := &Map{Base: newBase(KindMap, frame, pos, f), Meta: f.Meta}
	for i := 0; i+1 < len(f.Cells); i += 2 {
		k, err := a.analyze(f.Cells[i], frame, Nested)
		if err != nil {
			return nil, err
		}
		v, err := a.analyze(f.Cells[i+1], frame, Nested)
		if err != nil {
			return nil, err
		}
		n.Keys = append(n.Keys, k)
		n.Values = append(n.Values, v)
	}
	return n, nil
}

// analyzeBody builds a do node from forms.  All but the last form are
// statements and the last inherits pos.
func (a *Analyzer) analyzeBody(forms []*form.Form, src *form.Form, frame *Frame, pos Position) (*Do, error) {
	n := &Do{Base: newBase(KindDo, frame, pos, src)}
	if len(forms) > 0 {
		n.Body = make([]Expr, len(forms))
	}
	for i, c := range forms {
		p := Statement
		if i == len(forms)-1 {
			p = pos
		}
		e, err := a.analyze(c, frame, p)
		if err != nil {
			return nil, err
		}
		n.Body[i] = e
	}
	return n, nil
}

// uniqueName returns a name for a function arity that is unique across
// every analysis sharing a.
func (a *Analyzer) uniqueName(name string) string {
	if name == "" {
		name = "fn"
	}
	return fmt.Sprintf("%s_%d", munge(name), a.gensym.Add(1))
}

func munge(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// asError converts a collaborator error to an analysis error for f.
func asError(f *form.Form, err error) *Error {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr
	}
	var uerr *interop.UnresolvedError
	if errors.As(err, &uerr) {
		return unresolved(f, uerr.Name, "unable to resolve foreign %s: %s", uerr.What, uerr.Name)
	}
	return syntaxError(f, "%v", err)
}
