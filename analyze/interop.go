// Copyright © 2026 The jank authors

package analyze

import (
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
)

// resolveType resolves a type operand: a string spelling such as
// "std::vector<int>*" or a cpp/ symbol such as cpp/std.string.
func (a *Analyzer) resolveType(t *form.Form) (*interop.TypeHandle, error) {
	switch {
	case t.Type == form.String:
		h, err := a.Interop.LookupType(t.Str)
		if err != nil {
			return nil, asError(t, err)
		}
		return h, nil
	case t.Type == form.Symbol && t.NS == cppNamespace:
		h, err := a.Interop.ResolveSymbol(t.Str)
		if err != nil {
			return nil, asError(t, err)
		}
		return h, nil
	default:
		return nil, syntaxError(t, "expected a foreign type name, got %s", t.Type)
	}
}

func (a *Analyzer) analyzeCppSymbol(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	h, err := a.resolveType(f)
	if err != nil {
		return nil, err
	}
	return &CppType{Base: newBase(KindCppType, frame, pos, f), Type: h}, nil
}

func (a *Analyzer) analyzeCppNew(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) < 1 {
		return nil, syntaxError(f, "cpp/new requires a type")
	}
	h, err := a.resolveType(args[0])
	if err != nil {
		return nil, err
	}
	values, err := a.analyzeAll(args[1:], frame)
	if err != nil {
		return nil, err
	}
	return &CppNew{Base: newBase(KindCppNew, frame, pos, f), Type: h, Args: values}, nil
}

func (a *Analyzer) analyzeCppDelete(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to cpp/delete: %d", len(args))
	}
	value, err := a.analyze(args[0], frame, Nested)
	if err != nil {
		return nil, err
	}
	return &CppDelete{Base: newBase(KindCppDelete, frame, pos, f), Value: value}, nil
}

func (a *Analyzer) analyzeCppRaw(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 || args[0].Type != form.String {
		return nil, syntaxError(f, "cpp/raw requires a single string of code")
	}
	return &CppRaw{Base: newBase(KindCppRaw, frame, pos, f), Code: args[0].Str}, nil
}

func (a *Analyzer) analyzeCppType(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to cpp/type: %d", len(args))
	}
	h, err := a.resolveType(args[0])
	if err != nil {
		return nil, err
	}
	return &CppType{Base: newBase(KindCppType, frame, pos, f), Type: h}, nil
}

func (a *Analyzer) analyzeCppBox(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to cpp/box: %d", len(args))
	}
	value, err := a.analyze(args[0], frame, Nested)
	if err != nil {
		return nil, err
	}
	return &CppBox{Base: newBase(KindCppBox, frame, pos, f), Value: value}, nil
}

// analyzeCppUnbox is the only builder that clears NeedsBox on another node.
func (a *Analyzer) analyzeCppUnbox(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 2 {
		return nil, syntaxError(f, "wrong number of arguments to cpp/unbox: %d", len(args))
	}
	h, err := a.resolveType(args[0])
	if err != nil {
		return nil, err
	}
	if !h.IsPointer() {
		return nil, syntaxError(args[0], "cpp/unbox requires a pointer type, got %s", h.Name())
	}
	var value Expr
	if args[1].Type == form.Symbol {
		value, err = a.analyzeSymbol(args[1], frame, Nested, false)
	} else {
		value, err = a.analyze(args[1], frame, Nested)
	}
	if err != nil {
		return nil, err
	}
	value.Common().NeedsBox = false
	return &CppUnbox{Base: newBase(KindCppUnbox, frame, pos, f), Type: h, Value: value}, nil
}
