// Copyright © 2026 The jank authors

package analyze

import (
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
)

// ToRuntimeData projects e into a keyword map describing its kind, common
// fields and children.  It does not modify e and accepts nil.
func ToRuntimeData(e Expr) *form.Form {
	if e == nil {
		return form.MakeNil()
	}
	b := e.Common()
	m := newRecord()
	m.put("kind", kw(e.Kind().String()))
	m.put("position", kw(b.Position.String()))
	m.put("needs-box", form.MakeBool(b.NeedsBox))
	if b.Frame != nil {
		m.put("frame", kw(b.Frame.Kind.String()))
	}
	if b.Source != nil {
		m.put("source", form.MakeString(b.Source.String()))
	}

	switch n := e.(type) {
	case *Literal:
		m.put("value", n.Value)
	case *LocalRef:
		if n.Binding != nil {
			m.put("name", form.MakeSymbol(n.Binding.Name))
		}
		m.put("binding", bindingData(n.Binding))
	case *VarRef:
		if n.Var != nil {
			m.put("var", n.Var.Symbol())
		}
	case *Fn:
		if n.Name != "" {
			m.put("name", form.MakeSymbol(n.Name))
		}
		arities := make([]*form.Form, len(n.Arities))
		for i, a := range n.Arities {
			arities[i] = arityData(a)
		}
		m.put("arities", form.MakeVector(arities...))
	case *Call:
		m.put("fn", ToRuntimeData(n.Fn))
		m.put("args", exprVector(n.Args))
	case *If:
		m.put("test", ToRuntimeData(n.Test))
		m.put("then", ToRuntimeData(n.Then))
		m.put("else", ToRuntimeData(n.Else))
	case *Do:
		m.put("body", exprVector(n.Body))
	case *Let:
		pairs := make([]*form.Form, len(n.Bindings))
		for i, lb := range n.Bindings {
			pairs[i] = form.MakeVector(bindingData(lb.Binding), ToRuntimeData(lb.Value))
		}
		m.put("bindings", form.MakeVector(pairs...))
		m.put("body", ToRuntimeData(n.Body))
	case *Collection:
		m.put("items", exprVector(n.Items))
		putMeta(m, n.Meta)
	case *Map:
		entries := make([]*form.Form, len(n.Keys))
		for i := range n.Keys {
			entries[i] = form.MakeVector(ToRuntimeData(n.Keys[i]), ToRuntimeData(n.Values[i]))
		}
		m.put("entries", form.MakeVector(entries...))
		putMeta(m, n.Meta)
	case *Recursion:
		m.put("target", contextData(n.Context))
		m.put("args", exprVector(n.Args))
	case *RecursionReference:
		m.put("target", contextData(n.Context))
	case *Def:
		if n.Var != nil {
			m.put("var", n.Var.Symbol())
		}
		if n.Doc != "" {
			m.put("doc", form.MakeString(n.Doc))
		}
		if n.Value != nil {
			m.put("value", ToRuntimeData(n.Value))
		}
	case *Try:
		m.put("body", ToRuntimeData(n.Body))
		if n.Catch != nil {
			c := newRecord()
			c.put("binding", bindingData(n.Catch.Binding))
			c.put("body", ToRuntimeData(n.Catch.Body))
			m.put("catch", c.form())
		}
		if n.Finally != nil {
			m.put("finally", ToRuntimeData(n.Finally))
		}
	case *Throw:
		m.put("value", ToRuntimeData(n.Value))
	case *CppNew:
		putType(m, n.Type)
		m.put("args", exprVector(n.Args))
	case *CppDelete:
		m.put("value", ToRuntimeData(n.Value))
	case *CppRaw:
		m.put("code", form.MakeString(n.Code))
	case *CppType:
		putType(m, n.Type)
	case *CppBox:
		m.put("value", ToRuntimeData(n.Value))
	case *CppUnbox:
		putType(m, n.Type)
		m.put("value", ToRuntimeData(n.Value))
	}
	return m.form()
}

// record accumulates the entries of a keyword map.
type record struct {
	cells []*form.Form
}

func newRecord() *record {
	return &record{}
}

func (r *record) put(key string, value *form.Form) {
	if value == nil {
		value = form.MakeNil()
	}
	r.cells = append(r.cells, kw(key), value)
}

func (r *record) form() *form.Form {
	return form.MakeMap(r.cells...)
}

func kw(name string) *form.Form {
	return form.MakeKeyword(name)
}

func exprVector(exprs []Expr) *form.Form {
	out := make([]*form.Form, len(exprs))
	for i, e := range exprs {
		out[i] = ToRuntimeData(e)
	}
	return form.MakeVector(out...)
}

func bindingData(b *LocalBinding) *form.Form {
	if b == nil {
		return form.MakeNil()
	}
	r := newRecord()
	r.put("name", form.MakeSymbol(b.Name))
	r.put("kind", kw(b.Kind.String()))
	r.put("captured", form.MakeBool(b.Captured))
	r.put("boxed-usage", form.MakeBool(b.HasBoxedUsage))
	r.put("unboxed-usage", form.MakeBool(b.HasUnboxedUsage))
	return r.form()
}

func contextData(ctx *FunctionContext) *form.Form {
	if ctx == nil {
		return form.MakeNil()
	}
	r := newRecord()
	if ctx.Name != "" {
		r.put("name", form.MakeSymbol(ctx.Name))
	}
	r.put("unique-name", form.MakeString(ctx.UniqueName))
	r.put("param-count", form.MakeInt(int64(ctx.ParamCount)))
	r.put("variadic", form.MakeBool(ctx.IsVariadic))
	r.put("tail-recursive", form.MakeBool(ctx.IsTailRecursive))
	return r.form()
}

func arityData(a *FnArity) *form.Form {
	r := newRecord()
	params := make([]*form.Form, len(a.Params))
	for i, p := range a.Params {
		params[i] = bindingData(p)
	}
	r.put("params", form.MakeVector(params...))
	r.put("context", contextData(a.Context))
	if a.Frame != nil && len(a.Frame.Captures) > 0 {
		names := make([]*form.Form, 0, len(a.Frame.Captures))
		for _, name := range sortedKeys(a.Frame.Captures) {
			names = append(names, form.MakeSymbol(name))
		}
		r.put("captures", form.MakeVector(names...))
	}
	r.put("body", ToRuntimeData(a.Body))
	return r.form()
}

func putMeta(r *record, meta *form.Form) {
	if !meta.IsNil() {
		r.put("meta", meta)
	}
}

func putType(r *record, h *interop.TypeHandle) {
	if h == nil {
		return
	}
	r.put("type", form.MakeString(h.Name()))
}
