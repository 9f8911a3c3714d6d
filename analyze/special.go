// Copyright © 2026 The jank authors

package analyze

import (
	"sort"

	"github.com/jank-lang/jank-sub005/form"
)

const cppNamespace = "cpp"

type builder func(a *Analyzer, f *form.Form, frame *Frame, pos Position) (Expr, error)

type specialForm struct {
	SpecialForm
	build builder
}

// SpecialForm documents a special form.
type SpecialForm struct {
	Name    string
	Syntax  string
	Doc     string
	Aliases []string
}

// specialForms maps head symbols to builders.  It is populated by init
// because the builders refer back to the analyzer's dispatch.
var specialForms map[string]*specialForm

func init() {
	specialForms = make(map[string]*specialForm)
	add := func(sf *specialForm) {
		specialForms[sf.Name] = sf
		for _, alias := range sf.Aliases {
			specialForms[alias] = sf
		}
	}
	add(&specialForm{SpecialForm{
		Name:   "def",
		Syntax: "(def name) (def name value) (def name doc value)",
		Doc:    "Interns the var name in the current namespace and binds it to value.",
	}, (*Analyzer).analyzeDef})
	add(&specialForm{SpecialForm{
		Name:    "fn*",
		Syntax:  "(fn* name? [params*] body*) (fn* name? ([params*] body*)+)",
		Doc:     "Creates a function.  A parameter list may end with & and a rest parameter.  A named function may refer to itself by name.",
		Aliases: []string{"fn"},
	}, (*Analyzer).analyzeFn})
	add(&specialForm{SpecialForm{
		Name:    "let*",
		Syntax:  "(let* [name value ...] body*)",
		Doc:     "Binds each name to its value in sequence and evaluates body with the bindings in scope.",
		Aliases: []string{"let"},
	}, (*Analyzer).analyzeLet})
	add(&specialForm{SpecialForm{
		Name:    "letfn*",
		Syntax:  "(letfn* [name (fn* ...) ...] body*)",
		Doc:     "Binds a group of functions that may refer to each other regardless of order.",
		Aliases: []string{"letfn"},
	}, (*Analyzer).analyzeLetfn})
	add(&specialForm{SpecialForm{
		Name:   "do",
		Syntax: "(do body*)",
		Doc:    "Evaluates body in order and yields the value of the last form, or nil.",
	}, (*Analyzer).analyzeDo})
	add(&specialForm{SpecialForm{
		Name:   "if",
		Syntax: "(if test then else?)",
		Doc:    "Evaluates then when test is truthy and else otherwise.",
	}, (*Analyzer).analyzeIf})
	add(&specialForm{SpecialForm{
		Name:   "quote",
		Syntax: "(quote form)",
		Doc:    "Yields form unevaluated.",
	}, (*Analyzer).analyzeQuote})
	add(&specialForm{SpecialForm{
		Name:   "var",
		Syntax: "(var name)",
		Doc:    "Yields the var named by name rather than its value.",
	}, (*Analyzer).analyzeVar})
	add(&specialForm{SpecialForm{
		Name:   "recur",
		Syntax: "(recur args*)",
		Doc:    "Jumps back to the start of the enclosing function with new arguments.  Only valid in tail position.",
	}, (*Analyzer).analyzeRecur})
	add(&specialForm{SpecialForm{
		Name:   "throw",
		Syntax: "(throw value)",
		Doc:    "Raises value as an exception.",
	}, (*Analyzer).analyzeThrow})
	add(&specialForm{SpecialForm{
		Name:   "try",
		Syntax: "(try body* (catch name body*)? (finally body*)?)",
		Doc:    "Evaluates body.  An exception is bound to name while the catch body runs.  The finally body always runs and its value is discarded.",
	}, (*Analyzer).analyzeTry})
	add(&specialForm{SpecialForm{
		Name:   "cpp/new",
		Syntax: "(cpp/new type args*)",
		Doc:    "Constructs a value of a foreign type.",
	}, (*Analyzer).analyzeCppNew})
	add(&specialForm{SpecialForm{
		Name:   "cpp/delete",
		Syntax: "(cpp/delete value)",
		Doc:    "Destroys a foreign value created by cpp/new.",
	}, (*Analyzer).analyzeCppDelete})
	add(&specialForm{SpecialForm{
		Name:   "cpp/raw",
		Syntax: "(cpp/raw code)",
		Doc:    "Inlines a string of foreign source code.",
	}, (*Analyzer).analyzeCppRaw})
	add(&specialForm{SpecialForm{
		Name:   "cpp/type",
		Syntax: "(cpp/type type)",
		Doc:    "Refers to a foreign type.",
	}, (*Analyzer).analyzeCppType})
	add(&specialForm{SpecialForm{
		Name:   "cpp/box",
		Syntax: "(cpp/box value)",
		Doc:    "Wraps a native foreign value in the boxed representation.",
	}, (*Analyzer).analyzeCppBox})
	add(&specialForm{SpecialForm{
		Name:   "cpp/unbox",
		Syntax: "(cpp/unbox type value)",
		Doc:    "Extracts the native pointer of the given type from a boxed value.  The value is left unboxed.",
	}, (*Analyzer).analyzeCppUnbox})
}

func specialKey(sym *form.Form) string {
	if sym.NS == "" {
		return sym.Str
	}
	return sym.NS + "/" + sym.Str
}

// SpecialForms returns the documentation of every special form, sorted by
// name.
func SpecialForms() []SpecialForm {
	seen := make(map[*specialForm]bool)
	var out []SpecialForm
	for _, sf := range specialForms {
		if seen[sf] {
			continue
		}
		seen[sf] = true
		out = append(out, sf.SpecialForm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsSpecial reports whether sym names a special form.
func IsSpecial(sym *form.Form) bool {
	if sym == nil || sym.Type != form.Symbol {
		return false
	}
	_, ok := specialForms[specialKey(sym)]
	return ok
}

func (a *Analyzer) analyzeDef(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) < 1 || len(args) > 3 {
		return nil, syntaxError(f, "wrong number of arguments to def: %d", len(args))
	}
	name := args[0]
	if name.Type != form.Symbol {
		return nil, syntaxError(name, "def requires a symbol name, got %s", name.Type)
	}
	var doc string
	var value *form.Form
	switch len(args) {
	case 2:
		value = args[1]
	case 3:
		if args[1].Type != form.String {
			return nil, syntaxError(args[1], "def docstring must be a string, got %s", args[1].Type)
		}
		doc = args[1].Str
		value = args[2]
	}
	g := frame.Globals()
	if g == nil {
		return nil, syntaxError(f, "def is not allowed without a namespace")
	}
	v, err := g.InternGlobal(name)
	if err != nil {
		return nil, asError(name, err)
	}
	meta := name.Meta
	if doc != "" {
		meta = form.Assoc(meta, form.MakeKeyword("doc"), form.MakeString(doc))
	}
	if meta.IsNil() {
		meta = form.MakeMap()
	}
	v.SetMeta(meta)

	n := &Def{Base: newBase(KindDef, frame, pos, f), Var: v, Doc: doc, Meta: meta}
	if value != nil {
		n.Value, err = a.analyze(value, frame, Nested)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (a *Analyzer) analyzeDo(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	return a.analyzeBody(f.Rest(), f, frame, pos)
}

func (a *Analyzer) analyzeIf(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) < 2 || len(args) > 3 {
		return nil, syntaxError(f, "wrong number of arguments to if: %d", len(args))
	}
	test, err := a.analyze(args[0], frame, Nested)
	if err != nil {
		return nil, err
	}
	then, err := a.analyze(args[1], frame, pos)
	if err != nil {
		return nil, err
	}
	var els Expr
	if len(args) == 3 {
		els, err = a.analyze(args[2], frame, pos)
		if err != nil {
			return nil, err
		}
	} else {
		els = a.literal(form.MakeNil(), f, frame, pos)
	}
	return &If{Base: newBase(KindIf, frame, pos, f), Test: test, Then: then, Else: els}, nil
}

func (a *Analyzer) analyzeQuote(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to quote: %d", len(args))
	}
	return a.literal(args[0], f, frame, pos), nil
}

func (a *Analyzer) analyzeVar(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to var: %d", len(args))
	}
	sym := args[0]
	if sym.Type != form.Symbol {
		return nil, syntaxError(sym, "var requires a symbol, got %s", sym.Type)
	}
	if g := frame.Globals(); g != nil {
		if v, ok := g.ResolveGlobal(sym); ok {
			return &VarRef{Base: newBase(KindVarRef, frame, pos, f), Var: v}, nil
		}
	}
	return nil, unresolved(sym, sym.Name(), "unable to resolve var: %s", sym.Name())
}

func (a *Analyzer) analyzeThrow(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) != 1 {
		return nil, syntaxError(f, "wrong number of arguments to throw: %d", len(args))
	}
	value, err := a.analyze(args[0], frame, Nested)
	if err != nil {
		return nil, err
	}
	return &Throw{Base: newBase(KindThrow, frame, pos, f), Value: value}, nil
}
