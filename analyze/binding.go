// Copyright © 2026 The jank authors

package analyze

import (
	"github.com/jank-lang/jank-sub005/form"
)

// localName checks that sym can name a local.
func localName(sym *form.Form, what string) (string, error) {
	if sym.Type != form.Symbol {
		return "", syntaxError(sym, "%s must be a symbol, got %s", what, sym.Type)
	}
	if sym.Qualified() {
		return "", syntaxError(sym, "%s must be unqualified: %s", what, sym.Name())
	}
	if sym.Str == "&" {
		return "", syntaxError(sym, "%s may not be &", what)
	}
	return sym.Str, nil
}

func (a *Analyzer) analyzeFn(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	rest := f.Rest()
	n := &Fn{Base: newBase(KindFn, frame, pos, f), Meta: f.Meta}
	if len(rest) > 0 && rest[0].Type == form.Symbol {
		name, err := localName(rest[0], "function name")
		if err != nil {
			return nil, err
		}
		n.Name = name
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, syntaxError(f, "fn* requires a parameter vector")
	}

	var arities [][]*form.Form
	if rest[0].Type == form.Vector {
		arities = append(arities, rest)
	} else {
		for _, c := range rest {
			if c.Type != form.List || len(c.Cells) == 0 || c.Cells[0].Type != form.Vector {
				return nil, syntaxError(c, "fn* arity must be a list starting with a parameter vector")
			}
			arities = append(arities, c.Cells)
		}
	}

	fixed := make(map[int]bool)
	variadic := false
	for _, arity := range arities {
		fa, err := a.analyzeArity(n.Name, arity[0], arity[1:], frame)
		if err != nil {
			return nil, err
		}
		if fa.Context.IsVariadic {
			if variadic {
				return nil, syntaxError(arity[0], "fn* can't have more than one variadic arity")
			}
			variadic = true
		} else {
			if fixed[fa.Context.ParamCount] {
				return nil, syntaxError(arity[0], "fn* can't have two arities taking %d parameters", fa.Context.ParamCount)
			}
			fixed[fa.Context.ParamCount] = true
		}
		n.Arities = append(n.Arities, fa)
	}
	return n, nil
}

func (a *Analyzer) analyzeArity(name string, params *form.Form, body []*form.Form, frame *Frame) (*FnArity, error) {
	fnFrame := frame.Extend(FrameFn)
	ctx := &FunctionContext{Name: name, UniqueName: a.uniqueName(name)}
	fnFrame.Fn = ctx
	fa := &FnArity{Frame: fnFrame, Context: ctx}

	for i := 0; i < len(params.Cells); i++ {
		p := params.Cells[i]
		if p.IsSymbol("", "&") {
			if ctx.IsVariadic || i != len(params.Cells)-2 {
				return nil, syntaxError(p, "& must be followed by exactly one parameter")
			}
			ctx.IsVariadic = true
			continue
		}
		pname, err := localName(p, "parameter")
		if err != nil {
			return nil, err
		}
		b := &LocalBinding{Name: pname, Kind: BindingParam}
		if err := fnFrame.Bind(b); err != nil {
			return nil, syntaxError(p, "duplicate parameter: %s", pname)
		}
		fa.Params = append(fa.Params, b)
	}
	ctx.ParamCount = len(fa.Params)
	if ctx.IsVariadic {
		ctx.ParamCount--
	}

	var err error
	fa.Body, err = a.analyzeBody(body, params, fnFrame, Return)
	if err != nil {
		return nil, err
	}
	return fa, nil
}

func (a *Analyzer) analyzeLet(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) < 1 {
		return nil, syntaxError(f, "let* requires a binding vector")
	}
	bindings := args[0]
	if bindings.Type != form.Vector {
		return nil, syntaxError(bindings, "let* bindings must be a vector, got %s", bindings.Type)
	}
	if len(bindings.Cells)%2 != 0 {
		return nil, syntaxError(bindings, "let* requires an even number of binding forms")
	}

	n := &Let{Base: newBase(KindLet, frame, pos, f)}
	scope := frame.Extend(FrameLet)
	for i := 0; i < len(bindings.Cells); i += 2 {
		name, err := localName(bindings.Cells[i], "let* binding name")
		if err != nil {
			return nil, err
		}
		value, err := a.analyze(bindings.Cells[i+1], scope, Nested)
		if err != nil {
			return nil, err
		}
		if _, ok := scope.LookupLocal(name); ok {
			scope = scope.Extend(FrameLet)
		}
		b := &LocalBinding{Name: name, Kind: BindingLet, Value: value}
		if err := scope.Bind(b); err != nil {
			panic(err)
		}
		n.Bindings = append(n.Bindings, LetBinding{Binding: b, Value: value})
	}
	n.Scope = scope

	body, err := a.analyzeBody(args[1:], f, scope, pos)
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
}

func (a *Analyzer) analyzeLetfn(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	args := f.Rest()
	if len(args) < 1 {
		return nil, syntaxError(f, "letfn* requires a binding vector")
	}
	bindings := args[0]
	if bindings.Type != form.Vector {
		return nil, syntaxError(bindings, "letfn* bindings must be a vector, got %s", bindings.Type)
	}

	names, fns, err := letfnBindings(bindings)
	if err != nil {
		return nil, err
	}

	n := &Let{Base: newBase(KindLetfn, frame, pos, f)}
	scope := frame.Extend(FrameLetfn)
	locals := make([]*LocalBinding, len(names))
	for i, sym := range names {
		b := &LocalBinding{Name: sym.Str, Kind: BindingLetfn}
		if err := scope.Bind(b); err != nil {
			return nil, syntaxError(sym, "duplicate letfn* binding: %s", sym.Str)
		}
		locals[i] = b
	}
	for i, fnForm := range fns {
		value, err := a.analyze(fnForm, scope, Nested)
		if err != nil {
			return nil, err
		}
		locals[i].Value = value
		n.Bindings = append(n.Bindings, LetBinding{Binding: locals[i], Value: value})
	}
	n.Scope = scope

	body, err := a.analyzeBody(args[1:], f, scope, pos)
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
}

// letfnBindings accepts name/fn* pairs as well as the (name [params] body*)
// shorthand.
func letfnBindings(bindings *form.Form) ([]*form.Form, []*form.Form, error) {
	var names, fns []*form.Form
	cells := bindings.Cells
	for i := 0; i < len(cells); {
		c := cells[i]
		if c.Type == form.List {
			if len(c.Cells) < 2 {
				return nil, nil, syntaxError(c, "letfn* function requires a name and a parameter vector")
			}
			if _, err := localName(c.Cells[0], "letfn* binding name"); err != nil {
				return nil, nil, err
			}
			fnForm := &form.Form{
				Type:   form.List,
				Source: c.Source,
				Cells:  append([]*form.Form{form.MakeSymbol("fn*")}, c.Cells...),
			}
			names = append(names, c.Cells[0])
			fns = append(fns, fnForm)
			i++
			continue
		}
		if _, err := localName(c, "letfn* binding name"); err != nil {
			return nil, nil, err
		}
		if i+1 >= len(cells) {
			return nil, nil, syntaxError(c, "letfn* binding %s has no function", c.Str)
		}
		fnForm := cells[i+1]
		if fnForm.Type != form.List || !isFnHead(fnForm.Head()) {
			return nil, nil, syntaxError(fnForm, "letfn* binding %s must be a fn* form", c.Str)
		}
		names = append(names, c)
		fns = append(fns, fnForm)
		i += 2
	}
	return names, fns, nil
}

func isFnHead(head *form.Form) bool {
	return head.IsSymbol("", "fn*") || head.IsSymbol("", "fn")
}

func (a *Analyzer) analyzeRecur(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	ctx, ok := frame.ResolveRecursion()
	if !ok {
		return nil, newError(RecursionTargetError, f, "recur used outside of a function")
	}
	if pos != Return {
		return nil, newError(RecursionTargetError, f, "recur must be in tail position").
			note("recur target is %s", ctx.UniqueName)
	}
	args, err := a.analyzeAll(f.Rest(), frame)
	if err != nil {
		return nil, err
	}
	ctx.IsTailRecursive = true
	return &Recursion{Base: newBase(KindRecur, frame, pos, f), Context: ctx, Args: args}, nil
}

func (a *Analyzer) analyzeTry(f *form.Form, frame *Frame, pos Position) (Expr, error) {
	var body []*form.Form
	var catchForm, finallyForm *form.Form
	for _, c := range f.Rest() {
		head := c.Head()
		switch {
		case c.Type == form.List && head.IsSymbol("", "catch"):
			if catchForm != nil {
				return nil, newError(StructuralError, c, "try has more than one catch clause").
					note("first catch clause at %s", catchForm.Source)
			}
			if finallyForm != nil {
				return nil, syntaxError(c, "catch clause must come before finally")
			}
			catchForm = c
		case c.Type == form.List && head.IsSymbol("", "finally"):
			if finallyForm != nil {
				return nil, newError(StructuralError, c, "try has more than one finally clause").
					note("first finally clause at %s", finallyForm.Source)
			}
			finallyForm = c
		default:
			if catchForm != nil || finallyForm != nil {
				return nil, syntaxError(c, "try body forms must come before catch and finally")
			}
			body = append(body, c)
		}
	}

	n := &Try{Base: newBase(KindTry, frame, pos, f)}
	var err error
	n.Body, err = a.analyzeBody(body, f, frame, pos)
	if err != nil {
		return nil, err
	}
	if catchForm != nil {
		args := catchForm.Rest()
		if len(args) < 1 {
			return nil, syntaxError(catchForm, "catch requires a binding symbol")
		}
		name, err := localName(args[0], "catch binding")
		if err != nil {
			return nil, err
		}
		scope := frame.Extend(FrameCatch)
		b := &LocalBinding{Name: name, Kind: BindingCatch}
		if err := scope.Bind(b); err != nil {
			panic(err)
		}
		cbody, err := a.analyzeBody(args[1:], catchForm, scope, pos)
		if err != nil {
			return nil, err
		}
		n.Catch = &Catch{Binding: b, Frame: scope, Body: cbody, Source: catchForm.Source}
	}
	if finallyForm != nil {
		n.Finally, err = a.analyzeBody(finallyForm.Rest(), finallyForm, frame, Statement)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
