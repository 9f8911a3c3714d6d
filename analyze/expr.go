// Copyright © 2026 The jank authors

package analyze

import (
	"fmt"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
	"github.com/jank-lang/jank-sub005/namespace"
)

// Kind discriminates expression nodes.
type Kind int

const (
	KindInvalid Kind = iota
	KindLiteral
	KindLocalRef
	KindVarDeref
	KindVarRef
	KindFn
	KindCall
	KindIf
	KindDo
	KindLet
	KindLetfn
	KindList
	KindVector
	KindMap
	KindSet
	KindRecur
	KindNamedRecursion
	KindRecursionReference
	KindDef
	KindTry
	KindThrow
	KindCppNew
	KindCppDelete
	KindCppRaw
	KindCppType
	KindCppBox
	KindCppUnbox
)

var kindNames = [...]string{
	KindInvalid:            "invalid",
	KindLiteral:            "literal",
	KindLocalRef:           "local-reference",
	KindVarDeref:           "var-deref",
	KindVarRef:             "var-ref",
	KindFn:                 "fn",
	KindCall:               "call",
	KindIf:                 "if",
	KindDo:                 "do",
	KindLet:                "let",
	KindLetfn:              "letfn",
	KindList:               "list",
	KindVector:             "vector",
	KindMap:                "map",
	KindSet:                "set",
	KindRecur:              "recur",
	KindNamedRecursion:     "named-recursion",
	KindRecursionReference: "recursion-reference",
	KindDef:                "def",
	KindTry:                "try",
	KindThrow:              "throw",
	KindCppNew:             "cpp-new",
	KindCppDelete:          "cpp-delete",
	KindCppRaw:             "cpp-raw",
	KindCppType:            "cpp-type",
	KindCppBox:             "cpp-box",
	KindCppUnbox:           "cpp-unbox",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Position is the evaluation context of a node.
type Position int

const (
	// Nested values are consumed by an enclosing expression.
	Nested Position = iota
	// Statement values are discarded.
	Statement
	// Return values become the result of the enclosing function.
	Return
)

func (p Position) String() string {
	switch p {
	case Nested:
		return "nested"
	case Statement:
		return "statement"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// Base holds the fields common to every node.
type Base struct {
	kind     Kind
	Position Position
	// Frame is the scope active where the node was built.
	Frame *Frame
	// NeedsBox is false only when the value is consumed by cpp/unbox.
	NeedsBox bool
	Source   *form.Location
}

func newBase(kind Kind, frame *Frame, pos Position, f *form.Form) Base {
	b := Base{kind: kind, Position: pos, Frame: frame, NeedsBox: true}
	if f != nil {
		b.Source = f.Source
	}
	return b
}

// Kind returns the node kind.  It never changes after construction.
func (b *Base) Kind() Kind {
	return b.kind
}

// Common returns the node's common fields.
func (b *Base) Common() *Base {
	return b
}

// Expr is an analyzed expression node.
type Expr interface {
	Kind() Kind
	Common() *Base
	// Children returns the direct child nodes in evaluation order.
	Children() []Expr
	rebuild(children []Expr) Expr
}

// Rebuild returns a shallow copy of e whose children are replaced, in
// order, by children.  The number of children must match e.Children().
func Rebuild(e Expr, children []Expr) Expr {
	return e.rebuild(children)
}

// Clone returns a shallow copy of e sharing e's children.
func Clone(e Expr) Expr {
	return e.rebuild(e.Children())
}

func checkChildren(e Expr, children []Expr, n int) {
	if len(children) != n {
		panic(fmt.Sprintf("analyze: rebuilding %s node with %d children, want %d", e.Kind(), len(children), n))
	}
}

// Literal is a constant value, including quoted forms.
type Literal struct {
	Base
	Value *form.Form
}

func (n *Literal) Children() []Expr { return nil }

func (n *Literal) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// LocalRef refers to a local binding.
type LocalRef struct {
	Base
	Binding *LocalBinding
}

func (n *LocalRef) Children() []Expr { return nil }

func (n *LocalRef) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// VarRef refers to a global var.  KindVarDeref reads the var's value and
// KindVarRef, built by (var x), yields the var itself.
type VarRef struct {
	Base
	Var *namespace.Var
}

func (n *VarRef) Children() []Expr { return nil }

func (n *VarRef) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// FnArity is one parameter list and body of a function.
type FnArity struct {
	Params  []*LocalBinding
	Frame   *Frame
	Context *FunctionContext
	Body    Expr
}

// Fn is a function definition.
type Fn struct {
	Base
	Name    string
	Arities []*FnArity
	Meta    *form.Form
}

func (n *Fn) Children() []Expr {
	out := make([]Expr, len(n.Arities))
	for i, a := range n.Arities {
		out[i] = a.Body
	}
	return out
}

func (n *Fn) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Arities))
	cp := *n
	cp.Arities = make([]*FnArity, len(n.Arities))
	for i, a := range n.Arities {
		ac := *a
		ac.Body = children[i]
		cp.Arities[i] = &ac
	}
	return &cp
}

// Call is a function invocation.
type Call struct {
	Base
	Fn   Expr
	Args []Expr
}

func (n *Call) Children() []Expr {
	return append([]Expr{n.Fn}, n.Args...)
}

func (n *Call) rebuild(children []Expr) Expr {
	checkChildren(n, children, 1+len(n.Args))
	cp := *n
	cp.Fn = children[0]
	cp.Args = append([]Expr(nil), children[1:]...)
	return &cp
}

// If is a conditional.  Else is a nil literal when the form has no else
// branch.
type If struct {
	Base
	Test Expr
	Then Expr
	Else Expr
}

func (n *If) Children() []Expr {
	return []Expr{n.Test, n.Then, n.Else}
}

func (n *If) rebuild(children []Expr) Expr {
	checkChildren(n, children, 3)
	cp := *n
	cp.Test, cp.Then, cp.Else = children[0], children[1], children[2]
	return &cp
}

// Do evaluates Body in order, yielding the last value or nil.
type Do struct {
	Base
	Body []Expr
}

func (n *Do) Children() []Expr {
	return n.Body
}

func (n *Do) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Body))
	cp := *n
	cp.Body = append([]Expr(nil), children...)
	return &cp
}

// LetBinding pairs a local with its initial value.
type LetBinding struct {
	Binding *LocalBinding
	Value   Expr
}

// Let binds locals sequentially (KindLet) or as a mutually recursive group
// of functions (KindLetfn).
type Let struct {
	Base
	Bindings []LetBinding
	// Scope is the innermost frame holding the bindings.
	Scope *Frame
	Body  Expr
}

func (n *Let) Children() []Expr {
	out := make([]Expr, 0, len(n.Bindings)+1)
	for _, b := range n.Bindings {
		out = append(out, b.Value)
	}
	return append(out, n.Body)
}

func (n *Let) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Bindings)+1)
	cp := *n
	cp.Bindings = make([]LetBinding, len(n.Bindings))
	for i, b := range n.Bindings {
		cp.Bindings[i] = LetBinding{Binding: b.Binding, Value: children[i]}
		// The binding is shared with every reference to it, so it follows
		// the newest tree.
		if b.Binding != nil && b.Binding.Value == b.Value {
			b.Binding.Value = children[i]
		}
	}
	cp.Body = children[len(children)-1]
	return &cp
}

// Collection is a list, vector or set literal.
type Collection struct {
	Base
	Items []Expr
	Meta  *form.Form
}

func (n *Collection) Children() []Expr {
	return n.Items
}

func (n *Collection) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Items))
	cp := *n
	cp.Items = append([]Expr(nil), children...)
	return &cp
}

// Map is a map literal.
type Map struct {
	Base
	Keys   []Expr
	Values []Expr
	Meta   *form.Form
}

// Children returns keys and values interleaved.
func (n *Map) Children() []Expr {
	out := make([]Expr, 0, 2*len(n.Keys))
	for i := range n.Keys {
		out = append(out, n.Keys[i], n.Values[i])
	}
	return out
}

func (n *Map) rebuild(children []Expr) Expr {
	checkChildren(n, children, 2*len(n.Keys))
	cp := *n
	cp.Keys = make([]Expr, len(n.Keys))
	cp.Values = make([]Expr, len(n.Values))
	for i := range n.Keys {
		cp.Keys[i] = children[2*i]
		cp.Values[i] = children[2*i+1]
	}
	return &cp
}

// Recursion is a self call compiled as a jump.  KindRecur is built by recur
// and KindNamedRecursion by calling the enclosing function by name.
type Recursion struct {
	Base
	Context *FunctionContext
	Args    []Expr
}

func (n *Recursion) Children() []Expr {
	return n.Args
}

func (n *Recursion) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Args))
	cp := *n
	cp.Args = append([]Expr(nil), children...)
	return &cp
}

// RecursionReference is a reference to the enclosing function by its name
// in a non-call position.
type RecursionReference struct {
	Base
	Context *FunctionContext
}

func (n *RecursionReference) Children() []Expr { return nil }

func (n *RecursionReference) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// Def defines a global var.  Value is nil for (def name).
type Def struct {
	Base
	Var   *namespace.Var
	Value Expr
	Doc   string
	Meta  *form.Form
}

func (n *Def) Children() []Expr {
	if n.Value == nil {
		return nil
	}
	return []Expr{n.Value}
}

func (n *Def) rebuild(children []Expr) Expr {
	cp := *n
	if n.Value == nil {
		checkChildren(n, children, 0)
		return &cp
	}
	checkChildren(n, children, 1)
	cp.Value = children[0]
	return &cp
}

// Catch is the catch clause of a try.
type Catch struct {
	Binding *LocalBinding
	Frame   *Frame
	Body    Expr
	Source  *form.Location
}

// Try is exception handling with at most one catch and one finally.
type Try struct {
	Base
	Body    Expr
	Catch   *Catch
	Finally Expr
}

func (n *Try) Children() []Expr {
	out := []Expr{n.Body}
	if n.Catch != nil {
		out = append(out, n.Catch.Body)
	}
	if n.Finally != nil {
		out = append(out, n.Finally)
	}
	return out
}

func (n *Try) rebuild(children []Expr) Expr {
	want := 1
	if n.Catch != nil {
		want++
	}
	if n.Finally != nil {
		want++
	}
	checkChildren(n, children, want)
	cp := *n
	cp.Body = children[0]
	i := 1
	if n.Catch != nil {
		c := *n.Catch
		c.Body = children[i]
		cp.Catch = &c
		i++
	}
	if n.Finally != nil {
		cp.Finally = children[i]
	}
	return &cp
}

// Throw raises Value.
type Throw struct {
	Base
	Value Expr
}

func (n *Throw) Children() []Expr { return []Expr{n.Value} }

func (n *Throw) rebuild(children []Expr) Expr {
	checkChildren(n, children, 1)
	cp := *n
	cp.Value = children[0]
	return &cp
}

// CppNew constructs a foreign value.
type CppNew struct {
	Base
	Type *interop.TypeHandle
	Args []Expr
}

func (n *CppNew) Children() []Expr { return n.Args }

func (n *CppNew) rebuild(children []Expr) Expr {
	checkChildren(n, children, len(n.Args))
	cp := *n
	cp.Args = append([]Expr(nil), children...)
	return &cp
}

// CppDelete destroys a foreign value.
type CppDelete struct {
	Base
	Value Expr
}

func (n *CppDelete) Children() []Expr { return []Expr{n.Value} }

func (n *CppDelete) rebuild(children []Expr) Expr {
	checkChildren(n, children, 1)
	cp := *n
	cp.Value = children[0]
	return &cp
}

// CppRaw is a block of foreign source code.
type CppRaw struct {
	Base
	Code string
}

func (n *CppRaw) Children() []Expr { return nil }

func (n *CppRaw) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// CppType is a reference to a foreign type.
type CppType struct {
	Base
	Type *interop.TypeHandle
}

func (n *CppType) Children() []Expr { return nil }

func (n *CppType) rebuild(children []Expr) Expr {
	checkChildren(n, children, 0)
	cp := *n
	return &cp
}

// CppBox converts a foreign value to the boxed representation.
type CppBox struct {
	Base
	Value Expr
}

func (n *CppBox) Children() []Expr { return []Expr{n.Value} }

func (n *CppBox) rebuild(children []Expr) Expr {
	checkChildren(n, children, 1)
	cp := *n
	cp.Value = children[0]
	return &cp
}

// CppUnbox converts a boxed value to the native pointer type Type.
type CppUnbox struct {
	Base
	Type  *interop.TypeHandle
	Value Expr
}

func (n *CppUnbox) Children() []Expr { return []Expr{n.Value} }

func (n *CppUnbox) rebuild(children []Expr) Expr {
	checkChildren(n, children, 1)
	cp := *n
	cp.Value = children[0]
	return &cp
}
