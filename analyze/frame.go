// Copyright © 2026 The jank authors

package analyze

import (
	"fmt"
	"sort"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/namespace"
)

// Globals resolves symbols that are not bound in any local frame.
// Implementations are shared between concurrent analyses and must
// synchronize internally.
type Globals interface {
	ResolveGlobal(sym *form.Form) (*namespace.Var, bool)
	InternGlobal(sym *form.Form) (*namespace.Var, error)
}

// FrameKind classifies the construct that introduced a frame.
type FrameKind int

const (
	FrameRoot  FrameKind = iota // top-level form
	FrameLet                    // let* bindings
	FrameLetfn                  // letfn* bindings
	FrameFn                     // one fn* arity
	FrameCatch                  // catch binding
)

func (k FrameKind) String() string {
	switch k {
	case FrameRoot:
		return "root"
	case FrameLet:
		return "let"
	case FrameLetfn:
		return "letfn"
	case FrameFn:
		return "fn"
	case FrameCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// BindingKind classifies how a local was introduced.
type BindingKind int

const (
	BindingLet BindingKind = iota
	BindingLetfn
	BindingParam
	BindingCatch
	// BindingSelf is a named function referred to from a nested function,
	// which closes over it like any other local.
	BindingSelf
)

func (k BindingKind) String() string {
	switch k {
	case BindingLet:
		return "let"
	case BindingLetfn:
		return "letfn"
	case BindingParam:
		return "param"
	case BindingCatch:
		return "catch"
	case BindingSelf:
		return "self"
	default:
		return "unknown"
	}
}

// LocalBinding is one lexically bound name.
type LocalBinding struct {
	Name  string
	Kind  BindingKind
	Frame *Frame
	// Value is the expression that established the binding.  It is nil for
	// parameters and catch bindings.  Rebuilding the let that owns the
	// binding relinks Value to the rebuilt expression.
	Value Expr
	// Captured is set when a nested function closes over the binding.
	Captured        bool
	HasBoxedUsage   bool
	HasUnboxedUsage bool
}

// FunctionContext describes one arity of a function.  Recursion nodes refer
// to it to identify their target.
type FunctionContext struct {
	Name            string
	UniqueName      string
	ParamCount      int
	IsVariadic      bool
	IsTailRecursive bool
	// Self is the binding nested functions capture to refer to this
	// function by name.  It is nil until such a reference is analyzed.
	Self *LocalBinding
}

// Frame is one lexical scope.  A child frame holds its parent, so a parent
// is always reachable for as long as any child is.  Frames are only created
// by NewRootFrame and Extend.
type Frame struct {
	Kind   FrameKind
	Parent *Frame
	Locals map[string]*LocalBinding
	// Captures holds the outer locals referenced from inside a FrameFn.
	Captures map[string]*LocalBinding
	// Fn is the context of a FrameFn and nil otherwise.
	Fn *FunctionContext

	globals Globals
}

// NewRootFrame returns the frame for analyzing one top-level form.
func NewRootFrame(globals Globals) *Frame {
	return &Frame{
		Kind:    FrameRoot,
		Locals:  make(map[string]*LocalBinding),
		globals: globals,
	}
}

// Extend returns a new empty child of f.
func (f *Frame) Extend(kind FrameKind) *Frame {
	child := &Frame{
		Kind:    kind,
		Parent:  f,
		Locals:  make(map[string]*LocalBinding),
		globals: f.globals,
	}
	if kind == FrameFn {
		child.Captures = make(map[string]*LocalBinding)
	}
	return child
}

// Globals returns the global resolver of the analysis f belongs to.
func (f *Frame) Globals() Globals {
	return f.globals
}

// Bind adds b to f.  Names are unique within a frame; shadowing requires a
// new frame from Extend.
func (f *Frame) Bind(b *LocalBinding) error {
	if _, ok := f.Locals[b.Name]; ok {
		return fmt.Errorf("%s is already bound in this %s frame", b.Name, f.Kind)
	}
	b.Frame = f
	f.Locals[b.Name] = b
	return nil
}

// Lookup finds the binding for name in the nearest frame defining it.
func (f *Frame) Lookup(name string) (*LocalBinding, bool) {
	for fr := f; fr != nil; fr = fr.Parent {
		if b, ok := fr.Locals[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupLocal finds name in f only.
func (f *Frame) LookupLocal(name string) (*LocalBinding, bool) {
	b, ok := f.Locals[name]
	return b, ok
}

// ResolveRecursion returns the context of the nearest enclosing function.
func (f *Frame) ResolveRecursion() (*FunctionContext, bool) {
	for fr := f; fr != nil; fr = fr.Parent {
		if fr.Fn != nil {
			return fr.Fn, true
		}
	}
	return nil, false
}

// Root returns the outermost frame of f's chain.
func (f *Frame) Root() *Frame {
	fr := f
	for fr.Parent != nil {
		fr = fr.Parent
	}
	return fr
}

// LocalNames returns the names bound in f, sorted.
func (f *Frame) LocalNames() []string {
	return sortedKeys(f.Locals)
}

func sortedKeys(m map[string]*LocalBinding) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolution is the result of resolving a symbol against the frame chain.
type resolution struct {
	binding   *LocalBinding
	recursion *FunctionContext
}

// resolve walks outward from f looking for name.  At each frame locals win
// over the name of a function frame.  A local found beyond a function frame
// is marked captured and recorded in every function frame crossed.  So is
// the name of a function frame found beyond another one, which resolves to
// the function's self binding rather than to a recursion target.
func (f *Frame) resolve(name string) (resolution, bool) {
	var crossed []*Frame
	for fr := f; fr != nil; fr = fr.Parent {
		if b, ok := fr.Locals[name]; ok {
			if len(crossed) > 0 {
				b.Captured = true
				for _, c := range crossed {
					c.Captures[name] = b
				}
			}
			return resolution{binding: b}, true
		}
		if fr.Fn != nil {
			if fr.Fn.Name != "" && fr.Fn.Name == name {
				if len(crossed) == 0 {
					return resolution{recursion: fr.Fn}, true
				}
				// A nested function cannot jump into fr, so it closes over
				// the function value instead.
				self := fr.selfBinding()
				self.Captured = true
				for _, c := range crossed {
					c.Captures[name] = self
				}
				return resolution{binding: self}, true
			}
			crossed = append(crossed, fr)
		}
	}
	return resolution{}, false
}

func (f *Frame) selfBinding() *LocalBinding {
	if f.Fn.Self == nil {
		f.Fn.Self = &LocalBinding{Name: f.Fn.Name, Kind: BindingSelf, Frame: f}
	}
	return f.Fn.Self
}
