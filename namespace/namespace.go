// Copyright © 2026 The jank authors

// Package namespace holds the global variable table consulted by the
// analyzer when a symbol is not bound locally.
//
// A Registry may be shared by analyses running on many goroutines.  It is
// read-mostly: lookups take a read lock and only def interning takes the
// write lock.
package namespace

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jank-lang/jank-sub005/form"
)

// CoreNamespace is referred into every namespace.
const CoreNamespace = "clojure.core"

// DefaultCoreVars are the vars interned into the core namespace by
// NewRegistry when no explicit list is given.
var DefaultCoreVars = []string{
	"+", "-", "*", "/", "=", "<", ">", "<=", ">=", "not", "inc", "dec",
	"str", "println", "print", "prn", "count", "first", "rest", "next",
	"cons", "conj", "assoc", "dissoc", "get", "nth", "list", "vector",
	"hash-map", "hash-set", "apply", "identity", "ex-info", "nil?", "zero?",
}

// Var is a global variable.  Vars are never removed once interned.
type Var struct {
	Namespace string
	Name      string

	mu      sync.RWMutex
	meta    *form.Form
	dynamic bool
	defined bool
}

// Symbol returns the fully qualified symbol naming v.
func (v *Var) Symbol() *form.Form {
	return form.MakeQualifiedSymbol(v.Namespace, v.Name)
}

func (v *Var) String() string {
	return "#'" + v.Namespace + "/" + v.Name
}

// Meta returns the metadata attached by the most recent def.
func (v *Var) Meta() *form.Form {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.meta
}

// Dynamic reports whether the var was marked ^:dynamic.
func (v *Var) Dynamic() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dynamic
}

// Defined reports whether the var has been the target of a def.  Core vars
// count as defined.
func (v *Var) Defined() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.defined
}

// SetMeta records def metadata on v.
func (v *Var) SetMeta(meta *form.Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.meta = meta
	v.defined = true
	if dyn, ok := form.Get(meta, form.MakeKeyword("dynamic")); ok {
		v.dynamic = dyn.Type == form.Bool && dyn.Bool
	}
}

// Namespace is a named table of vars.
type Namespace struct {
	Name string

	vars    map[string]*Var
	aliases map[string]string
}

// Registry is the set of known namespaces.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewRegistry returns a registry whose core namespace holds the named vars.
// A nil coreVars uses DefaultCoreVars.
func NewRegistry(coreVars []string) *Registry {
	if coreVars == nil {
		coreVars = DefaultCoreVars
	}
	r := &Registry{namespaces: make(map[string]*Namespace)}
	core := r.ensure(CoreNamespace)
	for _, name := range coreVars {
		v := &Var{Namespace: CoreNamespace, Name: name, defined: true}
		core.vars[name] = v
	}
	return r
}

func (r *Registry) ensure(name string) *Namespace {
	ns, ok := r.namespaces[name]
	if !ok {
		ns = &Namespace{
			Name:    name,
			vars:    make(map[string]*Var),
			aliases: make(map[string]string),
		}
		r.namespaces[name] = ns
	}
	return ns
}

// Create returns the namespace called name, creating it if necessary.
func (r *Registry) Create(name string) *Namespace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensure(name)
}

// Alias makes alias refer to target inside namespace ns.
func (r *Registry) Alias(ns, alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.namespaces[target]; !ok {
		return fmt.Errorf("no such namespace: %s", target)
	}
	r.ensure(ns).aliases[alias] = target
	return nil
}

// Find returns the var ns/name if it exists.
func (r *Registry) Find(ns, name string) (*Var, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.namespaces[ns]
	if !ok {
		return nil, false
	}
	v, ok := n.vars[name]
	return v, ok
}

// Intern returns the var ns/name, creating the var and namespace if needed.
func (r *Registry) Intern(ns, name string) *Var {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.ensure(ns)
	v, ok := n.vars[name]
	if !ok {
		v = &Var{Namespace: ns, Name: name}
		n.vars[name] = v
	}
	return v
}

// Vars returns the names of the vars in ns, sorted.
func (r *Registry) Vars(ns string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.namespaces[ns]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(n.vars))
	for name := range n.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver returns a resolver that resolves unqualified symbols in the
// namespace current.  The namespace is created if it does not exist.
func (r *Registry) Resolver(current string) *Resolver {
	r.Create(current)
	return &Resolver{registry: r, current: current}
}

// Resolver resolves symbols relative to one current namespace.
type Resolver struct {
	registry *Registry
	current  string
}

// Current returns the name of the resolver's namespace.
func (res *Resolver) Current() string {
	return res.current
}

// ResolveGlobal finds the var named by sym.  Unqualified symbols are looked
// up in the current namespace and then the core namespace.  Qualified
// symbols name a namespace or an alias of the current namespace.
func (res *Resolver) ResolveGlobal(sym *form.Form) (*Var, bool) {
	if sym.NS == "" {
		if v, ok := res.registry.Find(res.current, sym.Str); ok {
			return v, true
		}
		return res.registry.Find(CoreNamespace, sym.Str)
	}
	return res.registry.Find(res.namespaceOf(sym.NS), sym.Str)
}

func (res *Resolver) namespaceOf(ns string) string {
	res.registry.mu.RLock()
	defer res.registry.mu.RUnlock()
	if cur, ok := res.registry.namespaces[res.current]; ok {
		if target, ok := cur.aliases[ns]; ok {
			return target
		}
	}
	return ns
}

// InternGlobal interns the var named by sym in the current namespace.  A
// qualified symbol must name the current namespace.
func (res *Resolver) InternGlobal(sym *form.Form) (*Var, error) {
	if sym.NS != "" && res.namespaceOf(sym.NS) != res.current {
		return nil, fmt.Errorf("can't def %s outside of namespace %s", sym.Name(), res.current)
	}
	return res.registry.Intern(res.current, sym.Str), nil
}
