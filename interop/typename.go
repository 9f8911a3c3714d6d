// Copyright © 2026 The jank authors

package interop

import (
	"fmt"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// TypeName is a parsed foreign type spelling such as
// "std::map<int, std::string>*".
type TypeName struct {
	Scope    []string // enclosing scopes, outermost first
	Name     string
	Args     []*TypeName
	Pointers int
	// Literal is set instead of Name for constant template arguments.
	Literal string
}

// Qualified returns the scope-qualified name without template arguments or
// pointers.
func (tn *TypeName) Qualified() string {
	if len(tn.Scope) == 0 {
		return tn.Name
	}
	return strings.Join(tn.Scope, "::") + "::" + tn.Name
}

// ScopeName returns the qualified name of the enclosing scope.
func (tn *TypeName) ScopeName() string {
	return strings.Join(tn.Scope, "::")
}

func (tn *TypeName) String() string {
	if tn.Literal != "" {
		return tn.Literal
	}
	var b strings.Builder
	b.WriteString(tn.Qualified())
	if len(tn.Args) > 0 {
		b.WriteString("<")
		for i, arg := range tn.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteString(">")
	}
	b.WriteString(strings.Repeat("*", tn.Pointers))
	return b.String()
}

// ParseTypeName parses a foreign type spelling.  The grammar is
//
//	type  = qname [ "<" arg { "," arg } ">" ] { "*" }
//	qname = ident { "::" ident }
//	arg   = type | integer
func ParseTypeName(spelling string) (*TypeName, error) {
	s := parsec.NewScanner([]byte(spelling))
	root, s := typeNameParser(s)
	if root == nil {
		return nil, fmt.Errorf("invalid type name: %q", spelling)
	}
	if err, ok := root.(error); ok {
		return nil, err
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		return nil, fmt.Errorf("invalid type name %q: unexpected input at offset %d", spelling, s.GetCursor())
	}
	tn, ok := root.(*TypeName)
	if !ok {
		return nil, fmt.Errorf("invalid type name: %q", spelling)
	}
	return tn, nil
}

var typeNameParser = newTypeNameParser()

// qualifiedName is the intermediate node for a "::"-separated name.
type qualifiedName []string

// templateArgs is the intermediate node for a bracketed argument list.
type templateArgs []*TypeName

// templateGroups collects the zero or more argument lists after a name.
type templateGroups []templateArgs

// pointerCount is the intermediate node for trailing stars.
type pointerCount int

func newTypeNameParser() parsec.Parser {
	var typ parsec.Parser

	ident := parsec.Token(`[A-Za-z_][A-Za-z0-9_]*`, "IDENT")
	integer := parsec.Token(`[0-9]+`, "INT")
	scopeSep := parsec.Atom("::", "SCOPE")
	openT := parsec.Atom("<", "OPENT")
	closeT := parsec.Atom(">", "CLOSET")
	comma := parsec.Atom(",", "COMMA")
	star := parsec.Atom("*", "STAR")

	qname := parsec.And(nodifyQualifiedName,
		ident,
		parsec.Kleene(nil, parsec.And(nil, scopeSep, ident)))
	arg := parsec.OrdChoice(nodifyTemplateArg, &typ, integer)
	args := parsec.And(nodifyTemplateArgs,
		openT,
		arg,
		parsec.Kleene(nil, parsec.And(nil, comma, arg)),
		closeT)
	groups := parsec.Kleene(nodifyTemplateGroups, args)
	stars := parsec.Kleene(nodifyPointers, star)

	typ = parsec.And(nodifyType, qname, groups, stars)
	return typ
}

func nodifyQualifiedName(nodes []parsec.ParsecNode) parsec.ParsecNode {
	var parts qualifiedName
	for _, n := range flatten(nodes) {
		if t, ok := n.(*parsec.Terminal); ok && t.GetName() == "IDENT" {
			parts = append(parts, t.GetValue())
		}
	}
	return parts
}

func nodifyTemplateArg(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) != 1 {
		return nil
	}
	switch n := nodes[0].(type) {
	case *parsec.Terminal:
		return &TypeName{Literal: n.GetValue()}
	default:
		return n
	}
}

func nodifyTemplateArgs(nodes []parsec.ParsecNode) parsec.ParsecNode {
	args := templateArgs{}
	for _, n := range flatten(nodes) {
		switch n := n.(type) {
		case error:
			return n
		case *TypeName:
			args = append(args, n)
		}
	}
	return args
}

func nodifyTemplateGroups(nodes []parsec.ParsecNode) parsec.ParsecNode {
	groups := templateGroups{}
	for _, n := range nodes {
		switch n := n.(type) {
		case error:
			return n
		case templateArgs:
			groups = append(groups, n)
		}
	}
	return groups
}

func nodifyPointers(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return pointerCount(len(nodes))
}

func nodifyType(nodes []parsec.ParsecNode) parsec.ParsecNode {
	tn := &TypeName{}
	for _, n := range nodes {
		switch n := n.(type) {
		case error:
			return n
		case qualifiedName:
			if len(n) == 0 {
				return nil
			}
			tn.Scope = append([]string(nil), n[:len(n)-1]...)
			tn.Name = n[len(n)-1]
		case templateGroups:
			if len(n) > 1 {
				return fmt.Errorf("type %s has more than one template argument list", tn.Qualified())
			}
			if len(n) == 1 {
				tn.Args = n[0]
			}
		case pointerCount:
			tn.Pointers = int(n)
		}
	}
	if tn.Name == "" {
		return nil
	}
	return tn
}

// flatten expands the node lists produced by combinators without a
// callback.
func flatten(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		if list, ok := n.([]parsec.ParsecNode); ok {
			out = append(out, flatten(list)...)
			continue
		}
		out = append(out, n)
	}
	return out
}
