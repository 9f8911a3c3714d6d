// Copyright © 2026 The jank authors

package pass

import "github.com/jank-lang/jank-sub005/analyze"

// PropagatePosition returns the tree rooted at e with e in position pos and
// every descendant positioned by the rules of its parent construct.  Nodes
// already in the right position with correctly positioned subtrees are
// reused, so propagating twice returns the first result unchanged.
func PropagatePosition(e analyze.Expr, pos analyze.Position) analyze.Expr {
	if e == nil {
		return nil
	}
	children := e.Children()
	want := childPositions(e, pos)
	var rewritten []analyze.Expr
	for i, c := range children {
		p := c.Common().Position
		if want != nil {
			p = want[i]
		}
		nc := PropagatePosition(c, p)
		if nc != c && rewritten == nil {
			rewritten = make([]analyze.Expr, len(children))
			copy(rewritten, children[:i])
		}
		if rewritten != nil {
			rewritten[i] = nc
		}
	}
	if rewritten == nil && e.Common().Position == pos {
		return e
	}
	var out analyze.Expr
	if rewritten != nil {
		out = analyze.Rebuild(e, rewritten)
	} else {
		out = analyze.Clone(e)
	}
	out.Common().Position = pos
	return out
}

// childPositions returns the position of each child of e when e is in
// position pos.  A nil result leaves the children's positions as they are.
func childPositions(e analyze.Expr, pos analyze.Position) []analyze.Position {
	n := len(e.Children())
	out := make([]analyze.Position, n)
	switch e := e.(type) {
	case *analyze.Do:
		for i := range out {
			out[i] = analyze.Statement
		}
		if n > 0 {
			out[n-1] = pos
		}
	case *analyze.If:
		out[0], out[1], out[2] = analyze.Nested, pos, pos
	case *analyze.Let:
		// Binding values are nested and the body inherits.
		out[n-1] = pos
	case *analyze.Fn:
		for i := range out {
			out[i] = analyze.Return
		}
	case *analyze.Try:
		out[0] = pos
		i := 1
		if e.Catch != nil {
			out[i] = pos
			i++
		}
		if e.Finally != nil {
			out[i] = analyze.Statement
		}
	case *analyze.Call, *analyze.Collection, *analyze.Map, *analyze.Recursion,
		*analyze.Def, *analyze.Throw, *analyze.CppNew, *analyze.CppDelete,
		*analyze.CppBox, *analyze.CppUnbox:
		// All operands are nested.
	default:
		return nil
	}
	return out
}
