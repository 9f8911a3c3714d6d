// Copyright © 2026 The jank authors

// Package pass provides generic traversal of analyzed expression trees and
// the rewrite passes run between analysis and code generation.
//
// Passes never mutate a node reachable from their input.  A pass that
// changes a node builds a replacement with analyze.Rebuild and returns a new
// root, so subtrees shared with other trees stay intact.
package pass

import "github.com/jank-lang/jank-sub005/analyze"

// WalkPre calls fn for every node of the tree rooted at e, visiting a node
// before its children and each child subtree fully before the next sibling.
// When fn returns false the node's children are skipped.
func WalkPre(e analyze.Expr, fn func(e analyze.Expr, depth int) bool) {
	walkPre(e, 0, fn)
}

func walkPre(e analyze.Expr, depth int, fn func(analyze.Expr, int) bool) {
	if e == nil {
		return
	}
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children() {
		walkPre(c, depth+1, fn)
	}
}

// WalkPost calls fn for every node of the tree rooted at e, visiting all of
// a node's children before the node itself.
func WalkPost(e analyze.Expr, fn func(e analyze.Expr, depth int)) {
	walkPost(e, 0, fn)
}

func walkPost(e analyze.Expr, depth int, fn func(analyze.Expr, int)) {
	if e == nil {
		return
	}
	for _, c := range e.Children() {
		walkPost(c, depth+1, fn)
	}
	fn(e, depth)
}

// Rewrite rebuilds the tree rooted at e bottom-up.  fn receives each node
// after its children have been rewritten and returns the node to use in its
// place.  Nodes whose children are unchanged are passed to fn as-is.
func Rewrite(e analyze.Expr, fn func(analyze.Expr) analyze.Expr) analyze.Expr {
	if e == nil {
		return nil
	}
	children := e.Children()
	var rewritten []analyze.Expr
	for i, c := range children {
		nc := Rewrite(c, fn)
		if nc != c && rewritten == nil {
			rewritten = make([]analyze.Expr, len(children))
			copy(rewritten, children[:i])
		}
		if rewritten != nil {
			rewritten[i] = nc
		}
	}
	if rewritten != nil {
		e = analyze.Rebuild(e, rewritten)
	}
	return fn(e)
}

// Count returns the number of nodes in the tree rooted at e.
func Count(e analyze.Expr) int {
	n := 0
	WalkPre(e, func(analyze.Expr, int) bool {
		n++
		return true
	})
	return n
}
