// Copyright © 2026 The jank authors

package pass

import "github.com/jank-lang/jank-sub005/analyze"

// StripSourceMeta returns the tree rooted at e without source spans.  The
// form metadata of collection literals is program data and is kept.
func StripSourceMeta(e analyze.Expr) analyze.Expr {
	return Rewrite(e, func(n analyze.Expr) analyze.Expr {
		t, isTry := n.(*analyze.Try)
		hasCatchSource := isTry && t.Catch != nil && t.Catch.Source != nil
		if n.Common().Source == nil && !hasCatchSource {
			return n
		}
		cp := analyze.Clone(n)
		cp.Common().Source = nil
		if hasCatchSource {
			cp.(*analyze.Try).Catch.Source = nil
		}
		return cp
	})
}
