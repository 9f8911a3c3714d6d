// Copyright © 2026 The jank authors

package lsp

import (
	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/namespace"
)

// occurrence is a symbol in the source that resolved to a var or a local.
type occurrence struct {
	Source *form.Location
	Name   string
	Var    *namespace.Var
	Local  *analyze.LocalBinding
}

// definition is a def found in a document.
type definition struct {
	Def *analyze.Def
	// Source spans the defined name when it is known, and the def form
	// otherwise.
	Source *form.Location
}

// index records where each var and local of a document is used and defined.
type index struct {
	occurrences []occurrence
	defs        map[*namespace.Var]*definition
	// order lists defined vars in source order.
	order []*namespace.Var
}

func buildIndex(unit *compiler.Unit) *index {
	idx := &index{defs: make(map[*namespace.Var]*definition)}
	for i, e := range unit.Exprs {
		if e == nil {
			continue
		}
		top := unit.Forms[i]
		pass.WalkPre(e, func(n analyze.Expr, _ int) bool {
			switch n := n.(type) {
			case *analyze.VarRef:
				if n.Source != nil && n.Var != nil {
					idx.occurrences = append(idx.occurrences, occurrence{Source: n.Source, Name: n.Var.Name, Var: n.Var})
				}
			case *analyze.LocalRef:
				if n.Source != nil && n.Binding != nil {
					idx.occurrences = append(idx.occurrences, occurrence{Source: n.Source, Name: n.Binding.Name, Local: n.Binding})
				}
			case *analyze.Def:
				idx.addDef(n, top)
			}
			return true
		})
	}
	return idx
}

func (idx *index) addDef(n *analyze.Def, top *form.Form) {
	if n.Var == nil {
		return
	}
	loc := n.Source
	if top != nil && top.Source == n.Source && len(top.Cells) > 1 && top.Cells[1].Source != nil {
		loc = top.Cells[1].Source
		idx.occurrences = append(idx.occurrences, occurrence{Source: loc, Name: n.Var.Name, Var: n.Var})
	}
	if _, ok := idx.defs[n.Var]; !ok {
		idx.order = append(idx.order, n.Var)
	}
	idx.defs[n.Var] = &definition{Def: n, Source: loc}
}

// at returns the occurrence covering the 1-based line and column.
func (idx *index) at(line, col int) *occurrence {
	if idx == nil {
		return nil
	}
	for i := range idx.occurrences {
		o := &idx.occurrences[i]
		if o.Source.Line != line {
			continue
		}
		end := o.Source.EndCol
		if end == 0 || o.Source.EndLine != o.Source.Line {
			end = o.Source.Col + len(o.Name) - 1
		}
		if col >= o.Source.Col && col <= end+1 {
			return o
		}
	}
	return nil
}

// uses returns the occurrences of the var or local that o refers to.
func (idx *index) uses(o *occurrence) []occurrence {
	var out []occurrence
	for _, u := range idx.occurrences {
		if (o.Var != nil && u.Var == o.Var) || (o.Local != nil && u.Local == o.Local) {
			out = append(out, u)
		}
	}
	return out
}
