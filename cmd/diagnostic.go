// Copyright © 2026 The jank authors

package cmd

import (
	"io"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/diagnostic"
)

func newRenderer(s settings) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color:   s.colorMode(),
		Sources: make(map[string]string),
	}
}

// renderUnits renders the errors of every unit to w and returns the number
// of diagnostics written.  Unit texts are handed to the renderer so that
// expressions given on the command line get snippets too.
func renderUnits(w io.Writer, s settings, units []*compiler.Unit) int {
	r := newRenderer(s)
	var diags []diagnostic.Diagnostic
	for _, u := range units {
		r.Sources[u.Source.Name] = u.Source.Text
		diags = append(diags, diagnostic.FromError(u.Err())...)
	}
	_ = r.RenderAll(w, diags)
	return len(diags)
}
