// Copyright © 2026 The jank authors

package repl

import (
	"io"

	"github.com/jank-lang/jank-sub005/diagnostic"
)

// renderError renders err against the entry that produced it.  The entry
// is not a file on disk so its text is handed to the renderer directly.
func renderError(w io.Writer, color diagnostic.ColorMode, text string, err error) {
	diags := diagnostic.FromError(err)
	if len(diags) > 0 {
		last := &diags[len(diags)-1]
		last.Notes = append(last.Notes, "run `jankc specials` to list the special forms")
	}
	r := &diagnostic.Renderer{
		Color:   color,
		Sources: map[string]string{SourceName: text},
	}
	_ = r.RenderAll(w, diags)
}
