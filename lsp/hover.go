// Copyright © 2026 The jank authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	content, _, idx := doc.snapshot()

	var text string
	if o := occurrenceAt(idx, params.Position); o != nil {
		text = occurrenceHover(idx, o)
	} else {
		word := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
		text = s.wordHover(word)
	}
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func occurrenceHover(idx *index, o *occurrence) string {
	var sb strings.Builder
	if o.Local != nil {
		fmt.Fprintf(&sb, "**local** `%s` (%s)", o.Local.Name, o.Local.Kind)
		if o.Local.Captured {
			sb.WriteString("\n\ncaptured by a closure")
		}
		return sb.String()
	}
	fmt.Fprintf(&sb, "**var** `%s`", o.Var)
	if def, ok := idx.defs[o.Var]; ok {
		if fn, ok := def.Def.Value.(*analyze.Fn); ok {
			for _, a := range fn.Arities {
				fmt.Fprintf(&sb, "\n\n```clojure\n(%s%s)\n```", o.Var.Name, arityParams(a))
			}
		}
		if def.Def.Doc != "" {
			sb.WriteString("\n\n")
			sb.WriteString(def.Def.Doc)
		}
	}
	return sb.String()
}

func arityParams(a *analyze.FnArity) string {
	var sb strings.Builder
	for i, p := range a.Params {
		if a.Context != nil && a.Context.IsVariadic && i == len(a.Params)-1 {
			sb.WriteString(" &")
		}
		sb.WriteString(" ")
		sb.WriteString(p.Name)
	}
	return sb.String()
}

// wordHover describes special forms and foreign types, which do not
// produce occurrences.
func (s *Server) wordHover(word string) string {
	if word == "" {
		return ""
	}
	sym := symbolOf(word)
	if analyze.IsSpecial(sym) {
		for _, sf := range analyze.SpecialForms() {
			if matchesSpecial(sf, word) {
				return fmt.Sprintf("**special form** `%s`\n\n```clojure\n%s\n```\n\n%s", sf.Name, sf.Syntax, sf.Doc)
			}
		}
	}
	if sym.NS == "cpp" {
		if th, err := s.resolver.ResolveSymbol(sym.Str); err == nil {
			return typeHover(th)
		}
	}
	return ""
}

func matchesSpecial(sf analyze.SpecialForm, word string) bool {
	if sf.Name == word {
		return true
	}
	for _, alias := range sf.Aliases {
		if alias == word {
			return true
		}
	}
	return false
}

func typeHover(th *interop.TypeHandle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**cpp type** `%s`", th)
	if th.Decl != nil {
		if th.Decl.Size > 0 {
			fmt.Fprintf(&sb, "\n\nsize: %d bytes", th.Decl.Size)
		}
		if len(th.Decl.Fields) > 0 {
			fmt.Fprintf(&sb, "\n\nfields: %s", strings.Join(th.Decl.Fields, ", "))
		}
	}
	return sb.String()
}

func symbolOf(word string) *form.Form {
	if i := strings.IndexByte(word, '/'); i > 0 && i < len(word)-1 {
		return form.MakeQualifiedSymbol(word[:i], word[i+1:])
	}
	return form.MakeSymbol(word)
}
