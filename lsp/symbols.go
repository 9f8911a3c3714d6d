// Copyright © 2026 The jank authors

package lsp

import (
	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol lists the vars defined by a document.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	_, _, idx := doc.snapshot()

	symbols := []protocol.DocumentSymbol{}
	for _, v := range idx.order {
		def := idx.defs[v]
		if def.Def.Source == nil {
			continue
		}
		kind := protocol.SymbolKindVariable
		var detail *string
		if fn, ok := def.Def.Value.(*analyze.Fn); ok {
			kind = protocol.SymbolKindFunction
			if len(fn.Arities) > 0 {
				detail = strPtr("(" + v.Name + arityParams(fn.Arities[0]) + ")")
			}
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           v.Name,
			Detail:         detail,
			Kind:           kind,
			Range:          locationRange(def.Def.Source, 0),
			SelectionRange: locationRange(def.Source, len(v.Name)),
		})
	}
	return symbols, nil
}
