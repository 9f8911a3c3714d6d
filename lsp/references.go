// Copyright © 2026 The jank authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	_, _, idx := doc.snapshot()

	o := occurrenceAt(idx, params.Position)
	if o == nil {
		return nil, nil
	}
	var decl *definition
	if o.Var != nil {
		decl = idx.defs[o.Var]
	}
	var locs []protocol.Location
	for _, u := range idx.uses(o) {
		if !params.Context.IncludeDeclaration && decl != nil && u.Source == decl.Source {
			continue
		}
		locs = append(locs, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: locationRange(u.Source, len(u.Name)),
		})
	}
	return locs, nil
}
