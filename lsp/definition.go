// Copyright © 2026 The jank authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition jumps from a var reference to its def in the same
// document.  Locals have no navigable binding site.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	_, _, idx := doc.snapshot()

	o := occurrenceAt(idx, params.Position)
	if o == nil || o.Var == nil {
		return nil, nil
	}
	def, ok := idx.defs[o.Var]
	if !ok || def.Source == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: locationRange(def.Source, len(o.Var.Name)),
	}, nil
}
