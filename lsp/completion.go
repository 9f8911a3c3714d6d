// Copyright © 2026 The jank authors

package lsp

import (
	"sort"
	"strings"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/namespace"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// typeLister is implemented by catalogs that can enumerate their types.
type typeLister interface {
	TypeNames() []string
}

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	content, _, idx := doc.snapshot()
	prefix := prefixAtPosition(content, int(params.Position.Line), int(params.Position.Character))

	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] || !strings.HasPrefix(label, prefix) {
			return
		}
		seen[label] = true
		item := protocol.CompletionItem{Label: label, Kind: &kind}
		if detail != "" {
			item.Detail = strPtr(detail)
		}
		items = append(items, item)
	}

	for _, sf := range analyze.SpecialForms() {
		add(sf.Name, protocol.CompletionItemKindKeyword, sf.Syntax)
		for _, alias := range sf.Aliases {
			add(alias, protocol.CompletionItemKindKeyword, sf.Syntax)
		}
	}
	if idx != nil {
		for _, v := range idx.order {
			kind := protocol.CompletionItemKindVariable
			if _, ok := idx.defs[v].Def.Value.(*analyze.Fn); ok {
				kind = protocol.CompletionItemKindFunction
			}
			add(v.Name, kind, v.String())
		}
	}
	for _, name := range namespace.DefaultCoreVars {
		add(name, protocol.CompletionItemKindFunction, "#'"+namespace.CoreNamespace+"/"+name)
	}
	if strings.HasPrefix(prefix, "cpp/") {
		if lister, ok := s.resolver.Catalog.(typeLister); ok {
			for _, name := range lister.TypeNames() {
				add("cpp/"+strings.ReplaceAll(name, "::", "."), protocol.CompletionItemKindClass, name)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items, nil
}
