// Copyright © 2026 The jank authors

package lsp

import (
	"strings"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange returns folding ranges for multi-line
// collections and consecutive comment lines.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	content, unit, _ := doc.snapshot()

	var ranges []protocol.FoldingRange
	for _, f := range unit.Forms {
		collectFoldingRanges(f, &ranges)
	}
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

func collectFoldingRanges(f *form.Form, ranges *[]protocol.FoldingRange) {
	if f == nil || !f.IsColl() {
		return
	}
	if f.Source != nil && f.Source.Line > 0 && f.Source.EndLine > f.Source.Line {
		kind := string(protocol.FoldingRangeKindRegion)
		*ranges = append(*ranges, protocol.FoldingRange{
			StartLine: safeUint(f.Source.Line - 1),
			EndLine:   safeUint(f.Source.EndLine - 1),
			Kind:      &kind,
		})
	}
	for _, c := range f.Cells {
		collectFoldingRanges(c, ranges)
	}
}

// commentFoldingRanges folds each block of two or more lines starting
// with ";".
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := strings.Split(content, "\n")
	var ranges []protocol.FoldingRange
	emit := func(start, end int) {
		if end > start {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
	}
	blockStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ";") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		if blockStart >= 0 {
			emit(blockStart, i-1)
		}
		blockStart = -1
	}
	if blockStart >= 0 {
		emit(blockStart, len(lines)-1)
	}
	return ranges
}
