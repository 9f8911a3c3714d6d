// Copyright © 2026 The jank authors

package lsp

import (
	"strings"

	"github.com/jank-lang/jank-sub005/diagnostic"
	"github.com/jank-lang/jank-sub005/form"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based line and column to a 0-based position.
func toLSPPosition(line, col int) protocol.Position {
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{Line: safeUint(line), Character: safeUint(col)}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// locationRange converts a source location to an LSP range.  Source end
// columns are inclusive and LSP end positions are exclusive.  Without end
// information the range is nameLen characters wide.
func locationRange(loc *form.Location, nameLen int) protocol.Range {
	r := spanRange(diagnostic.SpanOf(loc, ""))
	if r.End == r.Start {
		r.End.Character += safeUint(nameLen)
	}
	return r
}

func spanRange(span diagnostic.Span) protocol.Range {
	start := toLSPPosition(span.Line, span.Col)
	end := start
	if span.EndCol > 0 {
		endLine := span.EndLine
		if endLine == 0 {
			endLine = span.Line
		}
		end = protocol.Position{Line: safeUint(endLine - 1), Character: safeUint(span.EndCol)}
	}
	return protocol.Range{Start: start, End: end}
}

func isSymbolChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.IndexByte("*+!-_'?<>=/.:&%$", ch) >= 0
}

// wordAtPosition returns the symbol text around a 0-based position.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := lines[line]
	if col < 0 || col > len(ln) {
		return ""
	}
	start := col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	end := col
	for end < len(ln) && isSymbolChar(ln[end]) {
		end++
	}
	return ln[start:end]
}

// prefixAtPosition returns the symbol text before a 0-based position.
func prefixAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := lines[line]
	if col > len(ln) {
		col = len(ln)
	}
	start := col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	return ln[start:col]
}

// occurrenceAt returns the indexed occurrence under a 0-based position.
func occurrenceAt(idx *index, pos protocol.Position) *occurrence {
	return idx.at(int(pos.Line)+1, int(pos.Character)+1)
}

func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
