// Copyright © 2026 The jank authors

package form

import "fmt"

// Location is a span of source text.  The start fields are always populated
// by the reader; End fields are zero when the span end is unknown.
type Location struct {
	File    string // a name representing the source stream
	Pos     int    // byte offset of the first character
	Line    int    // line number (starting at 1 when tracked)
	Col     int    // line column number (starting at 1 when tracked)
	EndPos  int
	EndLine int
	EndCol  int
}

func (loc *Location) String() string {
	if loc == nil {
		return "<unknown>"
	}
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// Through returns a location spanning from the start of loc to the end of
// end.  Either argument may be nil.
func (loc *Location) Through(end *Location) *Location {
	if loc == nil {
		return end
	}
	if end == nil {
		return loc
	}
	cp := *loc
	cp.EndPos = end.EndPos
	cp.EndLine = end.EndLine
	cp.EndCol = end.EndCol
	return &cp
}
