// Copyright © 2026 The jank authors

package form

import (
	"strconv"
	"strings"
)

// String returns f in reader syntax.  Metadata is not printed.
func (f *Form) String() string {
	var b strings.Builder
	f.write(&b)
	return b.String()
}

func (f *Form) write(b *strings.Builder) {
	if f.IsNil() {
		b.WriteString("nil")
		return
	}
	switch f.Type {
	case Bool:
		b.WriteString(strconv.FormatBool(f.Bool))
	case Int:
		b.WriteString(strconv.FormatInt(f.Int, 10))
	case Float:
		s := strconv.FormatFloat(f.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnI") {
			s += ".0"
		}
		b.WriteString(s)
	case String:
		b.WriteString(strconv.Quote(f.Str))
	case Keyword:
		b.WriteByte(':')
		b.WriteString(f.Name())
	case Symbol:
		b.WriteString(f.Name())
	case List:
		writeSeq(b, "(", ")", f.Cells)
	case Vector:
		writeSeq(b, "[", "]", f.Cells)
	case Set:
		writeSeq(b, "#{", "}", f.Cells)
	case Map:
		b.WriteByte('{')
		for i := 0; i < len(f.Cells); i += 2 {
			if i > 0 {
				b.WriteString(", ")
			}
			f.Cells[i].write(b)
			b.WriteByte(' ')
			f.Cells[i+1].write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("#<invalid>")
	}
}

func writeSeq(b *strings.Builder, open, close string, cells []*Form) {
	b.WriteString(open)
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		c.write(b)
	}
	b.WriteString(close)
}
