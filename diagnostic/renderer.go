// Copyright © 2026 The jank authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Renderer formats diagnostics as annotated source snippets:
//
//	error[unresolved name]: unable to resolve symbol: nope
//	  --> core.jank:1:13
//	   |
//	 1 |  (let* [x 1] nope)
//	   |              ^^^^ not found in this scope
//	   |
type Renderer struct {
	// Color controls ANSI color output.  Default is ColorAuto.
	Color ColorMode

	// Sources holds source text by file name.  Files not present are read
	// with SourceReader.
	Sources map[string]string

	// SourceReader reads source file contents.  If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}
	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes diags to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders every diagnostic FromError produces for err.
func (r *Renderer) RenderError(w io.Writer, err error) error {
	return r.RenderAll(w, FromError(err))
}

// errWriter captures the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sevColor := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	code := ""
	if d.Code != "" {
		code = "[" + d.Code + "]"
	}
	ew.printf("%s%s%s%s:%s %s%s\n", sevColor, d.Severity, code, p.reset, p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	lineNo := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(lineNo))
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineNo, p.reset, strings.ReplaceAll(source, "\t", "    "))

	col := span.Col
	if col <= 0 {
		col = 1
	}
	endCol := span.EndCol
	switch {
	case span.EndLine > span.Line:
		// Multi-line spans are underlined to the end of their first line.
		endCol = utf8.RuneCountInString(source)
	case endCol <= 0:
		endCol = detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}
	prefix := ""
	if runes := []rune(source); col-1 <= len(runes) {
		prefix = string(runes[:col-1])
	}
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset,
		strings.Repeat(" ", displayWidth(prefix)), p.boldRed, strings.Repeat("^", endCol-col+1), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	text, ok := r.Sources[file]
	if !ok {
		read := r.SourceReader
		if read == nil {
			read = os.ReadFile
		}
		data, err := read(file)
		if err != nil {
			return "", false
		}
		text = string(data)
	}
	lines := strings.Split(text, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// detectEndCol returns the column of the last rune of the token starting at
// col.  Columns count runes.
func detectEndCol(source string, col int) int {
	runes := []rune(source)
	if col <= 0 || col > len(runes) {
		return col
	}
	end := col - 1
	for end < len(runes) && !strings.ContainsRune(" \t,()[]{}", runes[end]) {
		end++
	}
	if end == col-1 {
		return col
	}
	return end
}

// displayWidth returns the width of s with tabs expanded to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
