// Copyright © 2026 The jank authors

package reader

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jank-lang/jank-sub005/form"
)

const miscWordSymbols = "*+!-_'?<>=/.&%$:#|"

// lexer splits a fully buffered source text into tokens.  Reader input is
// small (one file, one REPL entry) so the lexer works on the whole text
// instead of a sliding window.
type lexer struct {
	file string
	src  string
	pos  int // byte offset of the next rune
	line int
	col  int

	start     int
	startLine int
	startCol  int

	// last rune consumed and its location, used to close spans.
	lastLine int
	lastCol  int
}

func newLexer(file, src string) *lexer {
	return &lexer{
		file: file,
		src:  src,
		line: 1,
		col:  1,
	}
}

func (lex *lexer) peek() rune {
	if lex.pos >= len(lex.src) {
		return -1
	}
	c, _ := utf8.DecodeRuneInString(lex.src[lex.pos:])
	return c
}

func (lex *lexer) peekAt(n int) rune {
	pos := lex.pos
	for ; n > 0 && pos < len(lex.src); n-- {
		_, size := utf8.DecodeRuneInString(lex.src[pos:])
		pos += size
	}
	if pos >= len(lex.src) {
		return -1
	}
	c, _ := utf8.DecodeRuneInString(lex.src[pos:])
	return c
}

func (lex *lexer) next() rune {
	if lex.pos >= len(lex.src) {
		return -1
	}
	c, size := utf8.DecodeRuneInString(lex.src[lex.pos:])
	lex.pos += size
	lex.lastLine = lex.line
	lex.lastCol = lex.col
	if c == '\n' {
		lex.line++
		lex.col = 1
	} else {
		lex.col++
	}
	return c
}

func (lex *lexer) acceptSeq(fn func(rune) bool) int {
	var n int
	for c := lex.peek(); c >= 0 && fn(c); c = lex.peek() {
		lex.next()
		n++
	}
	return n
}

func (lex *lexer) ignore() {
	lex.start = lex.pos
	lex.startLine = lex.line
	lex.startCol = lex.col
}

func (lex *lexer) loc() *form.Location {
	return &form.Location{
		File:    lex.file,
		Pos:     lex.start,
		Line:    lex.startLine,
		Col:     lex.startCol,
		EndPos:  lex.pos,
		EndLine: lex.lastLine,
		EndCol:  lex.lastCol,
	}
}

func (lex *lexer) emit(typ tokenType) *token {
	tok := &token{
		typ:    typ,
		text:   lex.src[lex.start:lex.pos],
		source: lex.loc(),
	}
	lex.ignore()
	return tok
}

func (lex *lexer) errorf(format string, v ...interface{}) *token {
	tok := &token{
		typ:    tokError,
		text:   fmt.Sprintf(format, v...),
		source: lex.loc(),
	}
	lex.ignore()
	return tok
}

func (lex *lexer) skipWhitespace() {
	for {
		c := lex.peek()
		switch {
		case c == ',' || (c >= 0 && unicode.IsSpace(c)):
			lex.next()
		case c == ';':
			lex.acceptSeq(func(c rune) bool { return c != '\n' })
		default:
			lex.ignore()
			return
		}
	}
}

func (lex *lexer) readToken() *token {
	lex.skipWhitespace()
	c := lex.next()
	switch c {
	case -1:
		return lex.emit(tokEOF)
	case '(':
		return lex.emit(tokParenL)
	case ')':
		return lex.emit(tokParenR)
	case '[':
		return lex.emit(tokBracketL)
	case ']':
		return lex.emit(tokBracketR)
	case '{':
		return lex.emit(tokBraceL)
	case '}':
		return lex.emit(tokBraceR)
	case '\'':
		return lex.emit(tokQuote)
	case '^':
		return lex.emit(tokMeta)
	case '#':
		switch lex.next() {
		case '{':
			return lex.emit(tokSetL)
		case '_':
			return lex.emit(tokDiscard)
		case -1:
			return lex.errorf("unexpected EOF after #")
		default:
			return lex.errorf("invalid dispatch macro character %q", lex.src[lex.start+1:lex.pos])
		}
	case '"':
		return lex.readString()
	case ':':
		if lex.acceptSeq(isWord) == 0 {
			return lex.errorf("invalid keyword")
		}
		return lex.emit(tokKeyword)
	case '-', '+':
		if isDigit(lex.peek()) {
			return lex.readNumber()
		}
		lex.acceptSeq(isWord)
		return lex.emit(tokSymbol)
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			lex.acceptSeq(isWord)
			return lex.emit(tokSymbol)
		}
		return lex.errorf("unexpected text starting with %q", c)
	}
}

func (lex *lexer) readString() *token {
	for {
		switch lex.next() {
		case -1:
			return lex.errorf("unterminated string literal")
		case '\\':
			if lex.next() == -1 {
				return lex.errorf("unterminated string literal")
			}
		case '"':
			return lex.emit(tokString)
		}
	}
}

func (lex *lexer) readNumber() *token {
	lex.acceptSeq(isDigit)
	typ := tokInt
	if lex.peek() == '.' && isDigit(lex.peekAt(1)) {
		lex.next()
		lex.acceptSeq(isDigit)
		typ = tokFloat
	}
	if c := lex.peek(); c == 'e' || c == 'E' {
		lex.next()
		if c := lex.peek(); c == '+' || c == '-' {
			lex.next()
		}
		if lex.acceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.src[lex.start:lex.pos])
		}
		typ = tokFloat
	}
	if isWord(lex.peek()) {
		lex.acceptSeq(isWord)
		return lex.errorf("invalid number: %v", lex.src[lex.start:lex.pos])
	}
	// the text may not actually be a usable number (overflow), but we can
	// find that out at parse time -- not scan time.
	return lex.emit(typ)
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || (c != ':' && c != '#' && strings.ContainsRune(miscWordSymbols, c))
}

func isWord(c rune) bool {
	return c >= 0 && (unicode.IsLetter(c) || isDigit(c) || strings.ContainsRune(miscWordSymbols, c))
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
