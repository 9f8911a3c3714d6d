// Copyright © 2026 The jank authors

// Package reader turns source text into symbolic forms annotated with source
// spans.
//
//	form   := list | vector | map | set | quote | meta | atom
//	list   := '(' form* ')'
//	vector := '[' form* ']'
//	map    := '{' (form form)* '}'
//	set    := '#{' form* '}'
//	quote  := "'" form
//	meta   := '^' form form
//	atom   := number | string | keyword | symbol
//
// Commas are whitespace, ';' starts a comment and '#_' discards the next
// form.
package reader

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jank-lang/jank-sub005/form"
)

// Error is a read failure at a location in the source.
type Error struct {
	Source  *form.Location
	Message string

	eof bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Message)
}

// IsIncomplete returns true if err reports that the input ended in the middle
// of a form.  Interactive readers use it to request more input.
func IsIncomplete(err error) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.eof
}

// ReadAll reads every form in r.  On error the forms read before the
// failure are returned along with the error.
func ReadAll(name string, r io.Reader) ([]*form.Form, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadString(name, string(b))
}

// ReadString reads every form in src.
func ReadString(name, src string) ([]*form.Form, error) {
	p := New(name, src)
	var forms []*form.Form
	for {
		f, err := p.Read()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return forms, err
		}
		forms = append(forms, f)
	}
}

// Parser reads forms from a source text one at a time.
type Parser struct {
	lex  *lexer
	peek *token
}

// New returns a Parser reading src.  name is used in source locations.
func New(name, src string) *Parser {
	return &Parser{lex: newLexer(name, src)}
}

// Read returns the next top-level form.  It returns io.EOF when the input is
// exhausted.
func (p *Parser) Read() (*form.Form, error) {
	for p.peekType() == tokDiscard {
		p.next()
		if _, err := p.parseForm(); err != nil {
			return nil, err
		}
	}
	if p.peekType() == tokEOF {
		return nil, io.EOF
	}
	return p.parseForm()
}

func (p *Parser) next() *token {
	if p.peek != nil {
		tok := p.peek
		p.peek = nil
		return tok
	}
	return p.lex.readToken()
}

func (p *Parser) peekToken() *token {
	if p.peek == nil {
		p.peek = p.lex.readToken()
	}
	return p.peek
}

func (p *Parser) peekType() tokenType {
	return p.peekToken().typ
}

func (p *Parser) errorf(loc *form.Location, format string, v ...interface{}) *Error {
	return &Error{Source: loc, Message: fmt.Sprintf(format, v...)}
}

func (p *Parser) parseForm() (*form.Form, error) {
	tok := p.next()
	switch tok.typ {
	case tokInt:
		return p.parseInt(tok)
	case tokFloat:
		return p.parseFloat(tok)
	case tokString:
		return p.parseString(tok)
	case tokKeyword:
		return p.parseKeyword(tok)
	case tokSymbol:
		return p.parseSymbol(tok)
	case tokParenL:
		return p.parseSeq(tok, tokParenR, form.List)
	case tokBracketL:
		return p.parseSeq(tok, tokBracketR, form.Vector)
	case tokBraceL:
		return p.parseMap(tok)
	case tokSetL:
		return p.parseSet(tok)
	case tokQuote:
		return p.parseQuote(tok)
	case tokMeta:
		return p.parseMeta(tok)
	case tokDiscard:
		if _, err := p.parseForm(); err != nil {
			return nil, err
		}
		return p.parseForm()
	case tokEOF:
		return nil, &Error{Source: tok.source, Message: "unexpected EOF", eof: true}
	case tokError:
		err := p.errorf(tok.source, "%s", tok.text)
		err.eof = strings.HasPrefix(tok.text, "unterminated") || strings.HasPrefix(tok.text, "unexpected EOF")
		return nil, err
	default:
		return nil, p.errorf(tok.source, "unexpected token: %v", tok.typ)
	}
}

func (p *Parser) parseInt(tok *token) (*form.Form, error) {
	x, err := strconv.ParseInt(tok.text, 10, 64)
	if err != nil {
		return nil, p.errorf(tok.source, "invalid integer literal: %v", tok.text)
	}
	f := form.MakeInt(x)
	f.Source = tok.source
	return f, nil
}

func (p *Parser) parseFloat(tok *token) (*form.Form, error) {
	x, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return nil, p.errorf(tok.source, "invalid floating point literal: %v", tok.text)
	}
	f := form.MakeFloat(x)
	f.Source = tok.source
	return f, nil
}

var stringEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'"':  '"',
	'\\': '\\',
}

func (p *Parser) parseString(tok *token) (*form.Form, error) {
	raw := tok.text[1 : len(tok.text)-1]
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			continue
		}
		i++
		c, ok := stringEscapes[raw[i]]
		if !ok {
			return nil, p.errorf(tok.source, "invalid escape sequence: \\%c", raw[i])
		}
		b.WriteByte(c)
	}
	f := form.MakeString(b.String())
	f.Source = tok.source
	return f, nil
}

func (p *Parser) parseKeyword(tok *token) (*form.Form, error) {
	name := tok.text[1:]
	if strings.HasPrefix(name, ":") {
		return nil, p.errorf(tok.source, "auto-resolved keywords are not supported: %v", tok.text)
	}
	ns, sym, err := splitName(name)
	if err != nil {
		return nil, p.errorf(tok.source, "invalid keyword %v: %v", tok.text, err)
	}
	f := form.MakeQualifiedKeyword(ns, sym)
	f.Source = tok.source
	return f, nil
}

func (p *Parser) parseSymbol(tok *token) (*form.Form, error) {
	var f *form.Form
	switch tok.text {
	case "nil":
		f = form.MakeNil()
	case "true":
		f = form.MakeBool(true)
	case "false":
		f = form.MakeBool(false)
	default:
		ns, name, err := splitName(tok.text)
		if err != nil {
			return nil, p.errorf(tok.source, "invalid symbol %v: %v", tok.text, err)
		}
		f = form.MakeQualifiedSymbol(ns, name)
	}
	f.Source = tok.source
	return f, nil
}

// splitName splits a possibly qualified name at its first slash.  The name
// "/" and names in the form "ns//" are unqualified division symbols.
func splitName(s string) (ns, name string, err error) {
	if s == "/" {
		return "", s, nil
	}
	i := strings.IndexByte(s, '/')
	if i < 0 {
		return "", s, nil
	}
	ns, name = s[:i], s[i+1:]
	if ns == "" || name == "" {
		return "", "", errors.New("empty namespace or name")
	}
	if name != "/" && strings.Contains(name, "/") {
		return "", "", errors.New("too many slashes")
	}
	return ns, name, nil
}

func (p *Parser) parseElements(open *token, closing tokenType) ([]*form.Form, *form.Location, error) {
	var cells []*form.Form
	for {
		switch p.peekType() {
		case closing:
			end := p.next()
			return cells, open.source.Through(end.source), nil
		case tokEOF:
			return nil, nil, &Error{
				Source:  open.source,
				Message: fmt.Sprintf("unexpected EOF: unmatched %v", open.typ),
				eof:     true,
			}
		case tokParenR, tokBracketR, tokBraceR:
			tok := p.next()
			return nil, nil, p.errorf(tok.source, "unexpected %v: unmatched %v", tok.typ, open.typ)
		case tokDiscard:
			p.next()
			if _, err := p.parseForm(); err != nil {
				return nil, nil, err
			}
			continue
		}
		f, err := p.parseForm()
		if err != nil {
			return nil, nil, err
		}
		cells = append(cells, f)
	}
}

func (p *Parser) parseSeq(open *token, closing tokenType, typ form.Type) (*form.Form, error) {
	cells, loc, err := p.parseElements(open, closing)
	if err != nil {
		return nil, err
	}
	return &form.Form{Type: typ, Cells: cells, Source: loc}, nil
}

func (p *Parser) parseMap(open *token) (*form.Form, error) {
	cells, loc, err := p.parseElements(open, tokBraceR)
	if err != nil {
		return nil, err
	}
	if len(cells)%2 != 0 {
		return nil, p.errorf(loc, "map literal must contain an even number of forms")
	}
	m := &form.Form{Type: form.Map}
	for i := 0; i < len(cells); i += 2 {
		if form.Contains(m, cells[i]) {
			return nil, p.errorf(cells[i].Source, "duplicate key: %v", cells[i])
		}
		m = form.Assoc(m, cells[i], cells[i+1])
	}
	m.Source = loc
	return m, nil
}

func (p *Parser) parseSet(open *token) (*form.Form, error) {
	cells, loc, err := p.parseElements(open, tokBraceR)
	if err != nil {
		return nil, err
	}
	s := &form.Form{Type: form.Set}
	for _, c := range cells {
		if form.Contains(s, c) {
			return nil, p.errorf(c.Source, "duplicate set element: %v", c)
		}
		s = form.Conj(s, c)
	}
	s.Source = loc
	return s, nil
}

func (p *Parser) parseQuote(tok *token) (*form.Form, error) {
	quoted, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	head := form.MakeSymbol("quote")
	head.Source = tok.source
	q := form.MakeList(head, quoted)
	q.Source = tok.source.Through(quoted.Source)
	return q, nil
}

func (p *Parser) parseMeta(tok *token) (*form.Form, error) {
	meta, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	switch meta.Type {
	case form.Keyword:
		meta = form.MakeMap(meta, form.MakeBool(true))
	case form.Symbol, form.String:
		meta = form.MakeMap(form.MakeKeyword("tag"), meta)
	case form.Map:
	default:
		return nil, p.errorf(meta.Source, "metadata must be a symbol, keyword, string or map")
	}
	target, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	if target.Type != form.Symbol && !target.IsColl() {
		return nil, p.errorf(tok.source, "metadata can only be applied to symbols and collections")
	}
	f := form.WithMeta(target, form.Merge(target.Meta, meta))
	f.Source = tok.source.Through(target.Source)
	return f, nil
}
