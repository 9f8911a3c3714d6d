// Copyright © 2026 The jank authors

package reader

import (
	"fmt"

	"github.com/jank-lang/jank-sub005/form"
)

type tokenType uint8

const (
	tokInvalid tokenType = iota
	tokError
	tokEOF

	tokSymbol
	tokKeyword
	tokInt
	tokFloat
	tokString

	tokQuote   // '
	tokMeta    // ^
	tokDiscard // #_

	tokParenL   // (
	tokParenR   // )
	tokBracketL // [
	tokBracketR // ]
	tokBraceL   // {
	tokBraceR   // }
	tokSetL     // #{

	numTokenTypes
)

func (typ tokenType) String() string {
	typeStrings := [numTokenTypes]string{
		tokInvalid:  "invalid",
		tokError:    "error",
		tokEOF:      "EOF",
		tokSymbol:   "symbol",
		tokKeyword:  "keyword",
		tokInt:      "int",
		tokFloat:    "float",
		tokString:   "string",
		tokQuote:    "'",
		tokMeta:     "^",
		tokDiscard:  "#_",
		tokParenL:   "(",
		tokParenR:   ")",
		tokBracketL: "[",
		tokBracketR: "]",
		tokBraceL:   "{",
		tokBraceR:   "}",
		tokSetL:     "#{",
	}
	if typ >= numTokenTypes {
		return typeStrings[tokInvalid]
	}
	return typeStrings[typ]
}

type token struct {
	typ    tokenType
	text   string
	source *form.Location
}

func (tok *token) String() string {
	return fmt.Sprintf("%v %q", tok.typ, tok.text)
}
