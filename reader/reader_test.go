// Copyright © 2026 The jank authors

package reader

import (
	"io"
	"testing"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadString(t *testing.T) {
	tests := []struct {
		source string
		result string
	}{
		{"1", "1"},
		{"-12", "-12"},
		{"3.5", "3.5"},
		{"1e3", "1000.0"},
		{`"a\nb"`, `"a\nb"`},
		{"nil true false", "nil true false"},
		{":kw :ns/kw", ":kw :ns/kw"},
		{"(+ 1 2)", "(+ 1 2)"},
		{"(- 1)", "(- 1)"},
		{"[1, 2, 3]", "[1 2 3]"},
		{"{:a 1 :b [2]}", "{:a 1, :b [2]}"},
		{"#{1 2}", "#{1 2}"},
		{"'x", "(quote x)"},
		{"cpp/std.string", "cpp/std.string"},
		{"(a #_b c)", "(a c)"},
		{"#_(ignored) 1", "1"},
		{"; comment\n(f) ; trailing\n", "(f)"},
		{"()", "()"},
		{"/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			forms, err := ReadString("test.jank", tt.source)
			require.NoError(t, err)
			var out string
			for i, f := range forms {
				if i > 0 {
					out += " "
				}
				out += f.String()
			}
			assert.Equal(t, tt.result, out)
		})
	}
}

func TestRead_Types(t *testing.T) {
	forms, err := ReadString("test.jank", `x cpp/new :a 1 2.0 "s" [] {} #{} ()`)
	require.NoError(t, err)
	types := make([]form.Type, len(forms))
	for i, f := range forms {
		types[i] = f.Type
	}
	assert.Equal(t, []form.Type{
		form.Symbol, form.Symbol, form.Keyword, form.Int, form.Float,
		form.String, form.Vector, form.Map, form.Set, form.List,
	}, types)
	assert.Equal(t, "cpp", forms[1].NS)
	assert.Equal(t, "new", forms[1].Str)
}

func TestRead_SourceLocations(t *testing.T) {
	forms, err := ReadString("test.jank", "(a\n  (b c))")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	outer := forms[0]
	assert.Equal(t, 1, outer.Source.Line)
	assert.Equal(t, 1, outer.Source.Col)
	assert.Equal(t, 2, outer.Source.EndLine)
	assert.Equal(t, 8, outer.Source.EndCol)

	inner := outer.Cells[1]
	assert.Equal(t, 2, inner.Source.Line)
	assert.Equal(t, 3, inner.Source.Col)
	c := inner.Cells[1]
	assert.Equal(t, "test.jank:2:6", c.Source.String())
	assert.Equal(t, 6, c.Source.EndCol)
}

func TestRead_Meta(t *testing.T) {
	forms, err := ReadString("test.jank", `^:private ^{:doc "d"} x ^String y`)
	require.NoError(t, err)
	require.Len(t, forms, 2)

	x := forms[0]
	assert.Equal(t, form.Symbol, x.Type)
	v, ok := form.Get(x.Meta, form.MakeKeyword("private"))
	require.True(t, ok)
	assert.True(t, v.Bool)
	v, ok = form.Get(x.Meta, form.MakeKeyword("doc"))
	require.True(t, ok)
	assert.Equal(t, "d", v.Str)

	tag, ok := form.Get(forms[1].Meta, form.MakeKeyword("tag"))
	require.True(t, ok)
	assert.Equal(t, "String", tag.Str)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"(a b", true},
		{"[1 2", true},
		{`"abc`, true},
		{"(a]", false},
		{")", false},
		{"{:a}", false},
		{"{:a 1 :a 2}", false},
		{"#{1 1}", false},
		{"#?", false},
		{"^1 x", false},
		{"^:m 1", false},
		{`"\q"`, false},
		{"::auto", false},
		{"99999999999999999999", false},
		{"12abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := ReadString("test.jank", tt.source)
			require.Error(t, err)
			var rerr *Error
			assert.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
		})
	}
}

func TestReadString_PartialOnError(t *testing.T) {
	forms, err := ReadString("test.jank", "(a) (b")
	require.Error(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "(a)", forms[0].String())
}

func TestParser_Read(t *testing.T) {
	p := New("test.jank", "1 2")
	f, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.Int)
	f, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.Int)
	_, err = p.Read()
	assert.Equal(t, io.EOF, err)
}
