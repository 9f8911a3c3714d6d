// Copyright © 2026 The jank authors

package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Form
		equal bool
	}{
		{"nil", MakeNil(), nil, true},
		{"ints", MakeInt(3), MakeInt(3), true},
		{"int float", MakeInt(1), MakeFloat(1), false},
		{"symbols", MakeSymbol("x"), MakeSymbol("x"), true},
		{"qualified symbols", MakeQualifiedSymbol("a", "x"), MakeSymbol("x"), false},
		{"keyword symbol", MakeKeyword("x"), MakeSymbol("x"), false},
		{"list vector", MakeList(MakeInt(1), MakeInt(2)), MakeVector(MakeInt(1), MakeInt(2)), true},
		{"vector length", MakeVector(MakeInt(1)), MakeVector(MakeInt(1), MakeInt(2)), false},
		{
			"map order",
			MakeMap(MakeKeyword("a"), MakeInt(1), MakeKeyword("b"), MakeInt(2)),
			MakeMap(MakeKeyword("b"), MakeInt(2), MakeKeyword("a"), MakeInt(1)),
			true,
		},
		{"set order", MakeSet(MakeInt(1), MakeInt(2)), MakeSet(MakeInt(2), MakeInt(1)), true},
		{"set map", MakeSet(), MakeMap(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
			if tt.equal {
				assert.Equal(t, Hash(tt.a), Hash(tt.b))
			}
		})
	}
}

func TestEqual_IgnoresMeta(t *testing.T) {
	a := MakeVector(MakeInt(1))
	b := WithMeta(a, MakeMap(MakeKeyword("tag"), MakeSymbol("x")))
	assert.True(t, Equal(a, b))
	assert.Nil(t, a.Meta)
	assert.NotNil(t, b.Meta)
}

func TestConj_DoesNotMutate(t *testing.T) {
	v := MakeVector(MakeInt(1))
	v2 := Conj(v, MakeInt(2))
	assert.Equal(t, "[1]", v.String())
	assert.Equal(t, "[1 2]", v2.String())

	l := MakeList(MakeInt(1))
	assert.Equal(t, "(0 1)", Conj(l, MakeInt(0)).String())
	assert.Equal(t, "(1)", l.String())

	s := MakeSet(MakeInt(1))
	assert.Same(t, s, Conj(s, MakeInt(1)))
	assert.Equal(t, 2, Conj(s, MakeInt(2)).Len())

	m := MakeMap()
	m2 := Conj(m, MakeVector(MakeKeyword("a"), MakeInt(1)))
	assert.Equal(t, 0, m.Len())
	v3, ok := Get(m2, MakeKeyword("a"))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v3.Int)
}

func TestAssocDissoc(t *testing.T) {
	m := MakeMap(MakeKeyword("a"), MakeInt(1))
	m2 := Assoc(m, MakeKeyword("a"), MakeInt(2))
	assert.Equal(t, 1, m2.Len())
	got, _ := Get(m2, MakeKeyword("a"))
	assert.Equal(t, int64(2), got.Int)
	got, _ = Get(m, MakeKeyword("a"))
	assert.Equal(t, int64(1), got.Int)

	m3 := Dissoc(m2, MakeKeyword("a"))
	assert.Equal(t, 0, m3.Len())
	assert.Same(t, m2, Dissoc(m2, MakeKeyword("zzz")))
}

func TestMerge(t *testing.T) {
	a := MakeMap(MakeKeyword("a"), MakeInt(1), MakeKeyword("b"), MakeInt(1))
	b := MakeMap(MakeKeyword("b"), MakeInt(2))
	m := Merge(a, b)
	got, _ := Get(m, MakeKeyword("b"))
	assert.Equal(t, int64(2), got.Int)
	assert.Equal(t, 2, m.Len())
	assert.Same(t, a, Merge(a, nil))
}

func TestString(t *testing.T) {
	f := MakeList(
		MakeSymbol("f"),
		MakeQualifiedKeyword("ns", "k"),
		MakeString("a\"b"),
		MakeFloat(2),
		MakeSet(MakeBool(true)),
		MakeMap(MakeKeyword("a"), MakeNil()),
		MakeQualifiedSymbol("cpp", "std.string"),
	)
	assert.Equal(t, `(f :ns/k "a\"b" 2.0 #{true} {:a nil} cpp/std.string)`, f.String())
}

func TestLocation(t *testing.T) {
	loc := &Location{File: "a.jank", Line: 2, Col: 3, Pos: 10}
	assert.Equal(t, "a.jank:2:3", loc.String())
	end := &Location{File: "a.jank", Line: 4, Col: 1, EndLine: 4, EndCol: 5, EndPos: 30}
	span := loc.Through(end)
	assert.Equal(t, 2, span.Line)
	assert.Equal(t, 4, span.EndLine)
	assert.Equal(t, 5, span.EndCol)
	assert.Equal(t, "<unknown>", (*Location)(nil).String())
}
