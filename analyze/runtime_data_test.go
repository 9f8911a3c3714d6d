// Copyright © 2026 The jank authors

package analyze

import (
	"testing"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// field follows a path of keyword keys through nested runtime data.
func field(t *testing.T, data *form.Form, keys ...string) *form.Form {
	t.Helper()
	for _, key := range keys {
		v, ok := form.Get(data, form.MakeKeyword(key))
		require.True(t, ok, "no %s in %s", key, data)
		data = v
	}
	return data
}

func hasField(data *form.Form, key string) bool {
	_, ok := form.Get(data, form.MakeKeyword(key))
	return ok
}

func item(t *testing.T, vec *form.Form, i int) *form.Form {
	t.Helper()
	require.Equal(t, form.Vector, vec.Type, "%s is not a vector", vec)
	require.Greater(t, len(vec.Cells), i)
	return vec.Cells[i]
}

func assertKeyword(t *testing.T, name string, f *form.Form) {
	t.Helper()
	assert.Equal(t, form.Keyword, f.Type, "%s is not a keyword", f)
	assert.Equal(t, name, f.Str)
}

func TestToRuntimeData(t *testing.T) {
	tests := []struct {
		source string
		kind   Kind
		check  func(t *testing.T, data *form.Form)
	}{
		{"1", KindLiteral, func(t *testing.T, data *form.Form) {
			assert.Equal(t, int64(1), field(t, data, "value").Int)
			assertKeyword(t, "root", field(t, data, "frame"))
			assert.Equal(t, "test.jank:1:1", field(t, data, "source").Str)
		}},
		{"(let* [x 1] x)", KindLet, func(t *testing.T, data *form.Form) {
			pair := item(t, field(t, data, "bindings"), 0)
			assert.Equal(t, "x", field(t, item(t, pair, 0), "name").Str)
			assertKeyword(t, "let", field(t, item(t, pair, 0), "kind"))
			assertKeyword(t, "literal", field(t, item(t, pair, 1), "kind"))
			ref := item(t, field(t, data, "body", "body"), 0)
			assertKeyword(t, "local-reference", field(t, ref, "kind"))
			assertKeyword(t, "nested", field(t, ref, "position"))
			assert.Equal(t, "x", field(t, ref, "binding", "name").Str)
		}},
		{"y", KindVarDeref, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "user/y", field(t, data, "var").String())
		}},
		{"(var y)", KindVarRef, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "user/y", field(t, data, "var").String())
		}},
		{"(def y)", KindDef, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "user/y", field(t, data, "var").String())
			assert.False(t, hasField(data, "value"))
			assert.False(t, hasField(data, "doc"))
		}},
		{`(def z "the z" 1)`, KindDef, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "the z", field(t, data, "doc").Str)
			assertKeyword(t, "literal", field(t, data, "value", "kind"))
		}},
		{"(let* [x 1] (fn* f [a & more] x))", KindLet, func(t *testing.T, data *form.Form) {
			fn := item(t, field(t, data, "body", "body"), 0)
			assertKeyword(t, "fn", field(t, fn, "kind"))
			assert.Equal(t, "f", field(t, fn, "name").Str)
			arity := item(t, field(t, fn, "arities"), 0)
			assert.Len(t, field(t, arity, "params").Cells, 2)
			assertKeyword(t, "param", field(t, item(t, field(t, arity, "params"), 0), "kind"))
			assert.Equal(t, "x", item(t, field(t, arity, "captures"), 0).Str)
			assert.Equal(t, int64(1), field(t, arity, "context", "param-count").Int)
			assert.True(t, field(t, arity, "context", "variadic").Bool)
			assert.True(t, field(t, item(t, field(t, data, "bindings"), 0).Cells[0], "captured").Bool)
		}},
		{"(fn* f [] (fn* [] (f)))", KindFn, func(t *testing.T, data *form.Form) {
			outer := item(t, field(t, data, "arities"), 0)
			inner := item(t, field(t, outer, "body", "body"), 0)
			arity := item(t, field(t, inner, "arities"), 0)
			assert.Equal(t, "f", item(t, field(t, arity, "captures"), 0).Str)
			call := item(t, field(t, arity, "body", "body"), 0)
			assertKeyword(t, "call", field(t, call, "kind"))
			assertKeyword(t, "self", field(t, call, "fn", "binding", "kind"))
		}},
		{"(y 1)", KindCall, func(t *testing.T, data *form.Form) {
			assertKeyword(t, "var-deref", field(t, data, "fn", "kind"))
			assert.Len(t, field(t, data, "args").Cells, 1)
		}},
		{"(if 1 2)", KindIf, func(t *testing.T, data *form.Form) {
			assertKeyword(t, "literal", field(t, data, "test", "kind"))
			assert.Equal(t, int64(2), field(t, data, "then", "value").Int)
			assert.True(t, field(t, data, "else", "value").IsNil())
		}},
		{"(do 1 2)", KindDo, func(t *testing.T, data *form.Form) {
			body := field(t, data, "body")
			require.Len(t, body.Cells, 2)
			assertKeyword(t, "statement", field(t, body.Cells[0], "position"))
			assertKeyword(t, "nested", field(t, body.Cells[1], "position"))
		}},
		{"(letfn* [g (fn* [] (g))] (g))", KindLetfn, func(t *testing.T, data *form.Form) {
			pair := item(t, field(t, data, "bindings"), 0)
			assertKeyword(t, "letfn", field(t, item(t, pair, 0), "kind"))
			assertKeyword(t, "fn", field(t, item(t, pair, 1), "kind"))
		}},
		{"()", KindList, func(t *testing.T, data *form.Form) {
			assert.Empty(t, field(t, data, "items").Cells)
		}},
		{"^{:k 1} [1 2]", KindVector, func(t *testing.T, data *form.Form) {
			assert.Len(t, field(t, data, "items").Cells, 2)
			assert.Equal(t, int64(1), field(t, data, "meta", "k").Int)
		}},
		{"#{1}", KindSet, func(t *testing.T, data *form.Form) {
			assert.Len(t, field(t, data, "items").Cells, 1)
		}},
		{"{:a 1}", KindMap, func(t *testing.T, data *form.Form) {
			entry := item(t, field(t, data, "entries"), 0)
			assert.Equal(t, "a", field(t, item(t, entry, 0), "value").Str)
			assert.Equal(t, int64(1), field(t, item(t, entry, 1), "value").Int)
		}},
		{"(fn* [x] (recur x))", KindFn, func(t *testing.T, data *form.Form) {
			arity := item(t, field(t, data, "arities"), 0)
			rec := item(t, field(t, arity, "body", "body"), 0)
			assertKeyword(t, "recur", field(t, rec, "kind"))
			assert.Len(t, field(t, rec, "args").Cells, 1)
			assert.True(t, field(t, rec, "target", "tail-recursive").Bool)
		}},
		{"(fn* f [x] (f x))", KindFn, func(t *testing.T, data *form.Form) {
			arity := item(t, field(t, data, "arities"), 0)
			rec := item(t, field(t, arity, "body", "body"), 0)
			assertKeyword(t, "named-recursion", field(t, rec, "kind"))
			assert.Equal(t, "f", field(t, rec, "target", "name").Str)
		}},
		{"(fn* f [] f)", KindFn, func(t *testing.T, data *form.Form) {
			arity := item(t, field(t, data, "arities"), 0)
			ref := item(t, field(t, arity, "body", "body"), 0)
			assertKeyword(t, "recursion-reference", field(t, ref, "kind"))
			assert.Equal(t, int64(0), field(t, ref, "target", "param-count").Int)
		}},
		{"(try 1 (catch e e) (finally 2))", KindTry, func(t *testing.T, data *form.Form) {
			assertKeyword(t, "do", field(t, data, "body", "kind"))
			assert.Equal(t, "e", field(t, data, "catch", "binding", "name").Str)
			assertKeyword(t, "catch", field(t, data, "catch", "binding", "kind"))
			assertKeyword(t, "do", field(t, data, "catch", "body", "kind"))
			assertKeyword(t, "statement", field(t, data, "finally", "position"))
		}},
		{"(try 1)", KindTry, func(t *testing.T, data *form.Form) {
			assert.False(t, hasField(data, "catch"))
			assert.False(t, hasField(data, "finally"))
		}},
		{"(throw 1)", KindThrow, func(t *testing.T, data *form.Form) {
			assertKeyword(t, "literal", field(t, data, "value", "kind"))
		}},
		{`(cpp/new cpp/std.string "x")`, KindCppNew, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "std::string", field(t, data, "type").Str)
			assert.Len(t, field(t, data, "args").Cells, 1)
		}},
		{"(cpp/delete 1)", KindCppDelete, func(t *testing.T, data *form.Form) {
			assertKeyword(t, "literal", field(t, data, "value", "kind"))
		}},
		{`(cpp/raw "int x;")`, KindCppRaw, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "int x;", field(t, data, "code").Str)
		}},
		{`(cpp/type "std::string*")`, KindCppType, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "std::string*", field(t, data, "type").Str)
		}},
		{"cpp/std.string", KindCppType, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "std::string", field(t, data, "type").Str)
		}},
		{"(cpp/box 1)", KindCppBox, func(t *testing.T, data *form.Form) {
			assert.True(t, field(t, data, "value", "needs-box").Bool)
		}},
		{`(cpp/unbox "int*" 1)`, KindCppUnbox, func(t *testing.T, data *form.Form) {
			assert.Equal(t, "int*", field(t, data, "type").Str)
			assert.False(t, field(t, data, "value", "needs-box").Bool)
			assert.True(t, field(t, data, "needs-box").Bool)
		}},
	}

	fx := newFixture()
	fx.mustAnalyze(t, "(def y)", Statement)
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			e := fx.mustAnalyze(t, tt.source, Nested)
			require.Equal(t, tt.kind, e.Kind())
			base := *e.Common()

			data := ToRuntimeData(e)
			assertKeyword(t, tt.kind.String(), field(t, data, "kind"))
			assertKeyword(t, "nested", field(t, data, "position"))
			tt.check(t, data)

			assert.Equal(t, base, *e.Common(), "projection changed the node")
			assert.True(t, form.Equal(data, ToRuntimeData(e)), "projection is not repeatable")
		})
	}
}

func TestToRuntimeData_Nil(t *testing.T) {
	assert.True(t, ToRuntimeData(nil).IsNil())

	// Nodes built by hand may lack optional parts.
	data := ToRuntimeData(&Recursion{Base: Base{kind: KindRecur, NeedsBox: true}})
	assertKeyword(t, "recur", field(t, data, "kind"))
	assert.True(t, field(t, data, "target").IsNil())
	assert.Empty(t, field(t, data, "args").Cells)
	assert.False(t, hasField(data, "frame"))
	assert.False(t, hasField(data, "source"))
}
