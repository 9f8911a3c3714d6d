// Copyright © 2026 The jank authors

package diagnostic

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderAnalysisError(t *testing.T) {
	src := compiler.Source{Name: "core.jank", Text: "(let* [x 1] nope)"}
	unit := compiler.NewDriver(nil, nil).AnalyzeSource(context.Background(), src)
	diags := FromError(unit.Err())
	require.Len(t, diags, 1)

	r := &Renderer{Color: ColorNever, Sources: map[string]string{src.Name: src.Text}}
	want := "error[unresolved name]: unable to resolve symbol: nope\n" +
		"  --> core.jank:1:13\n" +
		"   |\n" +
		" 1 |  (let* [x 1] nope)\n" +
		"   |              ^^^^ not found in this scope\n" +
		"   |\n"
	assert.Equal(t, want, render(t, r, diags[0]))
}

func TestRenderNotes(t *testing.T) {
	src := compiler.Source{Name: "try.jank", Text: "(try 1\n  (catch e 2)\n  (catch f 3))"}
	unit := compiler.NewDriver(nil, nil).AnalyzeSource(context.Background(), src)
	diags := FromError(unit.Err())
	require.Len(t, diags, 1)
	assert.Equal(t, "structural error", diags[0].Code)
	require.NotEmpty(t, diags[0].Notes)

	r := &Renderer{Color: ColorNever, Sources: map[string]string{src.Name: src.Text}}
	got := render(t, r, diags[0])
	assert.Contains(t, got, "   = note: ")
	assert.Contains(t, got, "--> try.jank:")
}

func TestRenderMultipleErrors(t *testing.T) {
	src := compiler.Source{Name: "m.jank", Text: "a\nb\n(c"}
	unit := compiler.NewDriver(nil, nil).AnalyzeSource(context.Background(), src)
	diags := FromError(unit.Err())
	require.Len(t, diags, 3)
	assert.Equal(t, "read error", diags[2].Code)

	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever, Sources: map[string]string{src.Name: src.Text}}
	require.NoError(t, r.RenderError(&buf, unit.Err()))
	got := buf.String()
	assert.Contains(t, got, "--> m.jank:1:1")
	assert.Contains(t, got, "--> m.jank:2:1")
	assert.Contains(t, got, "error[read error]: ")
	assert.Contains(t, got, "|\n\nerror", "diagnostics are separated by a blank line")
}

func TestRenderMultiLineSpan(t *testing.T) {
	r := &Renderer{Color: ColorNever, Sources: map[string]string{"x.jank": "(foo bar\n  baz)"}}
	got := render(t, r, Diagnostic{
		Message: "bad",
		Spans:   []Span{{File: "x.jank", Line: 1, Col: 1, EndLine: 2, EndCol: 6}},
	})
	assert.Contains(t, got, "   |  ^^^^^^^^\n")
}

func TestRenderDetectEnd(t *testing.T) {
	r := &Renderer{Color: ColorNever, Sources: map[string]string{"x.jank": "(foo bar)"}}
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "odd",
		Spans:    []Span{{File: "x.jank", Line: 1, Col: 6, Label: "here"}},
	})
	assert.Contains(t, got, "warning: odd\n")
	assert.Contains(t, got, "   |       ^^^ here\n")
}

func TestRenderMissingSource(t *testing.T) {
	r := &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			return nil, errors.New("not found: " + name)
		},
	}
	got := render(t, r, Diagnostic{
		Message: "lost",
		Spans:   []Span{{File: "gone.jank", Line: 3, Col: 2}},
	})
	assert.Equal(t, "error: lost\n  --> gone.jank:3:2\n   |\n", got)
}

func TestRenderColor(t *testing.T) {
	r := &Renderer{Color: ColorAlways}
	got := render(t, r, Diagnostic{Message: "x"})
	assert.Contains(t, got, "\033[1;31merror")

	r.Color = ColorNever
	assert.NotContains(t, render(t, r, Diagnostic{Message: "x"}), "\033[")
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFromError_Plain(t *testing.T) {
	assert.Nil(t, FromError(nil))
	diags := FromError(errors.New("disk on fire"))
	require.Len(t, diags, 1)
	assert.Equal(t, "disk on fire", diags[0].Message)
	assert.Empty(t, diags[0].Spans)
}
