// Copyright © 2026 The jank authors

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/interop"
	"github.com/jank-lang/jank-sub005/namespace"
	"github.com/jank-lang/jank-sub005/x/profiler"
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(logs *bytes.Buffer) settings {
	return settings{
		Color:     "never",
		LogLevel:  "warn",
		Namespace: compiler.DefaultNamespace,
		LogOutput: logs,
	}
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	v.Set("color", "always")
	v.Set("log-level", "debug")
	v.Set("passes", []string{"strip-source"})
	v.Set("trace", true)
	v.Set("trace-backend", "opencensus")
	s := loadSettings(v)
	assert.Equal(t, "always", s.Color)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, compiler.DefaultNamespace, s.Namespace)
	assert.Equal(t, []string{"strip-source"}, s.Passes)
	assert.True(t, s.Trace)
	assert.Equal(t, "opencensus", s.TraceBackend)
	assert.Equal(t, os.Stderr, s.LogOutput)
}

func TestInjector_Driver(t *testing.T) {
	var logs bytes.Buffer
	s := testSettings(&logs)
	s.Passes = []string{"strip-source"}
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	d, err := do.Invoke[*compiler.Driver](i)
	require.NoError(t, err)
	assert.Same(t, do.MustInvoke[*namespace.Registry](i), d.Registry)
	require.Len(t, d.Pipeline.Passes, 1)
	assert.Equal(t, pass.StripSource, d.Pipeline.Passes[0])
	assert.Equal(t, logrus.WarnLevel, d.Log.Logger.GetLevel())

	unit := d.AnalyzeSource(context.Background(), compiler.Source{Name: "t.jank", Text: "(inc 1)"})
	require.NoError(t, unit.Err())
	assert.Nil(t, unit.Exprs[0].Common().Source)
}

func TestInjector_Errors(t *testing.T) {
	var logs bytes.Buffer

	s := testSettings(&logs)
	s.Passes = []string{"inline-everything"}
	_, err := do.Invoke[*compiler.Driver](newInjector(s))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pass "inline-everything"`)

	s = testSettings(&logs)
	s.LogLevel = "loud"
	_, err = do.Invoke[*compiler.Driver](newInjector(s))
	assert.Error(t, err)

	s = testSettings(&logs)
	s.Catalog = filepath.Join(t.TempDir(), "missing.toml")
	_, err = do.Invoke[*compiler.Driver](newInjector(s))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestInjector_Catalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "std.toml", `
[[scope]]
name = "std"

[[type]]
name = "std::string"
size = 32
fields = ["data", "size"]
`)
	var logs bytes.Buffer
	s := testSettings(&logs)
	s.Catalog = path
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	r, err := do.Invoke[*interop.Resolver](i)
	require.NoError(t, err)
	h, ok := r.ResolveType("std::string")
	require.True(t, ok)
	assert.Equal(t, "std::string", h.Name())

	d := do.MustInvoke[*compiler.Driver](i)
	unit := d.AnalyzeSource(context.Background(), compiler.Source{Name: "t.jank", Text: "(cpp/new cpp/std.string)"})
	require.NoError(t, unit.Err())
	assert.Equal(t, analyze.KindCppNew, unit.Exprs[0].Kind())
}

func TestInjector_Trace(t *testing.T) {
	var logs bytes.Buffer
	s := testSettings(&logs)
	s.Trace = true
	i := newInjector(s)

	d := do.MustInvoke[*compiler.Driver](i)
	unit := d.AnalyzeSource(context.Background(), compiler.Source{Name: "traced.jank", Text: "(inc 1)"})
	require.NoError(t, unit.Err())
	require.NoError(t, i.Shutdown())

	out := logs.String()
	assert.Contains(t, out, `span="unit:traced.jank"`)
	assert.Contains(t, out, "span=form")
}

func TestInjector_TraceOpenCensus(t *testing.T) {
	var logs bytes.Buffer
	s := testSettings(&logs)
	s.Trace = true
	s.TraceBackend = "opencensus"
	i := newInjector(s)

	d := do.MustInvoke[*compiler.Driver](i)
	unit := d.AnalyzeSource(context.Background(), compiler.Source{Name: "census.jank", Text: "(inc 1)"})
	require.NoError(t, unit.Err())
	require.NoError(t, i.Shutdown())

	out := logs.String()
	assert.Contains(t, out, `span="unit:census.jank"`)
	assert.Contains(t, out, "span=analyze")
	assert.Contains(t, out, "file=census.jank")

	// The exporter is gone after shutdown.
	logs.Reset()
	_, end := profiler.NewOpenCensusAnnotator().Start(context.Background(), profiler.SpanForm, nil)
	end(nil)
	assert.Empty(t, logs.String())
}

func TestInjector_TraceBackendUnknown(t *testing.T) {
	var logs bytes.Buffer
	s := testSettings(&logs)
	s.Trace = true
	s.TraceBackend = "zipkin"
	_, err := do.Invoke[*compiler.Driver](newInjector(s))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown trace backend "zipkin"`)
}

func TestRunAnalyze_Expr(t *testing.T) {
	var logs, stdout, stderr bytes.Buffer
	s := testSettings(&logs)
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	err := runAnalyze(context.Background(), &stdout, &stderr, i, s,
		analyzeOptions{expr: "(def x 1) (inc x)", print: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "{:kind :def")
	assert.Contains(t, stdout.String(), "{:kind :call")
}

func TestRunAnalyze_ExprError(t *testing.T) {
	var logs, stdout, stderr bytes.Buffer
	s := testSettings(&logs)
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	err := runAnalyze(context.Background(), &stdout, &stderr, i, s,
		analyzeOptions{expr: "(let* [x 1] nope)"}, nil)
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, "1 error(s)", exit.Error())
	assert.Equal(t, "error[unresolved name]: unable to resolve symbol: nope\n"+
		"  --> <expr>:1:13\n"+
		"   |\n"+
		" 1 |  (let* [x 1] nope)\n"+
		"   |              ^^^^ not found in this scope\n"+
		"   |\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestRunAnalyze_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jank", "(def a 1)\n(inc a)\n")
	writeFile(t, dir, "sub/b_c.jank", "(def b a)\n")
	writeFile(t, dir, "gen/skip.jank", "(recur)\n")

	var logs, stdout, stderr bytes.Buffer
	s := testSettings(&logs)
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	// Each file is its own module, so b_c.jank cannot see a.
	err := runAnalyze(context.Background(), &stdout, &stderr, i, s,
		analyzeOptions{excludes: []string{"gen"}}, []string{dir + "/..."})
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, "1 error(s)", exit.Error())
	assert.Contains(t, stderr.String(), "unable to resolve symbol: a")
	assert.Contains(t, stderr.String(), "b_c.jank:1:8")
	assert.NotContains(t, stderr.String(), "recur")

	reg := do.MustInvoke[*namespace.Registry](i)
	_, ok := reg.Find(moduleNamespace(filepath.Join(dir, "a.jank")), "a")
	assert.True(t, ok)
}

func TestRunAnalyze_SingleFileUsesNamespace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "one.jank", "(def x 1)")
	var logs, stdout, stderr bytes.Buffer
	s := testSettings(&logs)
	s.Namespace = "app.core"
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	require.NoError(t, runAnalyze(context.Background(), &stdout, &stderr, i, s, analyzeOptions{}, []string{path}))
	_, ok := do.MustInvoke[*namespace.Registry](i).Find("app.core", "x")
	assert.True(t, ok)
}

func TestRunAnalyze_Usage(t *testing.T) {
	var logs, stdout, stderr bytes.Buffer
	s := testSettings(&logs)
	i := newInjector(s)
	defer i.Shutdown() //nolint:errcheck

	err := runAnalyze(context.Background(), &stdout, &stderr, i, s, analyzeOptions{}, nil)
	assert.EqualError(t, err, "no input files (use -e to analyze an expression)")

	err = runAnalyze(context.Background(), &stdout, &stderr, i, s, analyzeOptions{expr: "1"}, []string{"x.jank"})
	assert.EqualError(t, err, "cannot combine -e with file arguments")

	err = runAnalyze(context.Background(), &stdout, &stderr, i, s, analyzeOptions{},
		[]string{filepath.Join(t.TempDir(), "missing.jank")})
	assert.Error(t, err)
}

func TestRenderSpecials(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderSpecials(&out, []string{"let"}))
	text := out.String()
	assert.Contains(t, text, "special form let* (alias let)\n")
	assert.Contains(t, text, "  (let* [name value ...] body*)\n")

	out.Reset()
	require.NoError(t, renderSpecials(&out, nil))
	for _, sf := range analyze.SpecialForms() {
		assert.Contains(t, out.String(), "special form "+sf.Name)
	}

	assert.EqualError(t, renderSpecials(&out, []string{"defmacro"}), "defmacro is not a special form")
}

func TestRenderPasses(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderPasses(&out))
	assert.Contains(t, out.String(), "strip-source\n  Drop per-node source spans.")
}

func TestFormatDoc(t *testing.T) {
	doc := formatDoc("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen")
	for _, line := range bytes.Split([]byte(doc), []byte("\n")) {
		assert.True(t, bytes.HasPrefix(line, []byte("  ")))
		assert.LessOrEqual(t, len(line), docWidth+2)
	}
	assert.Equal(t, "", formatDoc("  "))
}

func TestGuideCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := GuideCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "# jank language reference")
}
