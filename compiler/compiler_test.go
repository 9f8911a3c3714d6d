// Copyright © 2026 The jank authors

package compiler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/reader"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestAnalyzeSource(t *testing.T) {
	d := NewDriver(nil, nil)
	unit := d.AnalyzeSource(context.Background(), Source{
		Name: "core.jank",
		Text: `(def x 1) (inc x) (if x 1 2)`,
	})
	require.NoError(t, unit.Err())
	require.Len(t, unit.Forms, 3)
	require.Len(t, unit.Exprs, 3)
	assert.Equal(t, DefaultNamespace, unit.Source.Namespace)

	assert.Equal(t, analyze.KindDef, unit.Exprs[0].Kind())
	call := unit.Exprs[1].(*analyze.Call)
	assert.Equal(t, "#'clojure.core/inc", call.Fn.(*analyze.VarRef).Var.String())
	x := call.Args[0].(*analyze.VarRef)
	assert.Equal(t, "#'user/x", x.Var.String())

	for _, e := range unit.Exprs {
		assert.Equal(t, analyze.Return, e.Common().Position)
	}
	iff := unit.Exprs[2].(*analyze.If)
	assert.Equal(t, analyze.Return, iff.Then.Common().Position)
}

func TestAnalyzeSource_Errors(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	d := NewDriver(nil, nil)
	d.Log = logrus.NewEntry(logger)

	unit := d.AnalyzeSource(context.Background(), Source{
		Name:      "broken.jank",
		Namespace: "app",
		Text:      `(nope 1) (recur) 3 (do`,
	})
	require.Len(t, unit.Forms, 3)
	require.Len(t, unit.Exprs, 3)
	assert.Nil(t, unit.Exprs[0])
	assert.Nil(t, unit.Exprs[1])
	assert.NotNil(t, unit.Exprs[2])

	errs := multierr.Errors(unit.Err())
	require.Len(t, errs, 3)
	assert.True(t, analyze.IsKind(errs[0], analyze.UnresolvedNameError))
	assert.True(t, analyze.IsKind(errs[1], analyze.RecursionTargetError))
	var rerr *reader.Error
	assert.True(t, errors.As(errs[2], &rerr), "got %T", errs[2])
	assert.True(t, reader.IsIncomplete(errs[2]))

	var failures int
	for _, entry := range hook.AllEntries() {
		if entry.Data["unit"] == "broken.jank" && entry.Data[logrus.ErrorKey] != nil {
			failures++
		}
	}
	assert.Equal(t, 3, failures)
}

func TestAnalyzeSource_Pipeline(t *testing.T) {
	d := NewDriver(nil, nil)
	d.Pipeline = pass.NewPipeline(pass.StripSource)
	unit := d.AnalyzeSource(context.Background(), Source{Name: "a.jank", Text: `(do 1 2)`})
	require.NoError(t, unit.Err())
	pass.WalkPre(unit.Exprs[0], func(e analyze.Expr, _ int) bool {
		assert.Nil(t, e.Common().Source)
		return true
	})
	assert.NotNil(t, unit.Forms[0].Source)
}

func TestAnalyzeSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	unit := NewDriver(nil, nil).AnalyzeSource(ctx, Source{Name: "a.jank", Text: `1 2`})
	assert.Empty(t, unit.Forms)
	assert.ErrorIs(t, unit.Err(), context.Canceled)
}

func TestAnalyzeModules(t *testing.T) {
	d := NewDriver(nil, nil)
	var sources []Source
	for i := 0; i < 16; i++ {
		sources = append(sources, Source{
			Name:      fmt.Sprintf("mod%d.jank", i),
			Namespace: fmt.Sprintf("mod%d", i),
			Text:      fmt.Sprintf(`(def v%d %d) (fn* [a] (inc v%d))`, i, i, i),
		})
	}
	sources = append(sources, Source{Name: "bad.jank", Namespace: "bad", Text: `v0`})

	units := d.AnalyzeModules(context.Background(), sources)
	require.Len(t, units, len(sources))
	for i, u := range units[:16] {
		assert.Equal(t, sources[i].Name, u.Source.Name)
		require.NoError(t, u.Err())
		require.Len(t, u.Exprs, 2)
		def := u.Exprs[0].(*analyze.Def)
		assert.Equal(t, fmt.Sprintf("#'mod%d/v%d", i, i), def.Var.String())
	}
	bad := units[16]
	assert.True(t, analyze.IsKind(bad.Err(), analyze.UnresolvedNameError))

	err := Errors(units)
	assert.Len(t, multierr.Errors(err), 1)
}
