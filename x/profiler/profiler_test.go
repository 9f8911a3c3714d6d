// Copyright © 2026 The jank authors

package profiler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/x/profiler"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var loc = &form.Location{File: "test.jank", Line: 3, Col: 7}

func installTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestOpenTelemetryAnnotator(t *testing.T) {
	exporter := installTracerProvider(t)

	a := profiler.NewOpenTelemetryAnnotator()
	ctx, endUnit := a.Start(context.Background(), profiler.SpanUnit, nil)
	_, endForm := a.Start(ctx, profiler.SpanForm, loc)
	endForm(errors.New("boom"))
	endUnit(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, profiler.SpanForm, spans[0].Name)
	assert.Equal(t, profiler.SpanUnit, spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "test.jank", attrs["code.filepath"])
	assert.Equal(t, "3", attrs["code.lineno"])
}

func TestOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := installTracerProvider(t)

	a := profiler.NewOpenTelemetryAnnotator(profiler.OnlySpans(profiler.SpanPass))
	ctx, endUnit := a.Start(context.Background(), profiler.SpanUnit, nil)
	_, endPass := a.Start(ctx, profiler.SpanPass, nil)
	endPass(nil)
	endUnit(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, profiler.SpanPass, spans[0].Name)
}

type recordingExporter struct {
	mu    sync.Mutex
	spans []*octrace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *octrace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, sd)
}

func TestOpenCensusAnnotator(t *testing.T) {
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	exporter := &recordingExporter{}
	octrace.RegisterExporter(exporter)
	t.Cleanup(func() { octrace.UnregisterExporter(exporter) })

	a := profiler.NewOpenCensusAnnotator()
	_, end := a.Start(context.Background(), profiler.SpanAnalyze, loc)
	end(errors.New("bad form"))

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.spans, 1)
	sd := exporter.spans[0]
	assert.Equal(t, profiler.SpanAnalyze, sd.Name)
	assert.Equal(t, "test.jank", sd.Attributes["file"])
	assert.Equal(t, int64(3), sd.Attributes["line"])
	assert.Equal(t, "bad form", sd.Status.Message)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	got, end := profiler.Nop().Start(ctx, profiler.SpanUnit, loc)
	assert.Equal(t, ctx, got)
	end(nil)
}

func TestLogTracerProvider(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	tp := profiler.NewLogTracerProvider(logrus.NewEntry(logger))
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})
	otel.SetTracerProvider(tp)

	a := profiler.NewOpenTelemetryAnnotator()
	_, end := a.Start(context.Background(), profiler.SpanPass, loc)
	end(errors.New("failed"))

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "span", entries[0].Message)
	assert.Equal(t, profiler.SpanPass, entries[0].Data["span"])
	assert.Equal(t, "failed", entries[0].Data["error"])
	assert.Equal(t, "test.jank", entries[0].Data["code.filepath"])
}

func TestCensusLogExporter(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	exporter := &profiler.CensusLogExporter{Log: logrus.NewEntry(logger)}
	octrace.RegisterExporter(exporter)
	t.Cleanup(func() { octrace.UnregisterExporter(exporter) })

	a := profiler.NewOpenCensusAnnotator()
	ctx, endUnit := a.Start(context.Background(), profiler.SpanUnit, nil)
	_, endForm := a.Start(ctx, profiler.SpanForm, loc)
	endForm(errors.New("failed"))
	endUnit(nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "span", entries[0].Message)
	assert.Equal(t, profiler.SpanForm, entries[0].Data["span"])
	assert.Equal(t, "failed", entries[0].Data["error"])
	assert.Equal(t, "test.jank", entries[0].Data["file"])
	assert.Contains(t, entries[0].Data, "parent_id")
	assert.Equal(t, profiler.SpanUnit, entries[1].Data["span"])
	assert.NotContains(t, entries[1].Data, "parent_id")
}
