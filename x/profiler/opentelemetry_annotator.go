// Copyright © 2026 The jank authors

package profiler

import (
	"context"

	"github.com/jank-lang/jank-sub005/form"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextTracerKey struct{}

// ContextOpenTelemetryTracerKey is the context key holding a tracer name
// that overrides the annotator's own.
var ContextOpenTelemetryTracerKey = contextTracerKey{}

const defaultTracerName = "jank"

type otelAnnotator struct {
	profiler
}

var _ Annotator = &otelAnnotator{}

// NewOpenTelemetryAnnotator returns an annotator that records spans with the
// global OpenTelemetry tracer provider.
func NewOpenTelemetryAnnotator(opts ...Option) Annotator {
	p := &otelAnnotator{profiler: profiler{tracerName: defaultTracerName}}
	p.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) tracer(ctx context.Context) trace.Tracer {
	name, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		name = p.tracerName
	}
	return otel.GetTracerProvider().Tracer(name)
}

func (p *otelAnnotator) Start(ctx context.Context, name string, loc *form.Location) (context.Context, func(error)) {
	if p.skipTrace(name) {
		return ctx, func(error) {}
	}
	ctx, span := p.tracer(ctx).Start(ctx, name)
	file, line, col := sourceOf(loc)
	span.SetAttributes(
		semconv.CodeFilepath(file),
		semconv.CodeLineNumber(line),
		semconv.CodeColumn(col),
		attribute.String("jank.span", name),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
