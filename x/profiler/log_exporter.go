// Copyright © 2026 The jank authors

package profiler

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes finished OpenTelemetry spans to a logger at debug
// level.
type LogExporter struct {
	Log *logrus.Entry
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := logrus.Fields{
			"span":     s.Name(),
			"trace_id": s.SpanContext().TraceID().String(),
			"duration": s.EndTime().Sub(s.StartTime()).String(),
		}
		if s.Parent().IsValid() {
			fields["parent_id"] = s.Parent().SpanID().String()
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		if desc := s.Status().Description; desc != "" {
			fields["error"] = desc
		}
		e.Log.WithFields(fields).Debug("span")
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// NewLogTracerProvider returns a tracer provider that samples every span and
// logs it synchronously through log.
func NewLogTracerProvider(log *logrus.Entry) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&LogExporter{Log: log}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
