// Copyright © 2026 The jank authors

package profiler

import (
	"context"

	"github.com/jank-lang/jank-sub005/form"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
}

var _ Annotator = &ocAnnotator{}

// NewOpenCensusAnnotator returns an annotator that records OpenCensus spans.
// Exporters and sampling are configured globally with the trace package.
func NewOpenCensusAnnotator(opts ...Option) Annotator {
	p := &ocAnnotator{}
	p.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Start(ctx context.Context, name string, loc *form.Location) (context.Context, func(error)) {
	if p.skipTrace(name) {
		return ctx, func(error) {}
	}
	ctx, span := trace.StartSpan(ctx, name)
	file, line, _ := sourceOf(loc)
	span.AddAttributes(
		trace.StringAttribute("file", file),
		trace.Int64Attribute("line", int64(line)),
	)
	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		}
		span.End()
	}
}

// CensusLogExporter writes finished OpenCensus spans to a logger at debug
// level.
type CensusLogExporter struct {
	Log *logrus.Entry
}

var _ trace.Exporter = (*CensusLogExporter)(nil)

// ExportSpan implements trace.Exporter.
func (e *CensusLogExporter) ExportSpan(sd *trace.SpanData) {
	fields := logrus.Fields{
		"span":     sd.Name,
		"trace_id": sd.TraceID.String(),
		"duration": sd.EndTime.Sub(sd.StartTime).String(),
	}
	if sd.ParentSpanID != (trace.SpanID{}) {
		fields["parent_id"] = sd.ParentSpanID.String()
	}
	for k, v := range sd.Attributes {
		fields[k] = v
	}
	if sd.Status.Message != "" {
		fields["error"] = sd.Status.Message
	}
	e.Log.WithFields(fields).Debug("span")
}
