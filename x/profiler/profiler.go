// Copyright © 2026 The jank authors

// Package profiler annotates analysis work with tracing spans.
//
// The compiler driver opens a span per compilation unit, per top-level form
// and per rewrite pass.  Annotators forward those spans to a tracing system.
package profiler

import (
	"context"
	"strings"

	"github.com/jank-lang/jank-sub005/form"
)

// Span names used by the compiler.
const (
	SpanUnit    = "unit"
	SpanForm    = "form"
	SpanAnalyze = "analyze"
	SpanPass    = "pass"
)

// Annotator starts spans.  The returned function ends the span and records
// err, which may be nil.
type Annotator interface {
	Start(ctx context.Context, name string, loc *form.Location) (context.Context, func(err error))
}

// SkipFilter returns true for span names that should not be traced.
type SkipFilter func(name string) bool

// Option configures an annotator.
type Option func(*profiler)

// profiler holds the configuration shared by annotators.
type profiler struct {
	tracerName string
	skipFilter SkipFilter
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) skipTrace(name string) bool {
	return p.skipFilter != nil && p.skipFilter(name)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithTracerName sets the instrumentation name of the tracer.
func WithTracerName(name string) Option {
	return func(p *profiler) {
		p.tracerName = name
	}
}

// OnlySpans traces only spans of the named kinds.  A span named
// "pass:strip-source" is of kind "pass".
func OnlySpans(kinds ...string) Option {
	keep := make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		keep[kind] = true
	}
	return WithSkipFilter(func(name string) bool {
		return !keep[SpanKind(name)]
	})
}

// SpanKind returns the part of a span name before the first colon.
func SpanKind(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return name
}

type nopAnnotator struct{}

// Nop returns an annotator that records nothing.
func Nop() Annotator {
	return nopAnnotator{}
}

func (nopAnnotator) Start(ctx context.Context, _ string, _ *form.Location) (context.Context, func(error)) {
	return ctx, func(error) {}
}

func sourceOf(loc *form.Location) (file string, line, col int) {
	if loc == nil {
		return "no-source", 0, 0
	}
	return loc.File, loc.Line, loc.Col
}
