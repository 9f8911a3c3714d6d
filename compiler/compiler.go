// Copyright © 2026 The jank authors

// Package compiler drives analysis of whole source units.  It reads each
// top-level form, analyzes it under a fresh root frame and runs the rewrite
// pipeline over the result.
package compiler

import (
	"context"
	"errors"
	"io"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/interop"
	"github.com/jank-lang/jank-sub005/namespace"
	"github.com/jank-lang/jank-sub005/reader"
	"github.com/jank-lang/jank-sub005/x/profiler"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/multierr"
)

// DefaultNamespace is the namespace of sources that do not name one.
const DefaultNamespace = "user"

// Source is the text of one compilation unit.
type Source struct {
	// Name identifies the source in locations, usually a file path.
	Name string
	// Namespace is the namespace the unit's globals resolve in.
	Namespace string
	Text      string
}

// Unit is the result of analyzing a Source.
type Unit struct {
	Source Source
	// Forms are the top-level forms read from the source, in order.
	Forms []*form.Form
	// Exprs holds the analyzed tree of each form.  The entry for a form
	// that failed analysis is nil.
	Exprs []analyze.Expr
	// Errors holds every analysis error followed by a reader error, if
	// reading stopped early.
	Errors []error
}

// Err returns the unit's errors combined, or nil.
func (u *Unit) Err() error {
	return multierr.Combine(u.Errors...)
}

// Driver analyzes source units.  A Driver is safe for concurrent use when
// its Log and Annotator are.
type Driver struct {
	Analyzer *analyze.Analyzer
	Registry *namespace.Registry
	// Pipeline runs after analysis of each form.  A nil Pipeline only
	// normalizes positions.
	Pipeline  *pass.Pipeline
	Annotator profiler.Annotator
	Log       *logrus.Entry
	// Position is the evaluation context of top-level forms.
	Position analyze.Position
}

// NewDriver returns a driver resolving foreign names with resolver and
// globals in registry.  Top-level forms are analyzed in return position.
func NewDriver(resolver *interop.Resolver, registry *namespace.Registry) *Driver {
	if registry == nil {
		registry = namespace.NewRegistry(namespace.DefaultCoreVars)
	}
	return &Driver{
		Analyzer: analyze.New(resolver),
		Registry: registry,
		Position: analyze.Return,
	}
}

func (d *Driver) annotator() profiler.Annotator {
	if d.Annotator == nil {
		return profiler.Nop()
	}
	return d.Annotator
}

func (d *Driver) logger() *logrus.Entry {
	if d.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return logrus.NewEntry(l)
	}
	return d.Log
}

// AnalyzeSource reads and analyzes every top-level form of src.  Analysis
// errors do not stop the unit.  A reader error ends it, keeping the results
// collected so far.
func (d *Driver) AnalyzeSource(ctx context.Context, src Source) *Unit {
	if src.Namespace == "" {
		src.Namespace = DefaultNamespace
	}
	unit := &Unit{Source: src}
	log := d.logger().WithField("unit", src.Name)
	ctx, endUnit := d.annotator().Start(ctx, profiler.SpanUnit+":"+src.Name, &form.Location{File: src.Name})
	defer func() { endUnit(unit.Err()) }()

	d.Registry.Create(src.Namespace)
	globals := d.Registry.Resolver(src.Namespace)
	p := reader.New(src.Name, src.Text)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			unit.Errors = append(unit.Errors, err)
			return unit
		}
		f, err := p.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.WithError(err).Debug("read failed")
			unit.Errors = append(unit.Errors, err)
			break
		}
		unit.Forms = append(unit.Forms, f)
		e, err := d.analyzeForm(ctx, f, globals)
		if err != nil {
			log.WithField("form", i).WithError(err).Debug("analysis failed")
			unit.Errors = append(unit.Errors, err)
		}
		unit.Exprs = append(unit.Exprs, e)
	}
	log.WithFields(logrus.Fields{
		"forms":  len(unit.Forms),
		"errors": len(unit.Errors),
	}).Debug("unit analyzed")
	return unit
}

func (d *Driver) analyzeForm(ctx context.Context, f *form.Form, globals analyze.Globals) (e analyze.Expr, err error) {
	ctx, endForm := d.annotator().Start(ctx, profiler.SpanForm, f.Source)
	defer func() { endForm(err) }()

	_, endAnalyze := d.annotator().Start(ctx, profiler.SpanAnalyze, f.Source)
	e, err = d.Analyzer.Analyze(f, analyze.NewRootFrame(globals), d.Position)
	endAnalyze(err)
	if err != nil {
		return nil, err
	}
	pipeline := d.Pipeline
	if pipeline == nil {
		pipeline = pass.NewPipeline()
	}
	if pipeline.Annotator == nil {
		cp := *pipeline
		cp.Annotator = d.annotator()
		pipeline = &cp
	}
	return pipeline.Run(ctx, e, d.Position)
}

// AnalyzeModules analyzes independent sources concurrently.  Units are
// returned in the order of sources.
func (d *Driver) AnalyzeModules(ctx context.Context, sources []Source) []*Unit {
	return iter.Map(sources, func(src *Source) *Unit {
		return d.AnalyzeSource(ctx, *src)
	})
}

// Errors returns the combined errors of units, or nil.
func Errors(units []*Unit) error {
	var err error
	for _, u := range units {
		err = multierr.Append(err, u.Err())
	}
	return err
}
