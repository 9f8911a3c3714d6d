// Copyright © 2026 The jank authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/diagnostic"
	"github.com/jank-lang/jank-sub005/interop"
	"github.com/jank-lang/jank-sub005/namespace"
	"github.com/jank-lang/jank-sub005/x/profiler"
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// settings are the configuration values shared by every command.
type settings struct {
	Color     string
	LogLevel  string
	Catalog   string
	Namespace string
	Passes    []string
	Trace     bool
	// TraceBackend selects the tracing library used when Trace is set.
	TraceBackend string
	// ConfigFile is the config file that was read, if any.
	ConfigFile string
	// LogOutput receives log entries.  Commands never log to stdout because
	// the language server speaks its protocol there.
	LogOutput io.Writer
}

func loadSettings(v *viper.Viper) settings {
	ns := v.GetString("ns")
	if ns == "" {
		ns = compiler.DefaultNamespace
	}
	return settings{
		Color:        v.GetString("color"),
		LogLevel:     v.GetString("log-level"),
		Catalog:      v.GetString("catalog"),
		Namespace:    ns,
		Passes:       v.GetStringSlice("passes"),
		Trace:        v.GetBool("trace"),
		TraceBackend: v.GetString("trace-backend"),
		ConfigFile:   v.ConfigFileUsed(),
		LogOutput:    os.Stderr,
	}
}

// colorMode returns the configured color mode.  Unknown values fall back to
// auto detection.
func (s settings) colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(s.Color)
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

// Values of --trace-backend.
const (
	traceOpenTelemetry = "otel"
	traceOpenCensus    = "opencensus"
)

// tracing owns the tracer provider or exporter installed by --trace.  The
// injector flushes it on shutdown.
type tracing struct {
	provider  *sdktrace.TracerProvider
	exporter  octrace.Exporter
	annotator profiler.Annotator
}

// Shutdown implements do.Shutdownable.
func (t *tracing) Shutdown() error {
	if t.exporter != nil {
		octrace.UnregisterExporter(t.exporter)
	}
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(context.Background())
}

// newInjector registers the services the commands are assembled from.
// Services are built lazily on first use.
func newInjector(s settings) *do.Injector {
	i := do.New()
	do.ProvideValue(i, s)
	do.Provide(i, provideLogger)
	do.Provide(i, provideResolver)
	do.Provide(i, provideRegistry)
	do.Provide(i, providePipeline)
	do.Provide(i, provideTracing)
	do.Provide(i, provideDriver)
	return i
}

func provideLogger(i *do.Injector) (*logrus.Entry, error) {
	s := do.MustInvoke[settings](i)
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(s.LogOutput)
	logger.SetLevel(level)
	log := logrus.NewEntry(logger)
	if s.ConfigFile != "" {
		log.WithField("config", s.ConfigFile).Debug("using config file")
	}
	return log, nil
}

func provideResolver(i *do.Injector) (*interop.Resolver, error) {
	s := do.MustInvoke[settings](i)
	if s.Catalog == "" {
		return interop.NewResolver(interop.NewCatalog()), nil
	}
	c, err := interop.LoadCatalog(s.Catalog)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*logrus.Entry](i)
	if err != nil {
		return nil, err
	}
	log.WithField("catalog", s.Catalog).WithField("types", len(c.TypeNames())).Debug("loaded catalog")
	return interop.NewResolver(c), nil
}

func provideRegistry(i *do.Injector) (*namespace.Registry, error) {
	s := do.MustInvoke[settings](i)
	reg := namespace.NewRegistry(namespace.DefaultCoreVars)
	reg.Create(s.Namespace)
	return reg, nil
}

func providePipeline(i *do.Injector) (*pass.Pipeline, error) {
	s := do.MustInvoke[settings](i)
	passes, err := pass.Select(s.Passes)
	if err != nil {
		return nil, err
	}
	return pass.NewPipeline(passes...), nil
}

func provideTracing(i *do.Injector) (*tracing, error) {
	s := do.MustInvoke[settings](i)
	if !s.Trace {
		return &tracing{annotator: profiler.Nop()}, nil
	}
	log, err := do.Invoke[*logrus.Entry](i)
	if err != nil {
		return nil, err
	}
	// Spans are logged at debug level, which --trace implies.
	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		log.Logger.SetLevel(logrus.DebugLevel)
	}
	log = log.WithField("component", "trace")
	switch s.TraceBackend {
	case traceOpenTelemetry, "":
		tp := profiler.NewLogTracerProvider(log)
		otel.SetTracerProvider(tp)
		return &tracing{provider: tp, annotator: profiler.NewOpenTelemetryAnnotator()}, nil
	case traceOpenCensus:
		exp := &profiler.CensusLogExporter{Log: log}
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		octrace.RegisterExporter(exp)
		return &tracing{exporter: exp, annotator: profiler.NewOpenCensusAnnotator()}, nil
	default:
		return nil, fmt.Errorf("unknown trace backend %q (want %s or %s)", s.TraceBackend, traceOpenTelemetry, traceOpenCensus)
	}
}

func provideDriver(i *do.Injector) (*compiler.Driver, error) {
	resolver, err := do.Invoke[*interop.Resolver](i)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	registry, err := do.Invoke[*namespace.Registry](i)
	if err != nil {
		return nil, err
	}
	pipeline, err := do.Invoke[*pass.Pipeline](i)
	if err != nil {
		return nil, err
	}
	tr, err := do.Invoke[*tracing](i)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*logrus.Entry](i)
	if err != nil {
		return nil, err
	}
	d := compiler.NewDriver(resolver, registry)
	d.Pipeline = pipeline
	d.Annotator = tr.annotator
	d.Log = log
	return d, nil
}

// withServices builds the injector for a command run and shuts it down when
// fn returns.
func withServices(fn func(i *do.Injector, s settings) error) error {
	s := loadSettings(viper.GetViper())
	i := newInjector(s)
	err := fn(i, s)
	if serr := i.Shutdown(); serr != nil && err == nil {
		err = serr
	}
	return err
}
