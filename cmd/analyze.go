// Copyright © 2026 The jank authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// exprSourceName names the unit of an expression given with -e.
const exprSourceName = "<expr>"

type analyzeOptions struct {
	expr     string
	print    bool
	excludes []string
}

// AnalyzeCommand creates the "analyze" cobra command.
func AnalyzeCommand() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [flags] [files...]",
		Short: "Analyze jank source files and report errors",
		Long: `Analyze jank source files and report every analysis error.

Each top-level form is analyzed on its own, so one bad form does not hide
errors in the forms after it. A read error (e.g. an unclosed paren) ends
the analysis of its file.

A single file, or an expression given with -e, is analyzed in the
namespace set with --ns. When several files are given each is an
independent module in a namespace derived from its path, so
src/app/core_util.jank is analyzed in src.app.core-util. Modules are
analyzed concurrently.

Use the /... suffix to analyze every .jank file in a directory tree.

Examples:
  jankc analyze core.jank                Analyze a file
  jankc analyze ./src/...                Analyze a directory tree
  jankc analyze --exclude gen ./...      Skip files under any gen directory
  jankc analyze -e '(let* [x 1] (inc x))' Analyze an expression
  jankc analyze --print -e '(inc 1)'     Print the analyzed tree as data
  jankc analyze --catalog std.toml x.jank Resolve cpp/ symbols against a catalog

Exit status is 1 when any error is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(i *do.Injector, s settings) error {
				return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), i, s, opts, args)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "Analyze an expression instead of files")
	cmd.Flags().BoolVar(&opts.print, "print", false, "Print the runtime data of every analyzed form")
	cmd.Flags().StringSliceVar(&opts.excludes, "exclude", nil,
		"Skip files whose path, name or directory matches a glob pattern")
	return cmd
}

func init() {
	rootCmd.AddCommand(AnalyzeCommand())
}

func runAnalyze(ctx context.Context, stdout, stderr io.Writer, i *do.Injector, s settings, opts analyzeOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sources, err := analyzeSources(s, opts, args)
	if err != nil {
		return err
	}
	d, err := do.Invoke[*compiler.Driver](i)
	if err != nil {
		return err
	}

	var units []*compiler.Unit
	if len(sources) == 1 {
		units = []*compiler.Unit{d.AnalyzeSource(ctx, sources[0])}
	} else {
		units = d.AnalyzeModules(ctx, sources)
	}

	if opts.print {
		for _, u := range units {
			for _, e := range u.Exprs {
				if e != nil {
					fmt.Fprintln(stdout, analyze.ToRuntimeData(e)) //nolint:errcheck // best-effort output
				}
			}
		}
	}
	if n := renderUnits(stderr, s, units); n > 0 {
		return &exitError{msg: fmt.Sprintf("%d error(s)", n)}
	}
	return nil
}

func analyzeSources(s settings, opts analyzeOptions, args []string) ([]compiler.Source, error) {
	if opts.expr != "" {
		if len(args) > 0 {
			return nil, errors.New("cannot combine -e with file arguments")
		}
		return []compiler.Source{{Name: exprSourceName, Namespace: s.Namespace, Text: opts.expr}}, nil
	}
	if len(args) == 0 {
		return nil, errors.New("no input files (use -e to analyze an expression)")
	}
	paths, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	paths = filterExcludes(paths, opts.excludes)
	if len(paths) == 0 {
		return nil, errors.New("no .jank files matched")
	}
	sources := make([]compiler.Source, 0, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path) //nolint:gosec // reads user-specified source files
		if err != nil {
			return nil, err
		}
		ns := s.Namespace
		if len(paths) > 1 {
			ns = moduleNamespace(path)
		}
		sources = append(sources, compiler.Source{Name: path, Namespace: ns, Text: string(text)})
	}
	return sources, nil
}
