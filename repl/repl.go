// Copyright © 2026 The jank authors

// Package repl reads forms interactively and prints their analyzed trees.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/diagnostic"
	"github.com/jank-lang/jank-sub005/reader"
)

// SourceName names REPL input in source locations.
const SourceName = "<repl>"

type config struct {
	stdin     io.ReadCloser
	stderr    io.WriteCloser
	namespace string
	history   string
	color     diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	c := &config{
		namespace: compiler.DefaultNamespace,
		history:   historyPath(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*config)

// WithStdin overrides the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr overrides the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithNamespace sets the namespace input is analyzed in.
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithHistoryFile sets the readline history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithColor sets the color mode of error output.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// Run reads forms until end of input, analyzing each complete entry with d
// and printing the runtime data of the result.  Input spanning several lines
// is read until its forms are complete.
func Run(ctx context.Context, d *compiler.Driver, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	out := io.Writer(os.Stderr)
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{registry: d.Registry, namespace: cfg.namespace},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	cont := strings.Repeat(" ", len(prompt))
	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if buf.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
		text := buf.String()
		if _, err := reader.ReadString(SourceName, text); reader.IsIncomplete(err) {
			continue
		}
		buf.Reset()
		eval(ctx, out, d, cfg, text)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// eval analyzes text and writes the runtime data of each form, then any
// errors, to w.
func eval(ctx context.Context, w io.Writer, d *compiler.Driver, cfg *config, text string) {
	unit := d.AnalyzeSource(ctx, compiler.Source{
		Name:      SourceName,
		Namespace: cfg.namespace,
		Text:      text,
	})
	for _, e := range unit.Exprs {
		if e != nil {
			fmt.Fprintln(w, analyze.ToRuntimeData(e)) //nolint:errcheck // best-effort REPL output
		}
	}
	if err := unit.Err(); err != nil {
		renderError(w, cfg.color, text, err)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jank_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
