// Copyright © 2026 The jank authors

package pass

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/x/profiler"
)

// Pass is one rewrite of an expression tree.
type Pass struct {
	// Name is a short identifier for the pass (e.g. "strip-source").
	Name string

	// Doc is a human-readable description.  The first line is a short
	// summary.
	Doc string

	// Run returns the rewritten root.  It must not mutate nodes reachable
	// from root and should return root itself when nothing changes.
	Run func(ctx context.Context, root analyze.Expr) (analyze.Expr, error)
}

// StripSource drops the source spans of every node.
var StripSource = &Pass{
	Name: "strip-source",
	Doc: `Drop per-node source spans.

Run once diagnostics for a tree can no longer be produced.`,
	Run: func(_ context.Context, root analyze.Expr) (analyze.Expr, error) {
		return StripSourceMeta(root), nil
	},
}

// DefaultPasses returns the passes run by Optimize, in order.
func DefaultPasses() []*Pass {
	return []*Pass{StripSource}
}

var registry = map[string]*Pass{
	StripSource.Name: StripSource,
}

// Lookup returns the known pass called name.
func Lookup(name string) (*Pass, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns the names of all known passes, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named passes in order.  Unknown names are an error.
func Select(names []string) ([]*Pass, error) {
	passes := make([]*Pass, 0, len(names))
	for _, name := range names {
		p, ok := Lookup(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown pass %q (known passes: %s)", name, strings.Join(Names(), ", "))
		}
		passes = append(passes, p)
	}
	return passes, nil
}

// Pipeline runs passes in sequence, each consuming the previous result.
type Pipeline struct {
	Passes    []*Pass
	Annotator profiler.Annotator
}

// NewPipeline returns a pipeline running passes.
func NewPipeline(passes ...*Pass) *Pipeline {
	return &Pipeline{Passes: passes}
}

// Run positions root at pos and then applies every pass in order.  A nil
// root is returned unchanged.
func (p *Pipeline) Run(ctx context.Context, root analyze.Expr, pos analyze.Position) (analyze.Expr, error) {
	if root == nil {
		return nil, nil
	}
	annotator := p.Annotator
	if annotator == nil {
		annotator = profiler.Nop()
	}
	root = PropagatePosition(root, pos)
	for _, ps := range p.Passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pctx, end := annotator.Start(ctx, profiler.SpanPass+":"+ps.Name, root.Common().Source)
		next, err := ps.Run(pctx, root)
		if err == nil && next == nil {
			err = fmt.Errorf("pass returned no tree")
		}
		end(err)
		if err != nil {
			return nil, fmt.Errorf("pass %s: %w", ps.Name, err)
		}
		root = next
	}
	return root, nil
}

// Optimize runs the default passes over root without changing its
// position.
func Optimize(ctx context.Context, root analyze.Expr) (analyze.Expr, error) {
	if root == nil {
		return nil, nil
	}
	return NewPipeline(DefaultPasses()...).Run(ctx, root, root.Common().Position)
}
