package lang

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/compose/lang/token"
)

// Pass is one evaluation of an invocation's block, for one combination of
// loop values.
type Pass struct {
	Bindings *Bindings
	// Combo holds the index of the selected value of each loop.
	Combo  []int
	Output token.Stream
	Index  int
}

// Expansion is the result of composing an invocation.
type Expansion struct {
	Invocation *Invocation
	Passes     []Pass
	Output     token.Stream
	Warnings   []Warning
}

// Text returns the source rendering of the expansion, one pass per line
// group.
func (x *Expansion) Text() string {
	parts := make([]string, 0, len(x.Passes))

	for _, p := range x.Passes {
		parts = append(parts, token.Format(p.Output))
	}

	return strings.Join(parts, "\n")
}

// Compose evaluates inv: every combination of its loop values is bound,
// its aliases are evaluated, and its block is rewritten. Passes run
// concurrently; output is in combination order.
//
// Any error is fatal and no partial expansion is returned. When several
// passes fail, the error of the earliest pass is returned.
func Compose(ctx context.Context, inv *Invocation, opts ...Option) (*Expansion, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return compose(ctx, cfg, inv, cfg.scope())
}

func compose(ctx context.Context, cfg *config, inv *Invocation, scope *Scope) (*Expansion, error) {
	if err := cfg.deprecations(ctx, inv.Warnings); err != nil {
		return nil, err
	}

	n := 1
	if len(inv.Loops) > 0 {
		n = countCombinations(inv.Loops)
	}

	passes := make([]*Pass, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	i := 0

	for combo := range cfg.combos(inv.Loops) {
		index := i
		i++

		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return context.Cause(gctx)
			}

			passes[index], errs[index] = cfg.pass(gctx, inv, scope, index, combo)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	x := &Expansion{Invocation: inv, Warnings: inv.Warnings}

	for _, p := range passes {
		if p == nil {
			continue
		}

		x.Passes = append(x.Passes, *p)
		x.Output = append(x.Output, p.Output...)
	}

	return x, nil
}

// combos yields the loop value combinations of one invocation. Without
// loops there is exactly one, empty combination.
func (c *config) combos(loops []Loop) iter.Seq[[]int] {
	if len(loops) == 0 {
		return func(yield func([]int) bool) { yield(nil) }
	}

	return combinations(loops)
}

// pass runs one evaluation pass. A nil pass with a nil error means the
// filter dropped it.
func (c *config) pass(
	ctx context.Context,
	inv *Invocation,
	scope *Scope,
	index int,
	combo []int,
) (*Pass, error) {
	c.logger.DebugContext(ctx, "pass started",
		slog.Int("pass", index),
		slog.Any("combination", combo),
	)

	b := NewBindings()
	pc := newPassContext(ctx, c, scope, b)

	if err := pc.bindLoops(inv.Loops, combo); err != nil {
		return nil, err
	}

	if err := pc.evalAliases(inv.Aliases); err != nil {
		return nil, err
	}

	keep, err := c.keep(index, b)
	if err != nil {
		return nil, err
	}

	if !keep {
		c.logger.DebugContext(ctx, "pass filtered", slog.Int("pass", index))

		return nil, nil //nolint:nilnil // dropped by filter
	}

	s := &substituter{ctx: ctx, cfg: c, bindings: b}

	out, err := s.block(inv.Block)
	if err != nil {
		return nil, err
	}

	return &Pass{Index: index, Combo: combo, Bindings: b, Output: out}, nil
}

// deprecations logs each warning, or returns the first as an error when
// deprecated syntax is disallowed.
func (c *config) deprecations(ctx context.Context, warnings []Warning) error {
	for _, w := range warnings {
		if !c.deprecated {
			return ErrParse.At(w.Span).Withf(w.Msg)
		}

		c.logger.WarnContext(ctx, w.Msg, spanAttrs(w.Span)...)
	}

	return nil
}
