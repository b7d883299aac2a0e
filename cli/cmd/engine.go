package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

// Engine holds the flags shared by every command that expands sources.
type Engine struct {
	Seed       string   `help:"Pin the hash scope seed (decimal, or 0x, 0o, 0b prefixed)." placeholder:"N"`
	Where      string   `help:"Keep only passes whose bindings satisfy an expr predicate."  placeholder:"EXPR"`
	Macro      []string `default:"compose,compose_idents"                                   help:"Macro names to expand."                 sep:","`
	Attribute  string   `default:"compose_item"                                             help:"Attribute name to expand."`
	Workers    int      `default:"0"                                                        help:"Concurrent pass workers (0 for one per CPU)."`
	Strict     bool     `help:"Reject %name% markers that do not name an alias."`
	Deprecated bool     `default:"true"                                                     help:"Accept deprecated syntax with a warning." negatable:""`
}

// parseSeed parses a --seed flag. ok is false when no seed was given.
func parseSeed(s string) (seed uint64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}

	seed, err = strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, false, ErrInvalidSeed.With(slog.String("seed", s)).Wrap(err)
	}

	return seed, true, nil
}

// options returns the expansion options selected by the flags.
func (e *Engine) options(ctx context.Context) ([]lang.Option, error) {
	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithStrictFormat(e.Strict),
		lang.WithWorkers(e.Workers),
		lang.WithDeprecations(e.Deprecated),
		lang.WithFilter(e.Where),
	}

	if len(e.Macro) > 0 {
		opts = append(opts, lang.WithMacroNames(e.Macro...))
	}

	if e.Attribute != "" {
		opts = append(opts, lang.WithAttributeName(e.Attribute))
	}

	seed, ok, err := parseSeed(e.Seed)
	if err != nil {
		return nil, err
	}

	if ok {
		opts = append(opts, lang.WithSeed(seed))
	}

	log.DebugContext(ctx, "engine options",
		slog.Any("macro", e.Macro),
		slog.String("attribute", e.Attribute),
		slog.Bool("strict", e.Strict),
		slog.Int("workers", e.Workers),
		slog.String("where", e.Where),
		slog.Bool("seeded", ok),
	)

	return opts, nil
}

// expander returns an [lang.Expander] configured by the flags.
func (e *Engine) expander(ctx context.Context) (*lang.Expander, error) {
	opts, err := e.options(ctx)
	if err != nil {
		return nil, err
	}

	return lang.NewExpander(opts...), nil
}
