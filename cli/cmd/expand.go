package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/compose/log"
)

// Expand rewrites a source file, replacing every invocation with its
// expansion.
type Expand struct {
	Engine `embed:""`

	Source string `default:"-" help:"Source file, searched for in the include path, or '-' for stdin." short:"s"`
	Output string `default:"-" help:"Output file or '-' for stdout."                                  short:"o" type:"path"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, name, err := readSource(ctx, e.Source)
	if err != nil {
		return err
	}

	x, err := e.expander(ctx)
	if err != nil {
		return err
	}

	out, err := x.Expand(ctx, name, src)
	if err != nil {
		printDiagnostics(streamsFrom(ctx).Err, err)

		return err
	}

	log.DebugContext(ctx, "expanded source",
		slog.String("source", name),
		slog.Int("source_bytes", len(src)),
		slog.Int("output_bytes", len(out)),
	)

	return writeOutput(ctx, e.Output, out)
}
