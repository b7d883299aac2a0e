package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

// Check validates every invocation of a source file without writing the
// expansion.
type Check struct {
	Engine `embed:""`

	Source string `default:"-" help:"Source file, searched for in the include path, or '-' for stdin." short:"s"`
	Quiet  bool   `help:"Print nothing unless an invocation is invalid."                              short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, name, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	x, err := c.expander(ctx)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)

	_, results, err := x.Inspect(ctx, name, src)
	if err != nil {
		printDiagnostics(streams.Err, err)

		return ErrCheck.
			With(slog.String("source", name), slog.Int("errors", len(lang.Diagnostics(err)))).
			Wrap(err)
	}

	if !c.Quiet {
		for _, r := range results {
			c.summarize(streams.Out, r)
		}
	}

	log.DebugContext(ctx, "checked source",
		slog.String("source", name),
		slog.Int("invocations", len(results)),
	)

	return nil
}

// summarize writes one line describing the result r:
//
//	main.rs:3:1: compose!: 4 passes
func (c *Check) summarize(w io.Writer, r lang.Result) {
	label := r.Name + "!"
	if r.Name == c.Attribute {
		label = "#[" + r.Name + "]"
	}

	passes := 0
	if r.Expansion != nil {
		passes = len(r.Expansion.Passes)
	}

	unit := "passes"
	if passes == 1 {
		unit = "pass"
	}

	fmt.Fprintf(w, "%s:%d:%d: %s: %s %s\n",
		r.Span.Source().Name, r.Span.Start.Line, r.Span.Start.Column,
		label, strconv.Itoa(passes), unit)
}
