package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/compose/lang"
)

// Fmt dumps the parsed invocations of a source file, with the bindings and
// output of every pass.
type Fmt struct {
	JSON JSON `cmd:"" default:"withargs" help:"Format as JSON (default)."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
	AST  AST  `cmd:""                    help:"Format as an indented tree."`
}

// Dump holds the flags shared by the fmt subcommands.
type Dump struct {
	Engine `embed:""`

	Indent int `default:"2" help:"Indent width of formatted output." short:"i"`

	Source string `arg:"" default:"-" help:"Source file, searched for in the include path, or '-' for stdin." name:"source"`
}

// report expands the source and returns the result of each invocation.
func (d *Dump) report(ctx context.Context) (lang.Report, error) {
	src, name, err := readSource(ctx, d.Source)
	if err != nil {
		return nil, err
	}

	x, err := d.expander(ctx)
	if err != nil {
		return nil, err
	}

	_, results, err := x.Inspect(ctx, name, src)
	if err != nil {
		printDiagnostics(streamsFrom(ctx).Err, err)

		return nil, err
	}

	return lang.Report(results), nil
}

// run formats the report with format and writes it to stdout.
func (d *Dump) run(
	ctx context.Context,
	kind string,
	format func(lang.Report, context.Context, io.Writer, int) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, err := d.report(ctx)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", kind))
	}

	var buf bytes.Buffer

	if err := format(r, ctx, &buf, d.Indent); err != nil {
		return lang.WrapError(err).With(slog.String("format", kind))
	}

	return writeOutput(ctx, stdinSource, buf.Bytes())
}

// JSON outputs the report as JSON.
type JSON struct{ Dump `embed:""` }

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return j.run(ctx, "json", lang.Report.FormatJSON)
}

// YAML outputs the report as YAML.
type YAML struct{ Dump `embed:""` }

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return y.run(ctx, "yaml", lang.Report.FormatYAML)
}

// AST outputs the report as an indented tree.
type AST struct{ Dump `embed:""` }

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return a.run(ctx, "ast", lang.Report.FormatTree)
}
