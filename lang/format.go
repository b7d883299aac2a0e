package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatJSON writes the report as JSON to the writer.
func (r Report) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	results := []Result(r)
	if results == nil {
		results = []Result{}
	}

	if indent > 0 {
		jsonData, err = json.MarshalIndent(results, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(results)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the report as YAML to the writer.
func (r Report) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	docs := make([]siteDoc, 0, len(r))
	for _, res := range r {
		docs = append(docs, res.doc())
	}

	yamlData, err := yaml.MarshalContext(ctx, docs, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTree writes the report as an indented tree to the writer.
func (r Report) FormatTree(_ context.Context, w io.Writer, indent int) error {
	if indent < 1 {
		indent = 2
	}

	t := &treeWriter{w: w, indent: indent}

	for _, res := range r {
		d := res.doc()

		t.line(0, "%s! at %s:%d:%d", d.Macro, d.File, d.Line, d.Column)

		for _, l := range d.Loops {
			t.line(1, "for %s in [%s]", l.Pattern, strings.Join(l.Values, ", "))
		}

		for _, a := range d.Aliases {
			t.line(1, "%s = %s", a.Name, a.Expr)
		}

		for _, warn := range d.Warnings {
			t.line(1, "warning: %s", warn)
		}

		for _, p := range d.Passes {
			t.line(1, "pass %d %v", p.Index, p.Combination)

			for _, b := range p.Bindings {
				t.line(2, "%s: %s = %s", b.Name, b.Type, b.Value)
			}

			for ln := range strings.SplitSeq(p.Output, "\n") {
				t.line(2, "| %s", ln)
			}
		}
	}

	return t.err
}

// treeWriter writes indented lines, keeping the first error.
type treeWriter struct {
	w      io.Writer
	err    error
	indent int
}

func (t *treeWriter) line(depth int, format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.w, strings.Repeat(" ", depth*t.indent)+format+"\n", args...)
}
