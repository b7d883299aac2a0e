package lang

import (
	"encoding/json"

	"github.com/ardnew/compose/lang/token"
)

// Report is the inspectable outcome of the sites of one source.
type Report []Result

// The document types are the serialized form of a [Result]. Field order is
// output order.
//nolint:govet // fieldalignment
type (
	siteDoc struct {
		File     string     `json:"file" yaml:"file"`
		Line     int        `json:"line" yaml:"line"`
		Column   int        `json:"column" yaml:"column"`
		Macro    string     `json:"macro" yaml:"macro"`
		Cached   bool       `json:"cached" yaml:"cached"`
		Loops    []loopDoc  `json:"loops,omitempty" yaml:"loops,omitempty"`
		Aliases  []aliasDoc `json:"aliases,omitempty" yaml:"aliases,omitempty"`
		Block    string     `json:"block" yaml:"block"`
		Passes   []passDoc  `json:"passes" yaml:"passes"`
		Warnings []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	}

	loopDoc struct {
		Pattern string   `json:"pattern" yaml:"pattern"`
		Values  []string `json:"values" yaml:"values"`
	}

	aliasDoc struct {
		Name string `json:"name" yaml:"name"`
		Expr string `json:"expr" yaml:"expr"`
	}

	passDoc struct {
		Index       int          `json:"index" yaml:"index"`
		Combination []int        `json:"combination" yaml:"combination,flow"`
		Bindings    []bindingDoc `json:"bindings" yaml:"bindings"`
		Output      string       `json:"output" yaml:"output"`
	}

	bindingDoc struct {
		Name  string `json:"name" yaml:"name"`
		Type  string `json:"type" yaml:"type"`
		Value string `json:"value" yaml:"value"`
	}
)

// MarshalJSON implements json.Marshaler for Result.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Result.
func (r Result) MarshalYAML() (any, error) {
	return r.doc(), nil
}

func (r Result) doc() siteDoc {
	inv := r.Expansion.Invocation

	d := siteDoc{
		Macro:  r.Name,
		Block:  token.Format(inv.Block),
		Passes: []passDoc{},
		Cached: r.Cached,
	}

	if r.Span.IsValid() {
		d.File = r.Span.Source().Name
		d.Line = r.Span.Start.Line
		d.Column = r.Span.Start.Column
	}

	for _, l := range inv.Loops {
		ld := loopDoc{Pattern: l.Pattern.String(), Values: []string{}}
		for _, v := range l.Values {
			ld.Values = append(ld.Values, token.Canonical(v.Tokens))
		}

		d.Loops = append(d.Loops, ld)
	}

	for _, a := range inv.Aliases {
		d.Aliases = append(d.Aliases, aliasDoc{Name: a.Name, Expr: ExprString(a.Expr)})
	}

	for _, p := range r.Expansion.Passes {
		pd := passDoc{
			Index:       p.Index,
			Combination: p.Combo,
			Output:      token.Format(p.Output),
			Bindings:    []bindingDoc{},
		}

		for _, b := range p.Bindings.List() {
			pd.Bindings = append(pd.Bindings, bindingDoc{
				Name:  b.Name,
				Type:  b.Value.Type.String(),
				Value: b.Value.Text(),
			})
		}

		d.Passes = append(d.Passes, pd)
	}

	for _, w := range r.Expansion.Warnings {
		d.Warnings = append(d.Warnings, w.String())
	}

	return d
}

// ExprString returns e as written in its source.
func ExprString(e Expr) string {
	if text := e.Span().Text(); text != "" {
		return text
	}

	switch e := e.(type) {
	case *Leaf:
		return token.Canonical(e.Value.Tokens)
	case *Call:
		s := e.Name + "("
		for i, a := range e.Args {
			if i > 0 {
				s += ", "
			}

			s += ExprString(a)
		}

		return s + ")"
	}

	return ""
}
