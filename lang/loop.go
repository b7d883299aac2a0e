package lang

import (
	"iter"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// Pattern is a loop variable: a name, or a tuple of patterns when Elems is
// non-nil. The name "_" binds nothing.
type Pattern struct {
	Name  string
	Elems []Pattern
	Span  token.Span
}

// Tuple reports whether p destructures a tuple.
func (p Pattern) Tuple() bool { return p.Elems != nil }

// String returns p as written.
func (p Pattern) String() string {
	if !p.Tuple() {
		return p.Name
	}

	s := "("
	for i, e := range p.Elems {
		if i > 0 {
			s += ", "
		}

		s += e.String()
	}

	return s + ")"
}

// LoopValue is one entry of a loop's value list: an expression, or a tuple
// of entries when Elems is non-nil.
type LoopValue struct {
	Expr   Expr
	Elems  []LoopValue
	Tokens token.Stream
	Span   token.Span
}

// Tuple reports whether v is a tuple of values.
func (v LoopValue) Tuple() bool { return v.Elems != nil }

// Loop is one "for pattern in [values]" clause of a repetition header.
type Loop struct {
	Pattern Pattern
	Values  []LoopValue
	Span    token.Span
}

// parsePattern parses a loop variable at the start of ts.
func parsePattern(ts token.Stream) (Pattern, int, error) {
	if len(ts) == 0 {
		return Pattern{}, 0, ErrParse.Withf("expected loop variable")
	}

	t := ts[0]

	switch {
	case t.IsGroup(token.Paren):
		p := Pattern{Elems: []Pattern{}, Span: t.Span}

		for _, part := range t.Children.Split(",") {
			e, n, err := parsePattern(part)
			if err != nil {
				return Pattern{}, 0, err
			}

			if n != len(part) {
				return Pattern{}, 0, ErrParse.At(part[n].Span).
					Withf("expected `,` in loop pattern, found " + part[n].String())
			}

			p.Elems = append(p.Elems, e)
		}

		return p, 1, nil

	case syntax.IsIdent(t) || t.IsIdent("_"):
		return Pattern{Name: t.Text, Span: t.Span}, 1, nil
	}

	return Pattern{}, 0, ErrParse.At(t.Span).
		Withf("expected loop variable, found " + t.String())
}

// parseLoopValues parses the contents of a loop's [...] value list.
func (p *exprParser) parseLoopValues(ts token.Stream) ([]LoopValue, error) {
	values := []LoopValue{}

	for i := 0; i < len(ts); {
		v, n, err := p.parseLoopValue(ts[i:])
		if err != nil {
			return nil, err
		}

		values = append(values, v)
		i += n

		if i < len(ts) {
			i++ // ','
		}
	}

	return values, nil
}

func (p *exprParser) parseLoopValue(ts token.Stream) (LoopValue, int, error) {
	if ts[0].IsGroup(token.Paren) && argTerminators.at(ts, 1) {
		elems, err := p.parseLoopValues(ts[0].Children)
		if err == nil && len(elems) != 1 {
			return LoopValue{
				Elems:  elems,
				Tokens: ts[:1],
				Span:   ts[0].Span,
			}, 1, nil
		}
	}

	e, n, err := p.parseExpr(ts, argTerminators)
	if err != nil {
		return LoopValue{}, 0, err
	}

	return LoopValue{Expr: e, Tokens: ts[:n], Span: e.Span()}, n, nil
}

// combinations yields every index vector of the Cartesian product of loops
// in row-major order: the last loop varies fastest.
func combinations(loops []Loop) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, l := range loops {
			if len(l.Values) == 0 {
				return
			}
		}

		idx := make([]int, len(loops))

		for {
			if !yield(append([]int(nil), idx...)) {
				return
			}

			k := len(loops) - 1
			for ; k >= 0; k-- {
				idx[k]++
				if idx[k] < len(loops[k].Values) {
					break
				}

				idx[k] = 0
			}

			if k < 0 {
				return
			}
		}
	}
}

// countCombinations returns the number of passes loops produce.
func countCombinations(loops []Loop) int {
	n := 1
	for _, l := range loops {
		n *= len(l.Values)
	}

	return n
}

// bindLoops evaluates the loop values selected by combo and binds them to
// their patterns, in loop order. A value may refer to outer loop variables.
func (pc *passContext) bindLoops(loops []Loop, combo []int) error {
	for i, l := range loops {
		if err := pc.bindValue(l.Pattern, l.Values[combo[i]]); err != nil {
			return err
		}
	}

	return nil
}

func (pc *passContext) bindValue(p Pattern, v LoopValue) error {
	switch {
	case p.Tuple() && !v.Tuple():
		return ErrTypeMismatch.At(v.Span).Withf(
			"cannot destructure " + token.Canonical(v.Tokens) + " as " + p.String())

	case p.Tuple():
		if len(p.Elems) != len(v.Elems) {
			return ErrTypeMismatch.At(v.Span).Withf(
				"tuple " + token.Canonical(v.Tokens) + " does not match " + p.String())
		}

		for i := range p.Elems {
			if err := pc.bindValue(p.Elems[i], v.Elems[i]); err != nil {
				return err
			}
		}

		return nil
	}

	var (
		val Value
		err error
	)

	if v.Tuple() {
		// A tuple bound to a plain name is a single value, such as (u8, u16).
		val, _, err = parseArg(v.Tokens, argTerminators)
	} else {
		val, err = pc.eval(v.Expr)
	}

	if err != nil {
		return err
	}

	if p.Name == "_" {
		return nil
	}

	return pc.bindings.Define(p.Name, val, p.Span)
}
