package lang

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// choice is the overload selected for one call node.
type choice struct {
	sig  *Signature
	cost int
}

// resolution is the side table of overload choices keyed by node id.
type resolution map[int]choice

// resolver selects overloads bottom-up by minimizing coercion cost.
type resolver struct {
	funcs    Funcs
	bindings *Bindings
}

// resolve returns the total coercion cost of e when its result must bind to
// expected, together with the choices made in e's subtree. A nil expected
// accepts any result type at no cost.
func (r *resolver) resolve(e Expr, expected *Type) (int, resolution, error) {
	switch e := e.(type) {
	case *Leaf:
		v := r.bindings.leaf(e)
		if expected == nil {
			return 0, nil, nil
		}

		cost, ok := Param{Type: *expected}.Accepts(v.Type)
		if !ok {
			return 0, nil, ErrTypeMismatch.At(e.Span()).Withf(
				"expected " + expected.String() + ", found " + v.Type.String())
		}

		return cost, nil, nil

	case *Call:
		return r.resolveCall(e, expected)
	}

	return 0, nil, ErrEval.Withf("unknown expression node")
}

type candidate struct {
	sig  *Signature
	res  resolution
	cost int
}

func (c candidate) less(d candidate) bool {
	ck, dk := c.key(), d.key()
	if n := slices.Compare(ck[:], dk[:]); n != 0 {
		return n < 0
	}

	return c.sig.order < d.sig.order
}

// key orders candidates by (cost, variadic, parameter count).
func (c candidate) key() [3]int {
	variadic := 0
	if c.sig.Variadic() {
		variadic = 1
	}

	return [3]int{c.cost, variadic, len(c.sig.Params)}
}

func (r *resolver) resolveCall(c *Call, expected *Type) (int, resolution, error) {
	f, ok := r.funcs[c.Name]
	if !ok {
		return 0, nil, ErrUndefinedFunction.At(c.name).Withf(c.Name + "(...)")
	}

	var cands []candidate

	for _, sig := range f.Signatures {
		cand, err := r.candidate(c, sig, expected)
		if err != nil {
			if hard(err) {
				return 0, nil, err
			}

			continue
		}

		cands = append(cands, cand)
	}

	if len(cands) == 0 {
		if c.Args == nil && c.ArgErr != nil {
			return 0, nil, c.ArgErr
		}

		return 0, nil, r.noMatch(f, c, expected)
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}

		return 0
	})

	if len(cands) > 1 && cands[0].key() == cands[1].key() {
		return 0, nil, ErrAmbiguousOverload.At(c.span).
			Withf(c.Name + cands[0].sig.String() + " and " +
				c.Name + cands[1].sig.String() + " both match").
			With(slog.String("function", c.Name))
	}

	best := cands[0]
	res := resolution{c.id: {sig: best.sig, cost: best.cost}}
	maps.Copy(res, best.res)

	return best.cost, res, nil
}

// candidate checks whether sig accepts the arguments of c and at what cost.
func (r *resolver) candidate(c *Call, sig *Signature, expected *Type) (candidate, error) {
	cand := candidate{sig: sig, res: resolution{}}

	if expected != nil {
		cost, ok := CoercionCost(sig.Return, *expected)
		if !ok {
			return candidate{}, ErrTypeMismatch
		}

		cand.cost += cost
	}

	if sig.raw() {
		return cand, nil
	}

	if c.Args == nil {
		return candidate{}, ErrUnparsableArgument
	}

	fixed := len(sig.fixed())
	if n := len(c.Args); n < fixed || !sig.Variadic() && n != fixed {
		return candidate{}, ErrNoMatchingOverload
	}

	for i, arg := range c.Args {
		p, _ := sig.param(i)
		want := p.Type

		cost, res, err := r.resolve(arg, &want)
		if err != nil {
			return candidate{}, err
		}

		if p.Variadic {
			cost *= 2
		}

		cand.cost += cost
		maps.Copy(cand.res, res)
	}

	return cand, nil
}

// hard reports whether err must abort resolution instead of ruling out a
// single overload.
func hard(err error) bool {
	return errors.Is(err, ErrUndefinedFunction) ||
		errors.Is(err, ErrAmbiguousOverload) ||
		errors.Is(err, ErrEval)
}

// noMatch builds the error for a call no overload accepts, listing the
// argument types and every available signature.
func (r *resolver) noMatch(f *Func, c *Call, expected *Type) error {
	types := make([]string, len(c.Args))
	for i, arg := range c.Args {
		types[i] = r.typeOf(arg).String()
	}

	msg := c.Name + "(" + strings.Join(types, ", ") + ")"
	if expected != nil {
		msg += " -> " + expected.String()
	}

	return ErrNoMatchingOverload.At(c.span).
		Withf(msg + "; available:\n" + indent(f.String())).
		With(
			slog.String("function", c.Name),
			slog.String("arguments", strings.Join(types, ", ")),
		)
}

// typeOf returns the unconstrained result type of e, or 0 if e does not
// resolve.
func (r *resolver) typeOf(e Expr) Type {
	switch e := e.(type) {
	case *Leaf:
		return r.bindings.leaf(e).Type
	case *Call:
		_, res, err := r.resolveCall(e, nil)
		if err != nil {
			return 0
		}

		return res[e.id].sig.Return
	}

	return 0
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// evaluate computes e bottom-up using the choices in res.
func (r *resolver) evaluate(env *env, e Expr, res resolution) (Value, error) {
	switch e := e.(type) {
	case *Leaf:
		return r.bindings.leaf(e), nil

	case *Call:
		ch, ok := res[e.id]
		if !ok {
			return Value{}, ErrEval.At(e.span).Withf("unresolved call " + e.Name)
		}

		var args []Value

		if ch.sig.raw() {
			raw := NewTokens(TypeRaw, e.Raw)
			raw.Span = e.span
			args = []Value{raw}
		} else {
			args = make([]Value, len(e.Args))

			for i, arg := range e.Args {
				v, err := r.evaluate(env, arg, res)
				if err != nil {
					return Value{}, err
				}

				args[i] = v
			}
		}

		env.logger.DebugContext(env.ctx, "overload chosen",
			slog.String("function", e.Name),
			slog.String("signature", ch.sig.String()),
			slog.Int("cost", ch.cost),
		)

		return ch.sig.impl(env, e.span, args)
	}

	return Value{}, ErrEval.Withf("unknown expression node")
}
