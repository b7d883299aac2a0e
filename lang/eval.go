package lang

import (
	"context"
	"log/slog"
)

// passContext holds the state of one evaluation pass.
type passContext struct {
	env      *env
	resolver *resolver
	bindings *Bindings
}

func newPassContext(ctx context.Context, cfg *config, scope *Scope, b *Bindings) *passContext {
	return &passContext{
		env:      &env{ctx: ctx, scope: scope, logger: cfg.logger},
		resolver: &resolver{funcs: cfg.funcs, bindings: b},
		bindings: b,
	}
}

// eval resolves then evaluates e against the pass's bindings.
func (pc *passContext) eval(e Expr) (Value, error) {
	_, res, err := pc.resolver.resolve(e, nil)
	if err != nil {
		return Value{}, err
	}

	return pc.resolver.evaluate(pc.env, e, res)
}

// evalAliases evaluates aliases in declaration order, binding each before
// the next is evaluated.
func (pc *passContext) evalAliases(aliases []Alias) error {
	for k, a := range aliases {
		if err := pc.checkForward(a, aliases[k:]); err != nil {
			return err
		}

		v, err := pc.eval(a.Expr)
		if err != nil {
			return err
		}

		if err := pc.bindings.Define(a.Name, v, a.Span); err != nil {
			return err
		}

		pc.env.logger.TraceContext(pc.env.ctx, "alias bound",
			slog.String("alias", a.Name),
			slog.Any("value", v),
		)
	}

	return nil
}

// checkForward rejects references from a's definition to a itself or to an
// alias declared after it.
func (pc *passContext) checkForward(a Alias, rest []Alias) error {
	later := make(map[string]bool, len(rest))

	for _, r := range rest {
		if _, bound := pc.bindings.Lookup(r.Name); !bound {
			later[r.Name] = true
		}
	}

	var err error

	walkLeaves(a.Expr, func(l *Leaf) bool {
		name, ok := aliasName(l.Value)
		if !ok || !later[name] {
			return true
		}

		msg := "alias \"" + a.Name + "\" refers to "
		if name == a.Name {
			msg += "itself"
		} else {
			msg += "\"" + name + "\", which is defined later"
		}

		err = ErrForwardAliasReference.At(l.Span()).Withf(msg).
			With(slog.String("alias", a.Name), slog.String("reference", name))

		return false
	})

	return err
}

// walkLeaves calls fn for each leaf of e in order until fn returns false.
func walkLeaves(e Expr, fn func(*Leaf) bool) bool {
	switch e := e.(type) {
	case *Leaf:
		return fn(e)
	case *Call:
		for _, arg := range e.Args {
			if !walkLeaves(arg, fn) {
				return false
			}
		}
	}

	return true
}

// Eval evaluates one mini-language expression against b. Identifiers naming
// a binding evaluate to its value.
func Eval(ctx context.Context, b *Bindings, text string, opts ...Option) (Value, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Value{}, err
	}

	e, err := ParseExpr("<eval>", text)
	if err != nil {
		return Value{}, err
	}

	if b == nil {
		b = NewBindings()
	}

	pc := newPassContext(ctx, cfg, cfg.scope(), b)

	return pc.eval(e)
}
