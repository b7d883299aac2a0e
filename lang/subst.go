package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// substituter rewrites a code block against one pass's bindings.
type substituter struct {
	ctx      context.Context
	cfg      *config
	bindings *Bindings
}

// block rewrites the statements of a code block. The block is decomposed
// into items and statements; each leaf is rewritten and re-validated on its
// own, and nested bodies are rewritten recursively. Errors from all leaves
// are joined.
func (s *substituter) block(ts token.Stream) (token.Stream, error) {
	pieces, err := syntax.Decompose(ts)
	if err != nil {
		return nil, ErrParse.Withf("code block").Wrap(err)
	}

	return s.pieces(pieces)
}

func (s *substituter) pieces(pieces []syntax.Piece) (token.Stream, error) {
	var (
		out  token.Stream
		errs []error
	)

	for _, pc := range pieces {
		switch {
		case pc.Nested():
			inner, err := s.pieces(pc.Inner)
			if err != nil {
				errs = append(errs, err)
			}

			out = append(out, pc.Tokens[0].WithChildren(inner))

		case pc.Cat == syntax.CatNone:
			out = append(out, pc.Tokens...)

		default:
			leaf, err := s.leaf(pc.Cat, pc.Tokens)
			if err != nil {
				errs = append(errs, err)
			}

			out = append(out, leaf...)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

// leaf rewrites one non-recursive construct of category cat, checking after
// every replacement that it still parses as cat.
func (s *substituter) leaf(cat syntax.Category, ts token.Stream) (token.Stream, error) {
	out, err := s.scan(cat, ts, func(ts token.Stream) token.Stream { return ts })
	if err != nil {
		return nil, err
	}

	s.cfg.logger.TraceContext(s.ctx, "substitution validated",
		slog.String("category", cat.String()),
		slog.Int("tokens", len(out)),
	)

	return out, nil
}

// scan rewrites ts, a sub-stream of the construct being rewritten. wrap
// rebuilds the whole construct around a rewritten ts so that it can be
// validated.
func (s *substituter) scan(
	cat syntax.Category,
	ts token.Stream,
	wrap func(token.Stream) token.Stream,
) (token.Stream, error) {
	out := make(token.Stream, 0, len(ts))

	for i, t := range ts {
		switch {
		case t.Kind == token.Group:
			prefix, rest := out, ts[i+1:]

			inner, err := s.scan(cat, t.Children, func(children token.Stream) token.Stream {
				return wrap(join(prefix, token.Stream{t.WithChildren(children)}, rest))
			})
			if err != nil {
				return nil, err
			}

			out = append(out, t.WithChildren(inner))

		case t.Kind == token.Ident && !t.Raw:
			v, ok := s.bindings.Lookup(t.Text)
			if !ok {
				out = append(out, t)

				continue
			}

			out = append(out, v.at(t.Span)...)

			if err := syntax.Check(cat, wrap(join(out, ts[i+1:]))); err != nil {
				return nil, ErrSubstitution.At(t.Span).
					Withf("replacing `"+t.Text+"` with `"+token.Canonical(v.Tokens)+
						"` breaks "+cat.String()).
					Wrap(err).
					With(
						slog.String("alias", t.Text),
						slog.String("replacement", token.Canonical(v.Tokens)),
					)
			}

		case t.Kind == token.Literal:
			lit, err := s.interpolateLiteral(t)
			if err != nil {
				return nil, err
			}

			out = append(out, lit)

		default:
			out = append(out, t)
		}
	}

	return out, nil
}

// join returns a new stream holding the concatenation of parts.
func join(parts ...token.Stream) token.Stream {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make(token.Stream, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
