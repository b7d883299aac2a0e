package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// site is one invocation found in a source.
type site struct {
	args token.Stream
	// item is the annotated item of the attribute form, nil otherwise.
	item token.Stream
	name string
	span token.Span
}

// Expander rewrites every invocation in a source file with its expansion.
type Expander struct {
	cfg *config
	err error
}

// NewExpander returns an [Expander] configured by opts. An invalid option,
// such as a filter that does not compile, is reported by each call to
// [Expander.Expand].
func NewExpander(opts ...Option) *Expander {
	cfg, err := newConfig(opts...)

	return &Expander{cfg: cfg, err: err}
}

// Result is the outcome of expanding one invocation site.
type Result struct {
	Expansion *Expansion
	Name      string
	Span      token.Span
	Cached    bool
}

// Expand returns src with every invocation replaced by its expansion.
// Expansions may contain invocations; rewriting repeats until none remain,
// up to [DefaultMaxRounds] rounds.
//
// Errors from all sites of a round are joined; no partial output is
// returned.
func (x *Expander) Expand(ctx context.Context, name string, src []byte) ([]byte, error) {
	return x.expand(ctx, name, src, nil)
}

// ExpandReader reads a source from r and expands it.
func (x *Expander) ExpandReader(ctx context.Context, name string, r io.Reader) ([]byte, error) {
	if x.err != nil {
		return nil, x.err
	}

	src, err := ReadSource(ctx, name, r, x.cfg.logger)
	if err != nil {
		return nil, err
	}

	return x.Expand(ctx, name, src)
}

// Inspect expands src like [Expander.Expand] and also returns the result of
// every site expanded in the first round, in source order.
func (x *Expander) Inspect(ctx context.Context, name string, src []byte) ([]byte, []Result, error) {
	var results []Result

	out, err := x.expand(ctx, name, src, func(r Result) {
		results = append(results, r)
	})

	return out, results, err
}

func (x *Expander) expand(
	ctx context.Context,
	name string,
	src []byte,
	report func(Result),
) ([]byte, error) {
	if x.err != nil {
		return nil, x.err
	}

	count := 0

	for round := range DefaultMaxRounds + 1 {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}

		ts, err := token.Lex(name, string(src))
		if err != nil {
			return nil, ErrLex.Wrap(err)
		}

		sites, err := x.sites(ts)
		if err != nil {
			return nil, err
		}

		if len(sites) == 0 {
			return src, nil
		}

		if round == DefaultMaxRounds {
			return nil, ErrParse.At(sites[0].span).
				Withf("expansion did not terminate after " +
					strconv.Itoa(DefaultMaxRounds) + " rounds")
		}

		if round > 0 {
			report = nil
		}

		src, err = x.rewrite(ctx, src, sites, count, report)
		if err != nil {
			return nil, err
		}

		count += len(sites)
	}

	return src, nil
}

// rewrite composes each site in order and splices the results into src.
func (x *Expander) rewrite(
	ctx context.Context,
	src []byte,
	sites []site,
	base int,
	report func(Result),
) ([]byte, error) {
	texts := make([]string, len(sites))

	var errs []error

	for i, s := range sites {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}

		inv, cached, err := parseSite(s)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		x.cfg.logger.DebugContext(ctx, "invocation found",
			append(spanAttrs(s.span),
				slog.String("macro", s.name),
				slog.Bool("cached", cached),
				slog.Int("loops", len(inv.Loops)),
				slog.Int("aliases", len(inv.Aliases)),
			)...,
		)

		exp, err := compose(ctx, x.cfg, inv, x.siteScope(base+i))
		if err != nil {
			errs = append(errs, err)

			continue
		}

		texts[i] = exp.Text()

		if report != nil {
			report(Result{Expansion: exp, Name: s.name, Span: s.span, Cached: cached})
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return splice(src, sites, texts), nil
}

// siteScope returns the hash scope of the k-th site expanded from one
// source. A pinned seed is mixed with k so that separate invocations still
// hash differently.
func (x *Expander) siteScope(k int) *Scope {
	switch {
	case x.cfg.fixed != nil:
		return x.cfg.fixed
	case x.cfg.seed != nil:
		return NewSeededScope(xxh3.HashStringSeed(strconv.Itoa(k), *x.cfg.seed))
	}

	return NewScope()
}

// splice replaces the source range of each site with its text.
func splice(src []byte, sites []site, texts []string) []byte {
	var b strings.Builder

	b.Grow(len(src))

	last := 0

	for i, s := range sites {
		b.Write(src[last:s.span.Start.Offset])
		b.WriteString(texts[i])

		last = s.span.End.Offset
	}

	b.Write(src[last:])

	return []byte(b.String())
}

// sites returns the outermost invocation sites of ts at any depth, in
// source order. Bodies of macro_rules! definitions are not searched.
func (x *Expander) sites(ts token.Stream) ([]site, error) {
	var (
		found []site
		errs  []error
	)

	x.walk(ts, &found, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortFunc(found, func(a, b site) int {
		return a.span.Start.Offset - b.span.Start.Offset
	})

	return found, nil
}

func (x *Expander) walk(ts token.Stream, found *[]site, errs *[]error) {
	for i := 0; i < len(ts); i++ {
		t := ts[i]

		switch {
		case t.IsIdent("macro_rules") && i+1 < len(ts) && ts[i+1].Is("!"):
			for i < len(ts) && ts[i].Kind != token.Group {
				i++
			}

		case x.macroAt(ts, i):
			g := ts[i+2]
			end := g.Span

			if i+3 < len(ts) && ts[i+3].Is(";") {
				end = ts[i+3].Span
				i++
			}

			*found = append(*found, site{
				args: g.Children,
				name: t.Text,
				span: t.Span.Join(end),
			})
			i += 2

		case x.attrAt(ts, i):
			args, ok := attrArgs(ts[i+1].Children)
			if !ok {
				*errs = append(*errs, ErrParse.At(ts[i+1].Span).
					Withf("expected #["+x.cfg.attr+"(...)]"))

				continue
			}

			n, err := syntax.Recognize(syntax.CatItem, ts[i+2:])
			if err != nil {
				*errs = append(*errs, ErrParse.At(t.Span).
					Withf("#["+x.cfg.attr+"] must annotate an item").Wrap(err))

				continue
			}

			item := ts[i+2 : i+2+n]

			*found = append(*found, site{
				args: args,
				item: item,
				name: x.cfg.attr,
				span: t.Span.Join(item.Span()),
			})
			i += 1 + n

		case t.Kind == token.Group:
			x.walk(t.Children, found, errs)
		}
	}
}

// macroAt reports whether a function-like invocation starts at ts[i].
func (x *Expander) macroAt(ts token.Stream, i int) bool {
	if i+2 >= len(ts) || ts[i].Kind != token.Ident || ts[i].Raw {
		return false
	}

	return slices.Contains(x.cfg.macros, ts[i].Text) &&
		ts[i+1].Is("!") && ts[i+2].Kind == token.Group
}

// attrAt reports whether an outer attribute naming the item attribute
// starts at ts[i].
func (x *Expander) attrAt(ts token.Stream, i int) bool {
	if i+1 >= len(ts) || !ts[i].Is("#") || !ts[i+1].IsGroup(token.Bracket) {
		return false
	}

	body := ts[i+1].Children

	return len(body) > 0 && body[0].IsIdent(x.cfg.attr) && !body[0].Raw
}

// attrArgs returns the arguments of an attribute body "name(args)" or
// "name".
func attrArgs(body token.Stream) (token.Stream, bool) {
	switch {
	case len(body) == 1:
		return token.Stream{}, true
	case len(body) == 2 && body[1].IsGroup(token.Paren):
		return body[1].Children, true
	}

	return nil, false
}
