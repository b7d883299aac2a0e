package repl

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/lang/token"
	"github.com/ardnew/compose/log"
)

// Session evaluates REPL input: alias definitions and expressions over the
// aliases defined so far. Hashes are stable for the life of a session.
type Session struct {
	bindings *lang.Bindings
	scope    *lang.Scope
	funcs    lang.Funcs
	opts     []lang.Option
	logger   log.Logger
}

// NewSession returns an empty session hashing in scope. A nil scope
// selects a random one.
func NewSession(logger log.Logger, scope *lang.Scope, opts ...lang.Option) *Session {
	if scope == nil {
		scope = lang.NewScope()
	}

	return &Session{
		bindings: lang.NewBindings(),
		scope:    scope,
		funcs:    lang.Builtins(),
		opts:     opts,
		logger:   logger,
	}
}

// Line is one parsed line of input.
type Line struct {
	// Name is the alias defined by the line, or "" for an expression.
	Name string
	Expr string
	Span token.Span
}

// IsDefinition reports whether l defines an alias.
func (l Line) IsDefinition() bool { return l.Name != "" }

// ParseLine splits text into an alias definition "name = expr" or a bare
// expression. Comparison operators such as "==" and "=>" do not start a
// definition.
func ParseLine(name, text string) (Line, error) {
	ts, err := token.Lex(name, text)
	if err != nil {
		return Line{}, lang.ErrLex.Wrap(err)
	}

	if len(ts) >= 2 && ts[0].Kind == token.Ident &&
		ts[1].Kind == token.Punct && ts[1].Text == "=" && ts[1].Spacing == token.Alone {
		return Line{
			Name: ts[0].Text,
			Expr: strings.TrimSpace(text[ts[1].Span.End.Offset:]),
			Span: ts[0].Span,
		}, nil
	}

	return Line{Expr: strings.TrimSpace(text)}, nil
}

func (s *Session) options() []lang.Option {
	return append([]lang.Option{
		lang.WithLogger(s.logger),
		lang.WithScope(s.scope),
		lang.WithFuncs(s.funcs),
	}, s.opts...)
}

// Exec evaluates one line of input. A definition binds its alias and
// returns the bound value; an expression returns its value.
func (s *Session) Exec(ctx context.Context, text string) (lang.Value, error) {
	line, err := ParseLine("<repl>", text)
	if err != nil {
		return lang.Value{}, err
	}

	if line.IsDefinition() {
		return s.Define(ctx, line)
	}

	return s.Eval(ctx, line.Expr)
}

// Eval evaluates expr against the session's aliases.
func (s *Session) Eval(ctx context.Context, expr string) (lang.Value, error) {
	v, err := lang.Eval(ctx, s.bindings, expr, s.options()...)
	if err != nil {
		return lang.Value{}, err
	}

	s.logger.TraceContext(ctx, "repl eval",
		slog.String("expr", expr),
		slog.String("type", v.Type.String()),
	)

	return v, nil
}

// Define evaluates the expression of line and binds it to the line's name.
// Redefining an alias replaces its value.
func (s *Session) Define(ctx context.Context, line Line) (lang.Value, error) {
	v, err := s.Eval(ctx, line.Expr)
	if err != nil {
		return lang.Value{}, err
	}

	next := lang.NewBindings()

	for _, b := range s.bindings.List() {
		if b.Name != line.Name {
			_ = next.Define(b.Name, b.Value, b.Span)
		}
	}

	if err := next.Define(line.Name, v, line.Span); err != nil {
		return lang.Value{}, err
	}

	s.bindings = next

	s.logger.DebugContext(ctx, "repl define",
		slog.String("alias", line.Name),
		slog.Any("value", v),
	)

	return v, nil
}

// Load defines the aliases of src, one "name = expr" per line. Blank lines
// and lines starting with "//" or "#" are skipped. Loading stops at the
// first invalid line.
func (s *Session) Load(ctx context.Context, name string, src []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(src))

	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "#") {
			continue
		}

		line, err := ParseLine(name, text)
		if err != nil {
			return ErrLoad.With(slog.String("source", name), slog.Int("line", n)).Wrap(err)
		}

		if !line.IsDefinition() {
			return ErrLoad.With(slog.String("source", name), slog.Int("line", n)).
				Wrap(ErrNotDefinition)
		}

		if _, err := s.Define(ctx, line); err != nil {
			return ErrLoad.With(slog.String("source", name), slog.Int("line", n)).Wrap(err)
		}
	}

	if err := sc.Err(); err != nil {
		return ErrLoad.With(slog.String("source", name)).Wrap(err)
	}

	return nil
}

// Reload replaces the session's aliases with those of src. The aliases are
// unchanged if src is invalid.
func (s *Session) Reload(ctx context.Context, name string, src []byte) error {
	prev := s.bindings
	s.bindings = lang.NewBindings()

	if err := s.Load(ctx, name, src); err != nil {
		s.bindings = prev

		return err
	}

	return nil
}

// Aliases returns the session's aliases in definition order.
func (s *Session) Aliases() []lang.Binding { return s.bindings.List() }

// Funcs returns the functions callable in the session.
func (s *Session) Funcs() lang.Funcs { return s.funcs }

// Reset removes every alias.
func (s *Session) Reset() { s.bindings = lang.NewBindings() }

// Source renders the aliases as loadable "name = value" lines.
func (s *Session) Source() string {
	var b strings.Builder

	for _, a := range s.bindings.List() {
		b.WriteString(a.Name)
		b.WriteString(" = ")
		b.WriteString(literal(a.Value))
		b.WriteByte('\n')
	}

	return b.String()
}

// literal returns an expression evaluating to v.
func literal(v lang.Value) string {
	switch v.Type {
	case lang.TypeStr, lang.TypeInt:
		return token.Canonical(v.Tokens)
	case lang.TypeIdent:
		return v.Text()
	}

	raw := "raw(" + v.Text() + ")"
	if v.Type == lang.TypeTokens {
		return raw
	}

	return "to_" + v.Type.String() + "(" + raw + ")"
}
