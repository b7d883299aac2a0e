package lang

import (
	"errors"
	"log/slog"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// Warning is a non-fatal diagnostic, such as use of deprecated syntax.
type Warning struct {
	Msg  string
	Span token.Span
}

// String returns the warning prefixed by its location.
func (w Warning) String() string {
	if loc := location(w.Span); loc != "" {
		return loc + ": " + w.Msg
	}

	return w.Msg
}

const (
	warnSemicolon = "the \";\" alias separator is deprecated, use \",\" instead"
	warnBrackets  = "the [part, ...] alias form is deprecated, use concat(part, ...) instead"
)

// Invocation is a parsed use of the engine: an optional repetition header,
// alias definitions, and the code block they apply to.
type Invocation struct {
	Loops    []Loop
	Aliases  []Alias
	Warnings []Warning
	// Block holds the statements of the code block, or the annotated item
	// for the attribute form.
	Block token.Stream
	Span  token.Span
	// Separator is the alias separator used, "," or ";", or "" when there
	// are no aliases.
	Separator string
	// Item is set for the attribute form.
	Item bool
}

// invocationParser walks the top-level tokens of an invocation.
type invocationParser struct {
	expr exprParser
	inv  *Invocation
	ts   token.Stream
	pos  int
	ids  int
}

func newInvocationParser(ts token.Stream) *invocationParser {
	p := &invocationParser{inv: &Invocation{Span: ts.Span()}, ts: ts}
	p.expr = exprParser{
		ids: &p.ids,
		legacy: func(span token.Span) {
			p.warn(warnBrackets, span)
		},
	}

	return p
}

// ParseInvocation parses the arguments of a function-like invocation:
//
//	[for pattern in [values]]... [name = expr,]... { block } [,]
func ParseInvocation(ts token.Stream) (*Invocation, error) {
	p := newInvocationParser(ts)

	if err := p.header(); err != nil {
		return nil, err
	}

	g := p.peek()
	if !g.IsGroup(token.Brace) {
		return nil, p.expected("code block `{ ... }`")
	}

	p.pos++
	p.inv.Block = g.Children

	if sep := p.peek(); sep.Is(",") || sep.Is(";") {
		if len(p.inv.Aliases) > 0 {
			if err := p.separator(sep); err != nil {
				return nil, err
			}
		}

		p.pos++
	}

	if p.pos < len(p.ts) {
		return nil, p.expected("end of invocation")
	}

	return p.inv, nil
}

// ParseItemInvocation parses the arguments of the attribute form, with item
// standing in for the code block. A trailing separator after the aliases is
// allowed.
func ParseItemInvocation(args, item token.Stream) (*Invocation, error) {
	p := newInvocationParser(args)
	p.inv.Item = true
	p.inv.Block = item
	p.inv.Span = args.Span().Join(item.Span())

	if err := p.header(); err != nil {
		return nil, err
	}

	if sep := p.peek(); sep.Is(",") || sep.Is(";") {
		if len(p.inv.Aliases) == 0 {
			return nil, ErrParse.At(sep.Span).Withf("unexpected separator after loops")
		}

		if err := p.separator(sep); err != nil {
			return nil, err
		}

		p.pos++
	}

	if p.pos < len(p.ts) {
		return nil, p.expected("alias definition")
	}

	return p.inv, nil
}

// header parses the repetition header and alias definitions.
func (p *invocationParser) header() error {
	for p.peek().IsIdent("for") {
		if err := p.loop(); err != nil {
			return err
		}
	}

	for p.aliasAt() {
		more, err := p.alias()
		if err != nil {
			return err
		}

		if !more {
			break
		}
	}

	return nil
}

func (p *invocationParser) peek() token.Token {
	if p.pos < len(p.ts) {
		return p.ts[p.pos]
	}

	return token.Token{}
}

func (p *invocationParser) expected(what string) error {
	if p.pos >= len(p.ts) {
		return ErrParse.At(spanAt(p.ts, p.pos)).Withf("expected " + what + ", found end of input")
	}

	return ErrParse.At(p.ts[p.pos].Span).
		Withf("expected " + what + ", found `" + p.ts[p.pos].String() + "`")
}

func (p *invocationParser) warn(msg string, span token.Span) {
	p.inv.Warnings = append(p.inv.Warnings, Warning{Msg: msg, Span: span})
}

// loop parses "for pattern in [values]".
func (p *invocationParser) loop() error {
	start := p.ts[p.pos].Span
	p.pos++

	pat, n, err := parsePattern(p.ts[p.pos:])
	if err != nil {
		var le *Error
		if errors.As(err, &le) && !le.Span().IsValid() {
			return p.expected("loop variable")
		}

		return err
	}

	p.pos += n

	if !p.peek().IsIdent("in") {
		return p.expected("`in`")
	}

	p.pos++

	g := p.peek()
	if !g.IsGroup(token.Bracket) {
		return p.expected("loop values `[ ... ]`")
	}

	p.pos++

	values, err := p.expr.parseLoopValues(g.Children)
	if err != nil {
		return err
	}

	p.inv.Loops = append(p.inv.Loops, Loop{
		Pattern: pat,
		Values:  values,
		Span:    start.Join(g.Span),
	})

	return nil
}

// aliasAt reports whether an alias definition starts at the cursor.
func (p *invocationParser) aliasAt() bool {
	if p.pos+1 >= len(p.ts) {
		return false
	}

	name, eq := p.ts[p.pos], p.ts[p.pos+1]

	if !syntax.IsIdent(name) || name.Raw || !eq.Is("=") {
		return false
	}

	if eq.Spacing == token.Joint && p.pos+2 < len(p.ts) {
		next := p.ts[p.pos+2]

		return !next.Is("=") && !next.Is(">")
	}

	return true
}

// alias parses one "name = expr" definition and its separator. more is
// false when no separator follows.
func (p *invocationParser) alias() (more bool, err error) {
	name := p.ts[p.pos]
	p.pos += 2

	if p.pos >= len(p.ts) {
		return false, p.expected("alias value")
	}

	e, n, err := p.expr.parseDefinition(p.ts[p.pos:], aliasTerminators)
	if err != nil {
		return false, err
	}

	p.pos += n
	p.inv.Aliases = append(p.inv.Aliases, Alias{
		Name: name.Text,
		Expr: e,
		Span: name.Span,
	})

	sep := p.peek()
	if !sep.Is(",") && !sep.Is(";") {
		if p.inv.Item && p.pos >= len(p.ts) {
			return false, nil
		}

		return false, p.expected("`,`")
	}

	if err := p.separator(sep); err != nil {
		return false, err
	}

	p.pos++

	return true, nil
}

// separator records the alias separator, rejecting a mix of ',' and ';'.
func (p *invocationParser) separator(sep token.Token) error {
	switch p.inv.Separator {
	case "":
		p.inv.Separator = sep.Text
		if sep.Text == ";" {
			p.warn(warnSemicolon, sep.Span)
		}
	case sep.Text:
	default:
		return ErrMixedSeparators.At(sep.Span).
			Withf("found `" + sep.Text + "` after `" + p.inv.Separator + "` separators").
			With(slog.String("separator", sep.Text))
	}

	return nil
}
