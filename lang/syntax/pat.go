package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

// pattern parses a pattern. Only a top-level pattern may be an or-pattern
// with an optional leading '|'.
func (p *parser) pattern(top bool) error {
	if top && !p.punct("||") {
		p.eatPunct("|")
	}

	for {
		if err := p.patRange(); err != nil {
			return err
		}

		if !top || !p.peek(0).Is("|") || p.punct("||") {
			return nil
		}

		p.pos++
	}
}

func (p *parser) patRange() error {
	rangeable, err := p.patAtom()
	if err != nil || !rangeable {
		return err
	}

	switch {
	case p.punct("..="), p.punct("..."):
		p.pos += 3

		return p.patRangeEnd()
	case p.punct(".."):
		p.pos += 2

		if p.patRangeEndAt() {
			return p.patRangeEnd()
		}
	}

	return nil
}

func (p *parser) patRangeEndAt() bool {
	t := p.peek(0)

	return t.Kind == token.Literal ||
		t.Is("-") && p.peek(1).Kind == token.Literal ||
		t.Is("<") || p.pathAt(0)
}

func (p *parser) patRangeEnd() error {
	if p.eatPunct("-") || p.peek(0).Kind == token.Literal {
		return p.literalAny()
	}

	return p.path(styleExpr)
}

func (p *parser) literalAny() error {
	if p.peek(0).Kind != token.Literal {
		return p.expected("literal")
	}

	p.pos++

	return nil
}

// patAtom parses a pattern without alternatives or ranges, reporting
// whether it may start a range pattern.
func (p *parser) patAtom() (bool, error) {
	t := p.peek(0)

	switch {
	case t.IsIdent("_"):
		p.pos++

		return false, nil

	case p.punct("..="):
		p.pos += 3

		return false, p.patRangeEnd()

	case p.punct(".."):
		p.pos += 2

		return false, nil

	case t.Kind == token.Literal, t.IsIdent("true"), t.IsIdent("false"):
		p.pos++

		return true, nil

	case t.Is("-"):
		p.pos++

		return true, p.literalAny()

	case t.Is("&"):
		p.pos++
		p.eatKeyword("mut")

		_, err := p.patAtom()

		return false, err

	case t.IsGroup(token.Paren), t.IsGroup(token.Bracket):
		p.pos++

		return false, within(t, patList)

	case t.IsIdent("box"):
		p.pos++

		_, err := p.patAtom()

		return false, err

	case t.IsIdent("const"):
		p.pos++

		g, err := p.expectGroup(token.Brace)
		if err != nil {
			return false, err
		}

		return false, within(g, (*parser).stmts)

	case t.IsIdent("ref"), t.IsIdent("mut"):
		return false, p.binding()

	case IsIdent(t) && !p.punctAt(1, "::") && !p.peek(1).Is("!") &&
		!p.peek(1).IsGroup(token.Paren) && !p.peek(1).IsGroup(token.Brace):
		if p.peek(1).Is("@") {
			return false, p.binding()
		}

		p.pos++

		return true, nil

	case t.Is("<"), p.pathAt(0):
		return p.pathPattern()
	}

	return false, p.expected("pattern")
}

func patList(q *parser) error {
	return q.commaList(func() error { return q.pattern(true) })
}

// binding parses an identifier pattern such as ref mut x @ Some(_).
func (p *parser) binding() error {
	p.eatKeyword("ref")
	p.eatKeyword("mut")

	if err := p.ident(); err != nil {
		return err
	}

	if p.eatPunct("@") {
		return p.patRange()
	}

	return nil
}

func (p *parser) pathPattern() (bool, error) {
	if err := p.path(styleExpr); err != nil {
		return false, err
	}

	t := p.peek(0)

	switch {
	case t.Is("!") && p.peek(1).Kind == token.Group:
		p.pos += 2

		return false, nil

	case t.IsGroup(token.Paren):
		p.pos++

		return false, within(t, patList)

	case t.IsGroup(token.Brace):
		p.pos++

		return false, within(t, func(q *parser) error {
			return q.commaList(q.fieldPattern)
		})
	}

	return true, nil
}

func (p *parser) fieldPattern() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if p.eatPunct("..") {
		return nil
	}

	t := p.peek(0)
	if (IsIdent(t) || t.Kind == token.Literal && t.Lit == token.LitInt) &&
		p.peek(1).Is(":") && !p.punctAt(1, "::") {
		p.pos += 2

		return p.pattern(true)
	}

	p.eatKeyword("box")

	return p.binding()
}
