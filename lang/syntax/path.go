package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

type pathStyle uint8

const (
	// styleMod paths take no generic arguments, as in use trees and
	// attributes.
	styleMod pathStyle = iota
	// styleExpr paths take generic arguments only after "::".
	styleExpr
	// styleType paths take generic arguments directly after a segment.
	styleType
	// styleFn is styleType plus the parenthesized sugar of Fn(A) -> B.
	styleFn
)

func (p *parser) ident() error {
	if !IsIdent(p.peek(0)) {
		return p.expected("identifier")
	}

	p.pos++

	return nil
}

func (p *parser) literal(kind token.LitKind) error {
	t := p.peek(0)
	if t.Kind == token.Literal {
		switch {
		case t.Lit == kind:
			p.pos++

			return nil
		case kind == token.LitStr && t.Lit.IsString():
			p.pos++

			return nil
		}
	}

	if kind == token.LitInt {
		return p.expected("integer literal")
	}

	return p.expected("string literal")
}

func (p *parser) abi() error { return p.literal(token.LitStr) }

// segmentAt reports whether a path segment starts n positions ahead.
func (p *parser) segmentAt(n int) bool {
	t := p.peek(n)

	switch {
	case IsIdent(t):
		return true
	case t.IsIdent("self"), t.IsIdent("super"), t.IsIdent("crate"), t.IsIdent("Self"):
		return true
	case t.Is("$"):
		return p.keywordAt(n+1, "crate")
	}

	return false
}

// pathAt reports whether a path starts n positions ahead.
func (p *parser) pathAt(n int) bool {
	return p.segmentAt(n) || p.punctAt(n, "::") && p.segmentAt(n+2)
}

func (p *parser) segment() error {
	if !p.segmentAt(0) {
		return p.expected("path segment")
	}

	if p.punct("$") {
		p.pos++
	}

	p.pos++

	return nil
}

func (p *parser) path(style pathStyle) error {
	if style != styleMod && p.punct("<") {
		return p.qpath(style)
	}

	p.eatPunct("::")

	for {
		if err := p.segment(); err != nil {
			return err
		}

		if err := p.segmentArgs(style); err != nil {
			return err
		}

		if !p.punct("::") || !p.segmentAt(2) {
			return nil
		}

		p.pos += 2
	}
}

// qpath parses a qualified path such as <T as Trait>::Item.
func (p *parser) qpath(style pathStyle) error {
	if err := p.expectPunct("<"); err != nil {
		return err
	}

	if err := p.typ(false); err != nil {
		return err
	}

	if p.eatKeyword("as") {
		if err := p.path(styleType); err != nil {
			return err
		}
	}

	if err := p.expectPunct(">"); err != nil {
		return err
	}

	if !p.punct("::") {
		return p.expected("`::`")
	}

	for p.punct("::") && p.segmentAt(2) {
		p.pos += 2

		if err := p.segment(); err != nil {
			return err
		}

		if err := p.segmentArgs(style); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) segmentArgs(style pathStyle) error {
	if style == styleMod {
		return nil
	}

	if p.punct("::") && p.peek(2).Is("<") {
		p.pos += 2

		return p.genericArgs()
	}

	if style == styleExpr {
		return nil
	}

	if p.peek(0).Is("<") && !p.punct("<=") && !p.punct("<-") {
		return p.genericArgs()
	}

	if style == styleFn {
		if g, ok := p.group(token.Paren); ok {
			if err := within(g, func(q *parser) error {
				return q.commaList(func() error { return q.typ(true) })
			}); err != nil {
				return err
			}

			if p.eatPunct("->") {
				return p.typ(false)
			}
		}
	}

	return nil
}

// genericArgs parses <...> after a path segment.
func (p *parser) genericArgs() error {
	if err := p.expectPunct("<"); err != nil {
		return err
	}

	for !p.peek(0).Is(">") {
		if err := p.genericArg(); err != nil {
			return err
		}

		if !p.eatPunct(",") && !p.peek(0).Is(">") {
			return p.expected("`,` or `>`")
		}
	}

	p.pos++

	return nil
}

func (p *parser) genericArg() error {
	t := p.peek(0)

	switch {
	case p.lifetimeAt(0):
		p.pos += 2

		return nil
	case t.Kind == token.Literal, t.IsIdent("true"), t.IsIdent("false"):
		p.pos++

		return nil
	case t.Is("-") && p.peek(1).Kind == token.Literal:
		p.pos += 2

		return nil
	case t.IsGroup(token.Brace):
		p.pos++

		return within(t, (*parser).stmts)
	case IsIdent(t):
		if ok, err := p.assocBinding(); ok || err != nil {
			return err
		}
	}

	return p.typ(true)
}

// assocBinding parses an associated item binding (Item = T) or constraint
// (Item: Bound) if one starts here.
func (p *parser) assocBinding() (bool, error) {
	save := p.pos
	p.pos++

	if p.peek(0).Is("<") {
		if err := p.genericArgs(); err != nil {
			p.pos = save

			return false, nil
		}
	}

	switch {
	case p.punct("=") && !p.punct("=="):
		p.pos++

		if t := p.peek(0); t.IsGroup(token.Brace) || t.Kind == token.Literal {
			p.pos++

			return true, nil
		}

		return true, p.typ(true)
	case p.punct(":") && !p.punct("::"):
		p.pos++

		return true, p.bounds()
	}

	p.pos = save

	return false, nil
}
