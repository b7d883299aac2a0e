package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

// typ parses a type. With allowPlus, a path type may be followed by
// additional bounds, forming a trait object such as Error + Send.
func (p *parser) typ(allowPlus bool) error {
	isPath, err := p.typeAtom(allowPlus)
	if err != nil {
		return err
	}

	if isPath && allowPlus && p.eatPunct("+") {
		return p.bounds()
	}

	return nil
}

func (p *parser) typeAtom(allowPlus bool) (bool, error) {
	t := p.peek(0)

	switch {
	case t.IsGroup(token.Paren):
		p.pos++

		return false, within(t, func(q *parser) error {
			return q.commaList(func() error { return q.typ(true) })
		})

	case t.IsGroup(token.Bracket):
		p.pos++

		return false, within(t, func(q *parser) error {
			if err := q.typ(true); err != nil {
				return err
			}

			if q.eatPunct(";") {
				return q.expr(false)
			}

			return nil
		})

	case t.Is("!"), t.IsIdent("_"):
		p.pos++

		return false, nil

	case t.Is("&"):
		p.pos++
		p.eatLifetime()
		p.eatKeyword("mut")

		return false, p.typ(false)

	case t.Is("*"):
		p.pos++

		if !p.eatKeyword("const") && !p.eatKeyword("mut") {
			return false, p.expected("`const` or `mut`")
		}

		return false, p.typ(false)

	case t.IsIdent("fn"), t.IsIdent("unsafe"), t.IsIdent("extern"):
		return false, p.bareFn()

	case t.IsIdent("for"):
		p.pos++

		if err := p.generics(); err != nil {
			return false, err
		}

		if k := p.peek(0); k.IsIdent("fn") || k.IsIdent("unsafe") || k.IsIdent("extern") {
			return false, p.bareFn()
		}

		return true, p.path(styleFn)

	case t.IsIdent("impl"), t.IsIdent("dyn"):
		p.pos++

		if !allowPlus {
			return false, p.bound()
		}

		return false, p.bounds()

	case t.Is("<"), p.pathAt(0):
		if err := p.path(styleFn); err != nil {
			return false, err
		}

		if p.punct("!") && p.peek(1).Kind == token.Group {
			p.pos += 2

			return false, nil
		}

		return true, nil
	}

	return false, p.expected("type")
}

// bareFn parses a function pointer type such as unsafe extern "C" fn(u8).
func (p *parser) bareFn() error {
	p.eatKeyword("unsafe")

	if p.eatKeyword("extern") && p.peek(0).Kind == token.Literal {
		if err := p.abi(); err != nil {
			return err
		}
	}

	if err := p.expectKeyword("fn"); err != nil {
		return err
	}

	g, err := p.expectGroup(token.Paren)
	if err != nil {
		return err
	}

	if err := within(g, func(q *parser) error {
		return q.commaList(func() error {
			if err := q.outerAttrs(); err != nil {
				return err
			}

			if q.punct("...") {
				q.pos += 3

				return nil
			}

			if (IsIdent(q.peek(0)) || q.keyword("_")) &&
				q.peek(1).Is(":") && !q.punctAt(1, "::") {
				q.pos += 2
			}

			return q.typ(true)
		})
	}); err != nil {
		return err
	}

	if p.eatPunct("->") {
		return p.typ(false)
	}

	return nil
}

// boundAt reports whether a type or lifetime bound starts here.
func (p *parser) boundAt() bool {
	t := p.peek(0)

	return p.lifetimeAt(0) || t.Is("?") || t.Is("~") || t.IsGroup(token.Paren) ||
		t.IsIdent("for") || t.IsIdent("use") || t.IsIdent("const") ||
		t.IsIdent("async") || t.Is("<") || p.pathAt(0)
}

// bounds parses a possibly empty list of bounds joined by '+'.
func (p *parser) bounds() error {
	for p.boundAt() {
		if err := p.bound(); err != nil {
			return err
		}

		if !p.eatPunct("+") {
			break
		}
	}

	return nil
}

func (p *parser) bound() error {
	t := p.peek(0)

	switch {
	case p.lifetimeAt(0):
		p.pos += 2

		return nil

	case t.IsGroup(token.Paren):
		p.pos++

		return within(t, (*parser).bound)

	case t.IsIdent("use"):
		p.pos++

		return p.genericArgs()
	}

	if p.eatPunct("~") {
		if err := p.expectKeyword("const"); err != nil {
			return err
		}
	} else {
		p.eatKeyword("const")
		p.eatKeyword("async")
	}

	p.eatPunct("?")

	if p.eatKeyword("for") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	return p.path(styleFn)
}

// traitRef parses the trait of an impl, which may be negative.
func (p *parser) traitRef() error {
	p.eatPunct("!")

	return p.path(styleFn)
}
