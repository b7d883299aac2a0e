package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

// stmts parses the contents of a block: optional inner attributes followed
// by statements. The last statement may be an expression without ';'.
func (p *parser) stmts() error {
	if err := p.innerAttrs(); err != nil {
		return err
	}

	p.emit(CatInnerAttrs)

	for !p.eof() {
		if err := p.stmt(); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) stmt() error {
	if p.eatPunct(";") {
		p.emit(CatNone)

		return nil
	}

	start := p.pos

	if err := p.outerAttrs(); err != nil {
		return err
	}

	if p.itemAt() {
		p.pos = start

		return p.item()
	}

	if p.eatKeyword("let") {
		if err := p.local(); err != nil {
			return err
		}
	} else if err := p.exprStatement(); err != nil {
		return err
	}

	p.emit(CatStmts)

	return nil
}

// local parses the rest of a let statement.
func (p *parser) local() error {
	if err := p.pattern(true); err != nil {
		return err
	}

	if p.punct(":") && !p.punct("::") {
		p.pos++

		if err := p.typ(true); err != nil {
			return err
		}
	}

	if p.eatPunct("=") {
		if err := p.expr(false); err != nil {
			return err
		}

		if p.eatKeyword("else") {
			if err := p.block(); err != nil {
				return err
			}
		}
	}

	return p.expectPunct(";")
}

func (p *parser) exprStatement() error {
	blockLike, err := p.exprStmt()
	if err != nil {
		return err
	}

	switch {
	case p.eatPunct(";"), p.eof(), blockLike:
		return nil
	case p.pos >= 2 && p.ts[p.pos-1].IsGroup(token.Brace) && p.ts[p.pos-2].Is("!"):
		return nil
	}

	return p.expected("`;`")
}

// exprStmt parses an expression in statement position. A block-like
// expression such as an if or a loop ends the statement on its own unless
// a method call or '?' follows; blockLike reports that case.
func (p *parser) exprStmt() (blockLike bool, err error) {
	if !p.blockLikeAt() {
		return false, p.expr(false)
	}

	if err := p.primary(false); err != nil {
		return false, err
	}

	if !p.peek(0).Is("?") && (!p.peek(0).Is(".") || p.punct("..")) {
		return true, nil
	}

	if err := p.postfix(); err != nil {
		return false, err
	}

	return false, p.exprTail(false)
}

func (p *parser) blockLikeAt() bool {
	t := p.peek(0)

	switch {
	case t.IsGroup(token.Brace):
		return true
	case t.IsIdent("if"), t.IsIdent("match"), t.IsIdent("loop"),
		t.IsIdent("while"), t.IsIdent("for"):
		return true
	case t.IsIdent("unsafe"), t.IsIdent("const"):
		return p.peek(1).IsGroup(token.Brace)
	case t.IsIdent("async"):
		return p.peek(1).IsGroup(token.Brace) ||
			p.keywordAt(1, "move") && p.peek(2).IsGroup(token.Brace)
	case p.lifetimeAt(0):
		return p.peek(2).Is(":")
	}

	return false
}
