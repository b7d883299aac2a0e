package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

// binops lists the binary and compound assignment operators, longest first.
var binops = []string{
	"<<=", ">>=", "...", "..=",
	"==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=",
	"<<", ">>", "..",
	"=", "<", ">", "+", "-", "*", "/", "%", "^", "&", "|",
}

// exprKeywords lists the reserved words that can start an expression.
var exprKeywords = map[string]bool{
	"true": true, "false": true, "if": true, "match": true, "loop": true,
	"while": true, "for": true, "unsafe": true, "async": true, "const": true,
	"move": true, "static": true, "return": true, "break": true,
	"continue": true, "yield": true, "become": true, "let": true, "box": true,
	"self": true, "Self": true, "super": true, "crate": true, "_": true,
}

// expr parses an expression. With noStruct, a path followed by a brace
// group is not a struct literal, as in the condition of an if.
//
// Operator precedence is not resolved: the expression is only recognized.
func (p *parser) expr(noStruct bool) error {
	if err := p.operand(noStruct); err != nil {
		return err
	}

	return p.exprTail(noStruct)
}

// operand parses a unary expression or a range without a start.
func (p *parser) operand(noStruct bool) error {
	switch {
	case p.punct("..="), p.punct("..."):
		p.pos += 3

		return p.unary(noStruct)
	case p.punct(".."):
		p.pos += 2

		if p.exprAt(noStruct) {
			return p.unary(noStruct)
		}

		return nil
	}

	return p.unary(noStruct)
}

func (p *parser) exprTail(noStruct bool) error {
	for {
		if p.eatKeyword("as") {
			if err := p.typ(false); err != nil {
				return err
			}

			continue
		}

		op := p.binop()
		if op == "" {
			return nil
		}

		p.pos += len(op)

		if op == ".." && !p.exprAt(noStruct) {
			continue
		}

		if err := p.operand(noStruct); err != nil {
			return err
		}
	}
}

func (p *parser) binop() string {
	if p.punct("=>") || p.punct("->") {
		return ""
	}

	for _, op := range binops {
		if p.punct(op) {
			return op
		}
	}

	return ""
}

// exprAt reports whether an expression can start here.
func (p *parser) exprAt(noStruct bool) bool {
	t := p.peek(0)

	switch t.Kind {
	case token.Literal:
		return true
	case token.Group:
		return !noStruct || t.Delim != token.Brace
	case token.Ident:
		return IsIdent(t) || exprKeywords[t.Text]
	case token.Punct:
		switch t.Text {
		case "-", "!", "*", "&", "|", "<", "#":
			return true
		case ":":
			return p.punct("::")
		case ".":
			return p.punct("..")
		case "'":
			return p.lifetimeAt(0)
		}
	}

	return false
}

func (p *parser) unary(noStruct bool) error {
	switch {
	case p.punct("-"), p.punct("!"), p.punct("*"):
		p.pos++

		return p.unary(noStruct)

	case p.punct("&"):
		p.pos++

		if p.keyword("raw") && (p.keywordAt(1, "const") || p.keywordAt(1, "mut")) {
			p.pos += 2
		} else {
			p.eatKeyword("mut")
		}

		return p.unary(noStruct)
	}

	if err := p.primary(noStruct); err != nil {
		return err
	}

	return p.postfix()
}

func (p *parser) postfix() error {
	for {
		t := p.peek(0)

		switch {
		case t.Is("?"):
			p.pos++

		case t.Is(".") && !p.punct(".."):
			p.pos++

			if err := p.member(); err != nil {
				return err
			}

		case t.IsGroup(token.Paren):
			p.pos++

			if err := within(t, exprList); err != nil {
				return err
			}

		case t.IsGroup(token.Bracket):
			p.pos++

			if err := within(t, func(q *parser) error { return q.expr(false) }); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// member parses what follows '.': a field, a tuple index, a method call or
// await.
func (p *parser) member() error {
	t := p.peek(0)

	switch {
	case t.IsIdent("await"):
		p.pos++

		return nil

	case t.Kind == token.Literal && (t.Lit == token.LitInt || t.Lit == token.LitFloat):
		p.pos++

		return nil

	case IsIdent(t):
		p.pos++

		if p.punct("::") && p.peek(2).Is("<") {
			p.pos += 2

			if err := p.genericArgs(); err != nil {
				return err
			}
		}

		if g, ok := p.group(token.Paren); ok {
			return within(g, exprList)
		}

		return nil
	}

	return p.expected("field or method name")
}

func exprList(q *parser) error {
	return q.commaList(func() error { return q.expr(false) })
}

func (p *parser) primary(noStruct bool) error {
	t := p.peek(0)

	switch t.Kind {
	case token.Literal:
		p.pos++

		return nil

	case token.Group:
		p.pos++

		switch t.Delim {
		case token.Paren:
			return within(t, exprList)
		case token.Bracket:
			return within(t, arrayElems)
		default:
			return within(t, (*parser).stmts)
		}

	case token.Punct:
		switch {
		case t.Is("|"):
			return p.closure(noStruct)
		case t.Is("<"), p.punct("::"):
			return p.pathExpr(noStruct)
		case p.lifetimeAt(0):
			return p.labeled()
		case t.Is("#") && p.peek(1).IsGroup(token.Bracket):
			if err := p.outerAttrs(); err != nil {
				return err
			}

			return p.primary(noStruct)
		}

	case token.Ident:
		return p.wordExpr(noStruct)
	}

	return p.expected("expression")
}

// wordExpr parses an expression starting with an identifier or keyword.
func (p *parser) wordExpr(noStruct bool) error {
	t := p.peek(0)
	if IsIdent(t) {
		return p.pathExpr(noStruct)
	}

	switch t.Text {
	case "self", "Self", "super", "crate":
		return p.pathExpr(noStruct)

	case "true", "false", "_":
		p.pos++

		return nil

	case "if":
		return p.ifExpr()

	case "match":
		return p.matchExpr()

	case "loop", "unsafe":
		p.pos++

		return p.block()

	case "while":
		p.pos++

		if err := p.expr(true); err != nil {
			return err
		}

		return p.block()

	case "for":
		p.pos++

		if err := p.pattern(true); err != nil {
			return err
		}

		if err := p.expectKeyword("in"); err != nil {
			return err
		}

		if err := p.expr(true); err != nil {
			return err
		}

		return p.block()

	case "const", "async":
		p.pos++
		p.eatKeyword("move")

		if p.punct("|") {
			return p.closure(noStruct)
		}

		return p.block()

	case "move", "static":
		p.pos++
		p.eatKeyword("async")
		p.eatKeyword("move")

		return p.closure(noStruct)

	case "return", "yield", "become":
		p.pos++

		if p.exprAt(noStruct) {
			return p.expr(noStruct)
		}

		return nil

	case "break":
		p.pos++
		p.eatLifetime()

		if p.exprAt(noStruct) {
			return p.expr(noStruct)
		}

		return nil

	case "continue":
		p.pos++
		p.eatLifetime()

		return nil

	case "let":
		p.pos++

		if err := p.pattern(true); err != nil {
			return err
		}

		if err := p.expectPunct("="); err != nil {
			return err
		}

		return p.expr(noStruct)

	case "box":
		p.pos++

		return p.unary(noStruct)
	}

	return p.expected("expression")
}

func (p *parser) block() error {
	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return err
	}

	return within(g, (*parser).stmts)
}

func (p *parser) ifExpr() error {
	p.pos++

	if err := p.expr(true); err != nil {
		return err
	}

	if err := p.block(); err != nil {
		return err
	}

	if !p.eatKeyword("else") {
		return nil
	}

	if p.keyword("if") {
		return p.ifExpr()
	}

	return p.block()
}

func (p *parser) matchExpr() error {
	p.pos++

	if err := p.expr(true); err != nil {
		return err
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return err
	}

	return within(g, func(q *parser) error {
		if err := q.innerAttrs(); err != nil {
			return err
		}

		for !q.eof() {
			if err := q.arm(); err != nil {
				return err
			}
		}

		return nil
	})
}

func (p *parser) arm() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if err := p.pattern(true); err != nil {
		return err
	}

	if p.eatKeyword("if") {
		if err := p.expr(false); err != nil {
			return err
		}
	}

	if err := p.expectPunct("=>"); err != nil {
		return err
	}

	blockLike, err := p.exprStmt()
	if err != nil {
		return err
	}

	if p.eatPunct(",") || p.eof() || blockLike {
		return nil
	}

	return p.expected("`,`")
}

// labeled parses a labeled loop or block such as 'outer: loop {}.
func (p *parser) labeled() error {
	p.pos += 2

	if err := p.expectPunct(":"); err != nil {
		return err
	}

	switch {
	case p.keyword("loop"), p.keyword("while"), p.keyword("for"):
		return p.wordExpr(false)
	case p.peek(0).IsGroup(token.Brace):
		return p.block()
	}

	return p.expected("loop or block")
}

func (p *parser) closure(noStruct bool) error {
	if p.punct("||") {
		p.pos += 2
	} else {
		if err := p.expectPunct("|"); err != nil {
			return err
		}

		for !p.peek(0).Is("|") {
			if err := p.outerAttrs(); err != nil {
				return err
			}

			if err := p.pattern(false); err != nil {
				return err
			}

			if p.eatPunct(":") {
				if err := p.typ(false); err != nil {
					return err
				}
			}

			if !p.eatPunct(",") {
				break
			}
		}

		if err := p.expectPunct("|"); err != nil {
			return err
		}
	}

	if p.eatPunct("->") {
		if err := p.typ(false); err != nil {
			return err
		}

		return p.block()
	}

	return p.expr(noStruct)
}

// pathExpr parses a path, a macro invocation or a struct literal.
func (p *parser) pathExpr(noStruct bool) error {
	if err := p.path(styleExpr); err != nil {
		return err
	}

	t := p.peek(0)

	switch {
	case t.Is("!") && p.peek(1).Kind == token.Group:
		p.pos += 2

	case t.IsGroup(token.Brace) && !noStruct:
		p.pos++

		return within(t, func(q *parser) error {
			return q.commaList(q.fieldValue)
		})
	}

	return nil
}

func (p *parser) fieldValue() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if p.eatPunct("..") {
		if p.exprAt(false) {
			return p.expr(false)
		}

		return nil
	}

	if t := p.peek(0); t.Kind == token.Literal && t.Lit == token.LitInt {
		p.pos++
	} else if err := p.ident(); err != nil {
		return err
	}

	if p.punct(":") && !p.punct("::") {
		p.pos++

		return p.expr(false)
	}

	return nil
}

func arrayElems(q *parser) error {
	if q.eof() {
		return nil
	}

	if err := q.expr(false); err != nil {
		return err
	}

	if q.eatPunct(";") {
		return q.expr(false)
	}

	if q.eof() {
		return nil
	}

	if err := q.expectPunct(","); err != nil {
		return err
	}

	return exprList(q)
}
