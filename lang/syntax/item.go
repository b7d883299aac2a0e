package syntax

import (
	"github.com/ardnew/compose/lang/token"
)

// piecewise runs fn with a private sink. When fn reports that it parsed a
// construct with a nested body, the pieces it emitted are kept. Otherwise
// the whole construct becomes a single leaf of category cat.
func (p *parser) piecewise(cat Category, fn func() (bool, error)) error {
	start := p.pos
	outer := p.sink
	local := []Piece{}

	if outer != nil {
		p.sink = &local
		p.mark = start
	}

	nested, err := fn()

	p.sink = outer
	if err != nil || outer == nil {
		return err
	}

	if nested {
		p.sink = &local
		p.emit(CatNone)
		p.sink = outer
		*outer = append(*outer, local...)

		return nil
	}

	p.mark = start
	p.emit(cat)

	return nil
}

func (p *parser) item() error { return p.piecewise(CatItem, p.itemBody) }

func (p *parser) assocItem() error { return p.piecewise(CatAssocItem, p.assocBody) }

// itemAt reports whether the statement at the cursor, after its outer
// attributes, is an item.
func (p *parser) itemAt() bool {
	t := p.peek(0)

	switch {
	case t.IsIdent("pub"), t.IsIdent("fn"), t.IsIdent("struct"), t.IsIdent("enum"),
		t.IsIdent("trait"), t.IsIdent("impl"), t.IsIdent("mod"), t.IsIdent("use"),
		t.IsIdent("type"), t.IsIdent("extern"):
		return true

	case t.IsIdent("static"):
		return IsIdent(p.peek(1)) || p.keywordAt(1, "mut")

	case t.IsIdent("const"):
		n := p.peek(1)

		return (IsIdent(n) || n.IsIdent("_")) && p.peek(2).Is(":") || p.fnAt()

	case t.IsIdent("async"), t.IsIdent("safe"):
		return p.fnAt()

	case t.IsIdent("unsafe"):
		n := p.peek(1)

		return p.fnAt() || n.IsIdent("impl") || n.IsIdent("trait") ||
			n.IsIdent("mod") || n.IsIdent("auto") || n.IsIdent("extern")

	case t.IsIdent("union"):
		return IsIdent(p.peek(1)) && (p.peek(2).Is("<") || p.peek(2).IsGroup(token.Brace))

	case t.IsIdent("auto"):
		return p.keywordAt(1, "trait")

	case t.IsIdent("default"):
		n := p.peek(1)

		return n.IsIdent("impl") || n.IsIdent("unsafe") || n.IsIdent("fn")

	case t.IsIdent("macro_rules"):
		return p.peek(1).Is("!") && IsIdent(p.peek(2))
	}

	return false
}

// fnAt reports whether a function signature starts at the cursor.
func (p *parser) fnAt() bool {
	for n := 0; ; n++ {
		t := p.peek(n)

		switch {
		case t.IsIdent("const"), t.IsIdent("async"), t.IsIdent("unsafe"), t.IsIdent("safe"):
		case t.IsIdent("extern"):
			if p.peek(n+1).Kind == token.Literal {
				n++
			}
		default:
			return t.IsIdent("fn")
		}
	}
}

func (p *parser) itemBody() (bool, error) {
	if err := p.outerAttrs(); err != nil {
		return false, err
	}

	p.emit(CatAttrs)

	if err := p.vis(); err != nil {
		return false, err
	}

	p.emit(CatVis)

	t := p.peek(0)
	u := t
	if t.IsIdent("unsafe") || t.IsIdent("default") {
		u = p.peek(1)
	}

	switch {
	case t.IsIdent("use"):
		p.pos++

		if err := p.useTree(); err != nil {
			return false, err
		}

		return false, p.expectPunct(";")

	case t.IsIdent("extern") && p.keywordAt(1, "crate"):
		p.pos += 2

		if !p.eatKeyword("self") {
			if err := p.ident(); err != nil {
				return false, err
			}
		}

		if err := p.rename(); err != nil {
			return false, err
		}

		return false, p.expectPunct(";")

	case u.IsIdent("extern") && !p.fnAt():
		return p.externBlock()

	case u.IsIdent("mod"):
		return p.module()

	case u.IsIdent("trait"), u.IsIdent("auto"):
		return p.traitItem()

	case u.IsIdent("impl"):
		return p.implItem()

	case p.fnAt():
		return p.fnItem()

	case t.IsIdent("struct"):
		return false, p.structItem()

	case t.IsIdent("enum"):
		return false, p.enumItem()

	case t.IsIdent("union") && IsIdent(p.peek(1)):
		return false, p.unionItem()

	case t.IsIdent("type"):
		return false, p.typeAlias()

	case t.IsIdent("static"):
		return false, p.staticItem()

	case t.IsIdent("const"):
		return false, p.constItem()

	case p.pathAt(0):
		return false, p.macroItem()
	}

	return false, p.expected("item")
}

func (p *parser) rename() error {
	if !p.eatKeyword("as") {
		return nil
	}

	if p.eatKeyword("_") {
		return nil
	}

	return p.ident()
}

func (p *parser) useTree() error {
	p.eatPunct("::")

	for {
		t := p.peek(0)

		switch {
		case t.Is("*"):
			p.pos++

			return nil
		case t.IsGroup(token.Brace):
			p.pos++

			return within(t, func(q *parser) error { return q.commaList(q.useTree) })
		}

		if err := p.segment(); err != nil {
			return err
		}

		if !p.eatPunct("::") {
			return p.rename()
		}
	}
}

// fnItem parses a function. A function with a body is split into its
// signature and its decomposed body.
func (p *parser) fnItem() (bool, error) {
	if err := p.signature(); err != nil {
		return false, err
	}

	p.emit(CatSignature)

	if p.eatPunct(";") {
		return false, nil
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return false, err
	}

	return true, p.decompose(g, (*parser).stmts)
}

// signature parses a function signature up to its body.
func (p *parser) signature() error {
	for p.eatKeyword("const") || p.eatKeyword("async") ||
		p.eatKeyword("unsafe") || p.eatKeyword("safe") {
	}

	if p.eatKeyword("extern") && p.peek(0).Kind == token.Literal {
		if err := p.abi(); err != nil {
			return err
		}
	}

	if err := p.expectKeyword("fn"); err != nil {
		return err
	}

	if err := p.ident(); err != nil {
		return err
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	g, err := p.expectGroup(token.Paren)
	if err != nil {
		return err
	}

	if err := within(g, func(q *parser) error { return q.commaList(q.param) }); err != nil {
		return err
	}

	if p.eatPunct("->") {
		if err := p.typ(true); err != nil {
			return err
		}
	}

	if p.keyword("where") {
		return p.where()
	}

	return nil
}

func (p *parser) param() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if n := p.selfParamLen(); n > 0 {
		p.pos += n

		if p.punct(":") && !p.punct("::") {
			p.pos++

			return p.typ(true)
		}

		return nil
	}

	if p.punct("...") {
		p.pos += 3

		return nil
	}

	if err := p.pattern(false); err != nil {
		return err
	}

	if err := p.expectPunct(":"); err != nil {
		return err
	}

	if p.punct("...") {
		p.pos += 3

		return nil
	}

	return p.typ(true)
}

// selfParamLen returns the length of a receiver such as &'a mut self at the
// cursor, or 0.
func (p *parser) selfParamLen() int {
	n := 0

	if p.peek(0).Is("&") {
		n++

		if p.lifetimeAt(n) {
			n += 2
		}
	}

	if p.keywordAt(n, "mut") {
		n++
	}

	if p.keywordAt(n, "self") && !p.punctAt(n+1, "::") {
		return n + 1
	}

	return 0
}

// generics parses generic parameters such as <'a, T: Clone, const N: usize>.
func (p *parser) generics() error {
	if err := p.expectPunct("<"); err != nil {
		return err
	}

	for !p.peek(0).Is(">") {
		if err := p.genericParam(); err != nil {
			return err
		}

		if !p.eatPunct(",") && !p.peek(0).Is(">") {
			return p.expected("`,` or `>`")
		}
	}

	p.pos++

	return nil
}

func (p *parser) genericParam() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	switch {
	case p.lifetimeAt(0):
		p.pos += 2

		if p.eatPunct(":") {
			for p.eatLifetime() {
				if !p.eatPunct("+") {
					break
				}
			}
		}

		return nil

	case p.eatKeyword("const"):
		if err := p.ident(); err != nil {
			return err
		}

		if err := p.expectPunct(":"); err != nil {
			return err
		}

		if err := p.typ(false); err != nil {
			return err
		}

		if p.eatPunct("=") {
			return p.genericArg()
		}

		return nil
	}

	if err := p.ident(); err != nil {
		return err
	}

	if p.punct(":") && !p.punct("::") {
		p.pos++

		if err := p.bounds(); err != nil {
			return err
		}
	}

	if p.eatPunct("=") {
		return p.typ(true)
	}

	return nil
}

// where parses a where clause, which ends before a brace group, ';', '=' or
// the end of input.
func (p *parser) where() error {
	if err := p.expectKeyword("where"); err != nil {
		return err
	}

	for !p.eof() && !p.peek(0).IsGroup(token.Brace) && !p.punct(";") && !p.punct("=") {
		if err := p.predicate(); err != nil {
			return err
		}

		if !p.eatPunct(",") {
			break
		}
	}

	return nil
}

func (p *parser) predicate() error {
	if p.lifetimeAt(0) {
		p.pos += 2

		if err := p.expectPunct(":"); err != nil {
			return err
		}

		for p.eatLifetime() {
			if !p.eatPunct("+") {
				break
			}
		}

		return nil
	}

	if p.keyword("for") && p.peek(1).Is("<") {
		p.pos++

		if err := p.generics(); err != nil {
			return err
		}
	}

	if err := p.typ(false); err != nil {
		return err
	}

	if !p.punct(":") || p.punct("::") {
		return p.expected("`:`")
	}

	p.pos++

	return p.bounds()
}

// vis parses an optional visibility such as pub(crate).
func (p *parser) vis() error {
	if !p.eatKeyword("pub") {
		return nil
	}

	g := p.peek(0)
	if !g.IsGroup(token.Paren) {
		return nil
	}

	q := sub(g)

	switch {
	case q.keyword("crate"), q.keyword("self"), q.keyword("super"):
		if len(g.Children) != 1 {
			return nil
		}
	case q.keyword("in"):
		q.pos++

		if err := q.path(styleMod); err != nil {
			return err
		}

		if err := q.done(); err != nil {
			return err
		}
	default:
		return nil
	}

	p.pos++

	return nil
}

func (p *parser) outerAttrs() error {
	for p.punct("#") && p.peek(1).IsGroup(token.Bracket) {
		p.pos++

		if err := within(p.next(), (*parser).meta); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) innerAttrAt() bool {
	return p.punct("#") && p.peek(1).Is("!") && p.peek(2).IsGroup(token.Bracket)
}

func (p *parser) innerAttrs() error {
	for p.innerAttrAt() {
		p.pos += 2

		if err := within(p.next(), (*parser).meta); err != nil {
			return err
		}
	}

	return nil
}

// meta parses the contents of an attribute: a path optionally followed by
// "= expr" or a delimited group of arbitrary tokens.
func (p *parser) meta() error {
	if p.keyword("unsafe") && p.peek(1).IsGroup(token.Paren) {
		p.pos += 2

		return nil
	}

	if err := p.path(styleMod); err != nil {
		return err
	}

	switch {
	case p.eof():
		return nil
	case p.eatPunct("="):
		return p.expr(false)
	case p.peek(0).Kind == token.Group:
		p.pos++

		return nil
	}

	return p.expected("`=` or delimited arguments")
}

func (p *parser) structItem() error {
	p.pos++

	if err := p.ident(); err != nil {
		return err
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	if g, ok := p.group(token.Paren); ok {
		if err := within(g, tupleFields); err != nil {
			return err
		}

		if p.keyword("where") {
			if err := p.where(); err != nil {
				return err
			}
		}

		return p.expectPunct(";")
	}

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return err
		}
	}

	if g, ok := p.group(token.Brace); ok {
		return within(g, namedFields)
	}

	return p.expectPunct(";")
}

func (p *parser) unionItem() error {
	p.pos++

	if err := p.ident(); err != nil {
		return err
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return err
		}
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return err
	}

	return within(g, namedFields)
}

func (p *parser) enumItem() error {
	p.pos++

	if err := p.ident(); err != nil {
		return err
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return err
		}
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return err
	}

	return within(g, func(q *parser) error { return q.commaList(q.variant) })
}

func namedFields(q *parser) error { return q.commaList(q.field) }

func tupleFields(q *parser) error { return q.commaList(q.tupleField) }

func (p *parser) field() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if err := p.vis(); err != nil {
		return err
	}

	p.eatKeyword("unsafe")

	if err := p.ident(); err != nil {
		return err
	}

	if err := p.expectPunct(":"); err != nil {
		return err
	}

	if err := p.typ(true); err != nil {
		return err
	}

	if p.eatPunct("=") {
		return p.expr(false)
	}

	return nil
}

func (p *parser) tupleField() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if err := p.vis(); err != nil {
		return err
	}

	return p.typ(true)
}

func (p *parser) variant() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if err := p.vis(); err != nil {
		return err
	}

	if err := p.ident(); err != nil {
		return err
	}

	if g, ok := p.group(token.Brace); ok {
		if err := within(g, namedFields); err != nil {
			return err
		}
	} else if g, ok := p.group(token.Paren); ok {
		if err := within(g, tupleFields); err != nil {
			return err
		}
	}

	if p.eatPunct("=") {
		return p.expr(false)
	}

	return nil
}

func (p *parser) typeAlias() error {
	p.pos++

	if err := p.ident(); err != nil {
		return err
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	if p.punct(":") && !p.punct("::") {
		p.pos++

		if err := p.bounds(); err != nil {
			return err
		}
	}

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return err
		}
	}

	if p.eatPunct("=") {
		if err := p.typ(true); err != nil {
			return err
		}

		if p.keyword("where") {
			if err := p.where(); err != nil {
				return err
			}
		}
	}

	return p.expectPunct(";")
}

func (p *parser) staticItem() error {
	p.pos++
	p.eatKeyword("mut")

	if err := p.ident(); err != nil {
		return err
	}

	return p.typedValue()
}

func (p *parser) constItem() error {
	p.pos++

	if !p.eatKeyword("_") {
		if err := p.ident(); err != nil {
			return err
		}
	}

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return err
		}
	}

	return p.typedValue()
}

// typedValue parses ": Type [= expr];" ending a const or static.
func (p *parser) typedValue() error {
	if err := p.expectPunct(":"); err != nil {
		return err
	}

	if err := p.typ(true); err != nil {
		return err
	}

	if p.eatPunct("=") {
		if err := p.expr(false); err != nil {
			return err
		}
	}

	return p.expectPunct(";")
}

// macroItem parses a macro invocation in item position, including
// macro_rules! definitions.
func (p *parser) macroItem() error {
	if err := p.path(styleMod); err != nil {
		return err
	}

	if err := p.expectPunct("!"); err != nil {
		return err
	}

	if IsIdent(p.peek(0)) {
		p.pos++
	}

	g := p.next()
	if g.Kind != token.Group {
		p.pos--

		return p.expected("macro arguments")
	}

	if g.Delim == token.Brace {
		p.eatPunct(";")

		return nil
	}

	return p.expectPunct(";")
}

// module parses an inline or out-of-line module.
func (p *parser) module() (bool, error) {
	p.eatKeyword("unsafe")
	p.pos++
	p.emit(CatNone)

	if err := p.ident(); err != nil {
		return false, err
	}

	p.emit(CatIdent)

	if p.eatPunct(";") {
		return false, nil
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return false, err
	}

	return true, p.decompose(g, func(q *parser) error {
		if err := q.innerAttrs(); err != nil {
			return err
		}

		q.emit(CatInnerAttrs)

		for !q.eof() {
			if err := q.item(); err != nil {
				return err
			}
		}

		return nil
	})
}

func (p *parser) traitItem() (bool, error) {
	p.eatKeyword("unsafe")
	p.eatKeyword("auto")

	if err := p.expectKeyword("trait"); err != nil {
		return false, err
	}

	p.emit(CatNone)

	if err := p.ident(); err != nil {
		return false, err
	}

	p.emit(CatIdent)

	if p.peek(0).Is("<") {
		if err := p.generics(); err != nil {
			return false, err
		}

		p.emit(CatGenerics)
	}

	if p.punct(":") && !p.punct("::") {
		p.pos++
		p.emit(CatNone)

		if err := p.bounds(); err != nil {
			return false, err
		}

		p.emit(CatBounds)
	}

	if p.eatPunct("=") {
		if err := p.bounds(); err != nil {
			return false, err
		}

		if p.keyword("where") {
			if err := p.where(); err != nil {
				return false, err
			}
		}

		return false, p.expectPunct(";")
	}

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return false, err
		}

		p.emit(CatWhere)
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return false, err
	}

	return true, p.decompose(g, assocItems)
}

func (p *parser) implItem() (bool, error) {
	p.eatKeyword("default")
	p.eatKeyword("unsafe")

	if err := p.expectKeyword("impl"); err != nil {
		return false, err
	}

	p.emit(CatNone)

	if p.peek(0).Is("<") && !p.keywordAt(2, "as") {
		if err := p.generics(); err != nil {
			return false, err
		}

		p.emit(CatGenerics)
	}

	if p.eatKeyword("const") {
		p.emit(CatNone)
	}

	if p.punct("!") {
		if err := p.traitRef(); err != nil {
			return false, err
		}

		if !p.keyword("for") {
			return false, p.expected("`for`")
		}
	} else if err := p.typ(true); err != nil {
		return false, err
	}

	if p.keyword("for") {
		p.emit(CatTraitRef)
		p.pos++
		p.emit(CatNone)

		if err := p.typ(true); err != nil {
			return false, err
		}
	}

	p.emit(CatType)

	if p.keyword("where") {
		if err := p.where(); err != nil {
			return false, err
		}

		p.emit(CatWhere)
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return false, err
	}

	return true, p.decompose(g, assocItems)
}

func assocItems(q *parser) error {
	if err := q.innerAttrs(); err != nil {
		return err
	}

	q.emit(CatInnerAttrs)

	for !q.eof() {
		if err := q.assocItem(); err != nil {
			return err
		}
	}

	return nil
}

// assocBody parses an item of a trait or impl body.
func (p *parser) assocBody() (bool, error) {
	if err := p.outerAttrs(); err != nil {
		return false, err
	}

	p.emit(CatAttrs)

	if err := p.vis(); err != nil {
		return false, err
	}

	p.emit(CatVis)

	if p.keyword("default") && !p.peek(1).Is("!") && !p.punctAt(1, "::") {
		p.pos++
		p.emit(CatNone)
	}

	switch {
	case p.fnAt():
		return p.fnItem()
	case p.keyword("type"):
		return false, p.typeAlias()
	case p.keyword("const"):
		return false, p.constItem()
	case p.pathAt(0):
		return false, p.macroItem()
	}

	return false, p.expected("associated item")
}

func (p *parser) externBlock() (bool, error) {
	p.eatKeyword("unsafe")

	if err := p.expectKeyword("extern"); err != nil {
		return false, err
	}

	p.emit(CatNone)

	if p.peek(0).Kind == token.Literal {
		if err := p.abi(); err != nil {
			return false, err
		}

		p.emit(CatAbi)
	}

	g, err := p.expectGroup(token.Brace)
	if err != nil {
		return false, err
	}

	return true, p.decompose(g, func(q *parser) error {
		if err := q.innerAttrs(); err != nil {
			return err
		}

		q.emit(CatInnerAttrs)

		for !q.eof() {
			if err := q.foreignItem(); err != nil {
				return err
			}

			q.emit(CatForeignItem)
		}

		return nil
	})
}

func (p *parser) foreignItem() error {
	if err := p.outerAttrs(); err != nil {
		return err
	}

	if err := p.vis(); err != nil {
		return err
	}

	switch {
	case p.fnAt():
		if err := p.signature(); err != nil {
			return err
		}

		return p.expectPunct(";")

	case p.keyword("static"), p.keyword("safe") && p.keywordAt(1, "static"),
		p.keyword("unsafe") && p.keywordAt(1, "static"):
		if !p.keyword("static") {
			p.pos++
		}

		return p.staticItem()

	case p.keyword("type"):
		return p.typeAlias()

	case p.pathAt(0):
		return p.macroItem()
	}

	return p.expected("foreign item")
}
