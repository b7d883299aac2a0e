package syntax

import (
	"fmt"
	"strings"

	"github.com/ardnew/compose/lang/token"
)

// parser is a cursor over one level of a token tree. Group contents are
// parsed by a separate parser over the group's children.
type parser struct {
	ts  token.Stream
	pos int
	// end is the span reported for errors at end of input.
	end token.Span
	// sink receives pieces while decomposing; nil while only validating.
	sink *[]Piece
	// mark is the position up to which pieces have been emitted.
	mark int
}

func newParser(ts token.Stream, end token.Span) *parser {
	if !end.IsValid() && len(ts) > 0 {
		end = ts[len(ts)-1].Span
	}

	return &parser{ts: ts, end: end}
}

// sub returns a parser over the children of group g.
func sub(g token.Token) *parser {
	return newParser(g.Children, g.Span)
}

func (p *parser) eof() bool { return p.pos >= len(p.ts) }

// peek returns the token n positions ahead, or the zero token past the end.
func (p *parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.ts) {
		return p.ts[i]
	}

	return token.Token{}
}

func (p *parser) next() token.Token {
	t := p.peek(0)
	if !p.eof() {
		p.pos++
	}

	return t
}

// punctAt reports whether the characters of op are spelled by consecutive
// punctuation tokens starting n positions ahead, each but the last joint.
func (p *parser) punctAt(n int, op string) bool {
	for i := range len(op) {
		t := p.peek(n + i)
		if !t.Is(op[i : i+1]) {
			return false
		}

		if i < len(op)-1 && t.Spacing != token.Joint {
			return false
		}
	}

	return true
}

func (p *parser) punct(op string) bool { return p.punctAt(0, op) }

func (p *parser) eatPunct(op string) bool {
	if !p.punct(op) {
		return false
	}

	p.pos += len(op)

	return true
}

func (p *parser) expectPunct(op string) error {
	if !p.eatPunct(op) {
		return p.expected("`" + op + "`")
	}

	return nil
}

func (p *parser) keyword(kw string) bool { return p.peek(0).IsIdent(kw) }

func (p *parser) keywordAt(n int, kw string) bool { return p.peek(n).IsIdent(kw) }

func (p *parser) eatKeyword(kw string) bool {
	if !p.keyword(kw) {
		return false
	}

	p.pos++

	return true
}

func (p *parser) expectKeyword(kw string) error {
	if !p.eatKeyword(kw) {
		return p.expected("`" + kw + "`")
	}

	return nil
}

// group consumes and returns the next token if it is a group delimited by d.
func (p *parser) group(d token.Delimiter) (token.Token, bool) {
	t := p.peek(0)
	if !t.IsGroup(d) {
		return token.Token{}, false
	}

	p.pos++

	return t, true
}

func (p *parser) expectGroup(d token.Delimiter) (token.Token, error) {
	g, ok := p.group(d)
	if !ok {
		return g, p.expected("`" + d.Open() + "`")
	}

	return g, nil
}

// done fails unless every token has been consumed.
func (p *parser) done() error {
	if !p.eof() {
		return p.errorf("unexpected token %s", describe(p.peek(0)))
	}

	return nil
}

func (p *parser) span() token.Span {
	if p.eof() {
		return p.end
	}

	return p.ts[p.pos].Span
}

func (p *parser) errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Span: p.span()}
}

func (p *parser) expected(what string) *Error {
	if p.eof() {
		return p.errorf("expected %s, found end of input", what)
	}

	return p.errorf("expected %s, found %s", what, describe(p.peek(0)))
}

// lifetime reports whether a lifetime such as 'a starts n positions ahead.
func (p *parser) lifetimeAt(n int) bool {
	t := p.peek(n)

	return t.Is("'") && t.Spacing == token.Joint && p.peek(n+1).Kind == token.Ident
}

func (p *parser) eatLifetime() bool {
	if !p.lifetimeAt(0) {
		return false
	}

	p.pos += 2

	return true
}

func (p *parser) expectLifetime() error {
	if !p.eatLifetime() {
		return p.expected("lifetime")
	}

	return nil
}

// commaList parses items separated by commas with an optional trailing
// comma, until end of input.
func (p *parser) commaList(item func() error) error {
	for !p.eof() {
		if err := item(); err != nil {
			return err
		}

		if p.eof() {
			break
		}

		if err := p.expectPunct(","); err != nil {
			return err
		}
	}

	return nil
}

// within parses the children of group g with fn, requiring all of them to
// be consumed.
func within(g token.Token, fn func(*parser) error) error {
	q := sub(g)
	if err := fn(q); err != nil {
		return err
	}

	return q.done()
}

// emit appends the tokens since the last emission as a piece of category
// cat. It does nothing unless decomposing.
func (p *parser) emit(cat Category) {
	if p.sink == nil || p.mark >= p.pos {
		return
	}

	*p.sink = append(*p.sink, Piece{Cat: cat, Tokens: p.ts[p.mark:p.pos]})
	p.mark = p.pos
}

// emitGroup appends the group token just consumed as a nested piece whose
// children are split into inner.
func (p *parser) emitGroup(inner []Piece) {
	if p.sink == nil {
		return
	}

	p.pos--
	p.emit(CatNone)
	p.pos++

	*p.sink = append(*p.sink, Piece{Tokens: p.ts[p.pos-1 : p.pos], Inner: inner})
	p.mark = p.pos
}

// decompose parses the children of group g with fn while collecting their
// pieces, then emits g as a nested piece.
func (p *parser) decompose(g token.Token, fn func(*parser) error) error {
	if p.sink == nil {
		return within(g, fn)
	}

	inner := []Piece{}

	q := sub(g)
	q.sink = &inner

	if err := fn(q); err != nil {
		return err
	}

	if err := q.done(); err != nil {
		return err
	}

	q.emit(CatNone)
	p.emitGroup(inner)

	return nil
}

// describe names a token for error messages.
func describe(t token.Token) string {
	switch t.Kind {
	case token.Ident:
		if isKeyword(t) {
			return "keyword `" + t.Text + "`"
		}

		return "identifier `" + t.Name() + "`"
	case token.Punct:
		return "`" + t.Text + "`"
	case token.Literal:
		return "literal `" + truncate(t.Text) + "`"
	case token.Group:
		return "`" + t.Delim.Open() + "`"
	default:
		return "end of input"
	}
}

func truncate(s string) string {
	const limit = 24
	if len(s) <= limit {
		return s
	}

	return strings.ToValidUTF8(s[:limit], "") + "..."
}
