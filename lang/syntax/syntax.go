package syntax

import (
	"strconv"
	"strings"

	"github.com/ardnew/compose/lang/token"
)

// Category is a syntactic category that a token sequence can be checked
// against.
type Category uint8

const (
	CatNone Category = iota
	CatIdent
	CatPath
	CatType
	CatExpr
	CatPattern
	CatLitStr
	CatLitInt
	CatItem
	CatStmts
	CatAttrs
	CatInnerAttrs
	CatVis
	CatGenerics
	CatWhere
	CatSignature
	CatTraitRef
	CatBounds
	CatAbi
	CatField
	CatTupleField
	CatVariant
	CatAssocItem
	CatForeignItem
)

var categoryNames = [...]string{
	CatNone:        "tokens",
	CatIdent:       "identifier",
	CatPath:        "path",
	CatType:        "type",
	CatExpr:        "expression",
	CatPattern:     "pattern",
	CatLitStr:      "string literal",
	CatLitInt:      "integer literal",
	CatItem:        "item",
	CatStmts:       "statements",
	CatAttrs:       "attributes",
	CatInnerAttrs:  "inner attributes",
	CatVis:         "visibility",
	CatGenerics:    "generic parameters",
	CatWhere:       "where clause",
	CatSignature:   "function signature",
	CatTraitRef:    "trait reference",
	CatBounds:      "bounds",
	CatAbi:         "ABI",
	CatField:       "field",
	CatTupleField:  "tuple field",
	CatVariant:     "variant",
	CatAssocItem:   "associated item",
	CatForeignItem: "foreign item",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Error is a syntax error at a token.
type Error struct {
	Msg  string
	Span token.Span
}

func (e *Error) Error() string {
	if !e.Span.IsValid() {
		return e.Msg
	}

	var b strings.Builder

	if src := e.Span.Source(); src.Name != "" {
		b.WriteString(src.Name)
		b.WriteByte(':')
	}

	b.WriteString(strconv.Itoa(e.Span.Start.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(e.Span.Start.Column))
	b.WriteString(": ")
	b.WriteString(e.Msg)

	return b.String()
}

// Recognize parses the longest prefix of ts in category cat and returns the
// number of top-level tokens it consumed.
func Recognize(cat Category, ts token.Stream) (int, error) {
	p := newParser(ts, token.Span{})
	if err := p.category(cat); err != nil {
		return 0, err
	}

	return p.pos, nil
}

// Check reports whether all of ts parses as category cat.
func Check(cat Category, ts token.Stream) error {
	p := newParser(ts, token.Span{})
	if err := p.category(cat); err != nil {
		return err
	}

	return p.done()
}

func (p *parser) category(cat Category) error {
	switch cat {
	case CatIdent:
		return p.ident()
	case CatPath:
		return p.path(styleType)
	case CatType:
		return p.typ(true)
	case CatExpr:
		return p.expr(false)
	case CatPattern:
		return p.pattern(true)
	case CatLitStr:
		return p.literal(token.LitStr)
	case CatLitInt:
		return p.literal(token.LitInt)
	case CatItem:
		return p.item()
	case CatStmts:
		return p.stmts()
	case CatAttrs:
		if !p.punct("#") {
			return p.expected("attribute")
		}

		return p.outerAttrs()
	case CatInnerAttrs:
		if !p.punct("#") {
			return p.expected("inner attribute")
		}

		return p.innerAttrs()
	case CatVis:
		if !p.keyword("pub") {
			return p.expected("visibility")
		}

		return p.vis()
	case CatGenerics:
		return p.generics()
	case CatWhere:
		return p.where()
	case CatSignature:
		return p.signature()
	case CatTraitRef:
		return p.traitRef()
	case CatBounds:
		return p.bounds()
	case CatAbi:
		return p.abi()
	case CatField:
		return p.field()
	case CatTupleField:
		return p.tupleField()
	case CatVariant:
		return p.variant()
	case CatAssocItem:
		return p.assocItem()
	case CatForeignItem:
		return p.foreignItem()
	}

	return p.errorf("no grammar for category %d", cat)
}

// Piece is one part of a decomposed block.
//
// A piece with a category other than CatNone is a leaf that must parse as
// that category. A CatNone piece is copied verbatim. A piece with Inner is a
// single group token whose children were decomposed into Inner.
type Piece struct {
	Tokens token.Stream
	Inner  []Piece
	Cat    Category
}

// Nested reports whether pc is a group whose children are decomposed.
func (pc Piece) Nested() bool { return pc.Inner != nil }

// Decompose splits the statements of a block body into pieces. Functions,
// impls, traits, inline modules and extern blocks are split into their
// parts, with their bodies decomposed recursively. Every other statement or
// item is a single leaf. The pieces cover ts exactly, in order.
func Decompose(ts token.Stream) ([]Piece, error) {
	pieces := []Piece{}

	p := newParser(ts, token.Span{})
	p.sink = &pieces

	if err := p.stmts(); err != nil {
		return nil, err
	}

	p.emit(CatNone)

	return pieces, nil
}

// reserved lists the words that cannot be used as identifiers.
var reserved = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true,
	"struct": true, "super": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true, "try": true,
}

func isKeyword(t token.Token) bool {
	return t.Kind == token.Ident && !t.Raw && (reserved[t.Text] || t.Text == "_")
}

// IsIdent reports whether t is an identifier that is not a reserved word.
func IsIdent(t token.Token) bool { return t.Kind == token.Ident && !isKeyword(t) }

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool { return reserved[name] }
