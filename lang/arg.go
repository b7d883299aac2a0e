package lang

import (
	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// Expr is a node of the alias-definition mini-language: a [Leaf] value or a
// [Call] of a builtin function.
type Expr interface {
	Span() token.Span
	ID() int
}

// Leaf is an expression that is a literal value.
type Leaf struct {
	Value Value
	id    int
}

// Span returns the span of the value.
func (l *Leaf) Span() token.Span { return l.Value.Span }

// ID returns the node id.
func (l *Leaf) ID() int { return l.id }

// Call is a call of a builtin function.
type Call struct {
	// Args holds the speculatively parsed arguments. It is nil when the
	// argument group could not be split, in which case ArgErr says why.
	Args   []Expr
	ArgErr error
	// Raw holds the whole argument group for functions taking one raw
	// parameter.
	Raw  token.Stream
	Name string
	span token.Span
	name token.Span
	id   int
}

// Span returns the span from the function name through the closing paren.
func (c *Call) Span() token.Span { return c.span }

// ID returns the node id.
func (c *Call) ID() int { return c.id }

// trial is one candidate grammar of the speculative argument parser. It
// returns how many tokens at the start of ts form an instance.
type trial struct {
	try  func(ts token.Stream) (int, bool)
	Type Type
}

// trials are tried in order; ties go to the earlier entry.
var trials = []trial{
	{Type: TypeInt, try: literalTrial(token.LitInt)},
	{Type: TypeStr, try: strTrial},
	{Type: TypeIdent, try: underscoreTrial},
	{Type: TypeIdent, try: identTrial},
	{Type: TypePath, try: pathTrial},
	{Type: TypeType, try: recognizeTrial(syntax.CatType)},
	{Type: TypeExpr, try: recognizeTrial(syntax.CatExpr)},
}

func literalTrial(kind token.LitKind) func(token.Stream) (int, bool) {
	return func(ts token.Stream) (int, bool) {
		return 1, len(ts) > 0 && ts[0].Kind == token.Literal && ts[0].Lit == kind
	}
}

func strTrial(ts token.Stream) (int, bool) {
	return 1, len(ts) > 0 && ts[0].Kind == token.Literal && ts[0].Lit.IsString()
}

func underscoreTrial(ts token.Stream) (int, bool) {
	return 1, len(ts) > 0 && ts[0].IsIdent("_")
}

func identTrial(ts token.Stream) (int, bool) {
	return 1, len(ts) > 0 && syntax.IsIdent(ts[0])
}

// pathTrial recognizes a plain path. Qualified paths such as <T as Tr>::X
// are left to the type trial.
func pathTrial(ts token.Stream) (int, bool) {
	if len(ts) > 0 && ts[0].Is("<") {
		return 0, false
	}

	return recognizeTrial(syntax.CatPath)(ts)
}

func recognizeTrial(cat syntax.Category) func(token.Stream) (int, bool) {
	return func(ts token.Stream) (int, bool) {
		n, err := syntax.Recognize(cat, ts)

		return n, err == nil && n > 0
	}
}

// terminators is the set of punctuation that ends an argument.
type terminators []string

var (
	argTerminators   = terminators{","}
	aliasTerminators = terminators{",", ";"}
)

func (t terminators) at(ts token.Stream, i int) bool {
	if i >= len(ts) {
		return true
	}

	for _, sep := range t {
		if ts[i].Is(sep) {
			return true
		}
	}

	return false
}

// next returns the index of the first terminator in ts, or len(ts).
func (t terminators) next(ts token.Stream) int {
	for i := range ts {
		if t.at(ts, i) {
			return i
		}
	}

	return len(ts)
}

// parseArg determines the value at the start of ts by trying each candidate
// grammar on the same slice. A trial succeeds when it is followed by a
// terminator or the end of ts, and the longest success wins. When none
// succeeds the tokens up to the next terminator are taken as [TypeTokens].
func parseArg(ts token.Stream, term terminators) (Value, int, error) {
	if term.at(ts, 0) {
		return Value{}, 0, ErrUnparsableArgument.At(spanAt(ts, 0)).
			Withf("empty argument")
	}

	best, typ := 0, Type(0)

	for _, tr := range trials {
		n, ok := tr.try(ts)
		if !ok || n <= best || !term.at(ts, n) {
			continue
		}

		best, typ = n, tr.Type
	}

	if best == 0 {
		best, typ = term.next(ts), TypeTokens
	}

	arg := ts[:best]

	if typ == TypeInt || typ == TypeStr || typ == TypeIdent {
		v, ok := valueOf(arg[0])
		if !ok {
			return Value{}, 0, ErrUnparsableArgument.At(arg[0].Span).
				Withf("malformed literal " + arg[0].Text)
		}

		return v, best, nil
	}

	return NewTokens(typ, arg), best, nil
}

// spanAt returns the span of ts[i], or the end of ts when i is past it.
func spanAt(ts token.Stream, i int) token.Span {
	switch {
	case i < len(ts):
		return ts[i].Span
	case len(ts) > 0:
		s := ts[len(ts)-1].Span
		s.Start = s.End

		return s
	}

	return token.Span{}
}

// exprParser builds expressions, numbering each node.
type exprParser struct {
	ids *int
	// legacy receives the span of each bracketed concatenation.
	legacy func(token.Span)
}

func (p *exprParser) nextID() int {
	*p.ids++

	return *p.ids
}

// parseExpr parses one expression at the start of ts, ending at a
// terminator. It returns the number of tokens consumed.
func (p *exprParser) parseExpr(ts token.Stream, term terminators) (Expr, int, error) {
	if call, ok := p.parseCall(ts, term); ok {
		return call, 2, nil
	}

	v, n, err := parseArg(ts, term)
	if err != nil {
		return nil, 0, err
	}

	return &Leaf{Value: v, id: p.nextID()}, n, nil
}

// parseDefinition parses the expression of an alias definition, which may
// also use the deprecated bracketed form. A bracket group holding a
// top-level ';' is an array type and not a concatenation.
func (p *exprParser) parseDefinition(ts token.Stream, term terminators) (Expr, int, error) {
	if len(ts) > 0 && ts[0].IsGroup(token.Bracket) && term.at(ts, 1) &&
		p.legacy != nil && !hasTopLevel(ts[0].Children, ";") {
		call, err := p.parseLegacy(ts[0])

		return call, 1, err
	}

	return p.parseExpr(ts, term)
}

// parseCall recognizes name(args) followed by a terminator, where name is a
// builtin function. Any other name(args) is left to the argument trials, so
// Some(1) is an expression argument.
func (p *exprParser) parseCall(ts token.Stream, term terminators) (*Call, bool) {
	if len(ts) < 2 || !syntax.IsIdent(ts[0]) || ts[0].Raw ||
		!ts[1].IsGroup(token.Paren) || !term.at(ts, 2) {
		return nil, false
	}

	if _, ok := Builtins()[ts[0].Text]; !ok {
		return nil, false
	}

	c := &Call{
		Name: ts[0].Text,
		Raw:  ts[1].Children,
		span: ts[0].Span.Join(ts[1].Span),
		name: ts[0].Span,
		id:   p.nextID(),
	}

	c.Args, c.ArgErr = p.parseArgs(ts[1].Children)

	return c, true
}

// parseLegacy parses the deprecated [part, ...] form as a concat call.
func (p *exprParser) parseLegacy(g token.Token) (*Call, error) {
	p.legacy(g.Span)

	args, err := p.parseArgs(g.Children)
	if err != nil {
		return nil, err
	}

	return &Call{
		Name: "concat",
		Args: args,
		Raw:  g.Children,
		span: g.Span,
		name: g.Span,
		id:   p.nextID(),
	}, nil
}

// parseArgs splits a comma-separated argument list. A trailing comma is
// allowed.
func (p *exprParser) parseArgs(ts token.Stream) ([]Expr, error) {
	args := []Expr{}

	for i := 0; i < len(ts); {
		arg, n, err := p.parseExpr(ts[i:], argTerminators)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
		i += n

		if i < len(ts) {
			i++ // ','
		}
	}

	return args, nil
}

func hasTopLevel(ts token.Stream, punct string) bool {
	for _, t := range ts {
		if t.Is(punct) {
			return true
		}
	}

	return false
}

// ParseExpr parses text as one mini-language expression.
func ParseExpr(name, text string) (Expr, error) {
	ts, err := token.Lex(name, text)
	if err != nil {
		return nil, ErrLex.Wrap(err)
	}

	if len(ts) == 0 {
		return nil, ErrUnparsableArgument.Withf("empty expression")
	}

	ids := 0
	p := &exprParser{ids: &ids}

	e, n, err := p.parseExpr(ts, terminators{})
	if err != nil {
		return nil, err
	}

	if n < len(ts) {
		return nil, ErrUnparsableArgument.At(ts[n].Span).
			Withf("unexpected " + ts[n].String())
	}

	return e, nil
}
