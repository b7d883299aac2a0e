package token

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error is a lexical error at a position in a [Source].
type Error struct {
	Msg  string
	Span Span
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if src := e.Span.Source(); src != nil && src.Name != "" {
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

// Lex tokenizes text as a stream of Rust token trees.
// The name is used in spans and diagnostics only.
func Lex(name, text string) (Stream, error) {
	src := &Source{Name: name, Text: text}
	l := &lexer{src: src, input: text, line: 1, col: 1}

	return l.lex()
}

// LexSource tokenizes the text of an existing source.
func LexSource(src *Source) (Stream, error) {
	l := &lexer{src: src, input: src.Text, line: 1, col: 1}

	return l.lex()
}

type frame struct {
	open  Pos
	tok   Token
	items Stream
}

type lexer struct {
	src   *Source
	input string
	pos   int
	line  int
	col   int
	seq   int
	stack []frame
}

func (l *lexer) lex() (Stream, error) {
	root := frame{}
	l.stack = []frame{root}

	for {
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}

		if l.eof() {
			break
		}

		if err := l.next(); err != nil {
			return nil, err
		}
	}

	if len(l.stack) > 1 {
		top := l.stack[len(l.stack)-1]

		return nil, &Error{
			Msg:  "unclosed delimiter " + strconv.Quote(top.tok.Delim.Open()),
			Span: l.span(top.open, top.open),
		}
	}

	return l.stack[0].items, nil
}

func (l *lexer) emit(t Token) {
	top := &l.stack[len(l.stack)-1]
	top.items = append(top.items, t)
}

func (l *lexer) nextSeq() int {
	l.seq++

	return l.seq
}

func (l *lexer) next() error {
	start := l.position()
	ch := l.peek()

	switch {
	case ch == '(' || ch == '[' || ch == '{':
		l.advance()

		delim := Paren

		switch ch {
		case '[':
			delim = Bracket
		case '{':
			delim = Brace
		}

		l.stack = append(l.stack, frame{
			open: start,
			tok:  Token{Kind: Group, Delim: delim, seq: l.nextSeq()},
		})

		return nil

	case ch == ')' || ch == ']' || ch == '}':
		return l.closeGroup(start, ch)

	case ch == '\'':
		return l.lexQuote(start)

	case ch == '"':
		return l.lexString(start, LitStr, 0)

	case ch >= '0' && ch <= '9':
		return l.lexNumber(start)

	case ch == 'r' || ch == 'b' || ch == 'c':
		if ok, err := l.lexPrefixed(start); ok || err != nil {
			return err
		}

		return l.lexIdent(start)

	case isIdentStart(ch):
		return l.lexIdent(start)

	case isPunct(ch):
		l.advance()

		spacing := Alone
		if isPunct(l.peek()) {
			spacing = Joint
		}

		seq := l.nextSeq()
		l.emit(Token{
			Kind:    Punct,
			Text:    string(ch),
			Spacing: spacing,
			Span:    l.span(start, l.position()),
			seq:     seq,
			last:    seq,
		})

		return nil
	}

	l.advance()

	return &Error{
		Msg:  "unexpected character " + strconv.QuoteRune(ch),
		Span: l.span(start, l.position()),
	}
}

func (l *lexer) closeGroup(start Pos, ch rune) error {
	l.advance()

	top := l.stack[len(l.stack)-1]
	if len(l.stack) == 1 || top.tok.Delim.Close() != string(ch) {
		return &Error{
			Msg:  "unexpected closing delimiter " + strconv.QuoteRune(ch),
			Span: l.span(start, l.position()),
		}
	}

	l.stack = l.stack[:len(l.stack)-1]

	t := top.tok
	t.Children = top.items
	t.Span = l.span(top.open, l.position())
	t.last = l.nextSeq()
	l.emit(t)

	return nil
}

// lexQuote lexes a character literal or a lifetime. A lifetime is emitted as
// a joint '\'' punctuation followed by an identifier.
func (l *lexer) lexQuote(start Pos) error {
	next := l.peekAt(1)
	isChar := next == '\\' || (next != 0 && l.peekAt(2) == '\'') ||
		(next != 0 && !isIdentStart(next))

	if isChar {
		return l.lexChar(start, LitChar)
	}

	l.advance()

	seq := l.nextSeq()
	l.emit(Token{
		Kind:    Punct,
		Text:    "'",
		Spacing: Joint,
		Span:    l.span(start, l.position()),
		seq:     seq,
		last:    seq,
	})

	return l.lexIdent(l.position())
}

func (l *lexer) lexChar(start Pos, kind LitKind) error {
	l.advance() // opening quote

	for n := 0; ; n++ {
		if l.eof() || l.peek() == '\n' {
			return &Error{
				Msg:  "unterminated character literal",
				Span: l.span(start, l.position()),
			}
		}

		ch := l.peek()
		l.advance()

		if ch == '\\' {
			l.advance()

			continue
		}

		if ch == '\'' && n > 0 {
			break
		}
	}

	l.suffix()
	l.emitLiteral(start, kind)

	return nil
}

// lexString lexes a quoted string whose opening quote is at the current
// position. A raw string terminates at a quote followed by hashes '#'.
func (l *lexer) lexString(start Pos, kind LitKind, hashes int) error {
	raw := kind == LitRawStr || kind == LitRawByteStr || kind == LitRawCStr

	l.advance() // opening quote

	for {
		if l.eof() {
			return &Error{
				Msg:  "unterminated string literal",
				Span: l.span(start, l.position()),
			}
		}

		ch := l.peek()
		l.advance()

		if ch == '\\' && !raw {
			l.advance()

			continue
		}

		if ch == '"' {
			if !raw {
				break
			}

			if strings.HasPrefix(l.input[l.pos:], strings.Repeat("#", hashes)) {
				for range hashes {
					l.advance()
				}

				break
			}
		}
	}

	l.suffix()
	l.emitLiteral(start, kind)

	return nil
}

// lexPrefixed lexes literals introduced by r, b, br, c, cr and raw
// identifiers r#name. It reports false if the input is an ordinary ident.
func (l *lexer) lexPrefixed(start Pos) (bool, error) {
	rest := l.input[l.pos:]

	type prefix struct {
		text string
		kind LitKind
	}

	for _, p := range []prefix{
		{"br", LitRawByteStr},
		{"cr", LitRawCStr},
		{"r", LitRawStr},
	} {
		tail, ok := strings.CutPrefix(rest, p.text)
		if !ok {
			continue
		}

		hashes := len(tail) - len(strings.TrimLeft(tail, "#"))
		if !strings.HasPrefix(tail[hashes:], `"`) {
			continue
		}

		for range len(p.text) + hashes {
			l.advance()
		}

		return true, l.lexString(start, p.kind, hashes)
	}

	switch {
	case strings.HasPrefix(rest, `b"`):
		l.advance()

		return true, l.lexString(start, LitByteStr, 0)

	case strings.HasPrefix(rest, `c"`):
		l.advance()

		return true, l.lexString(start, LitCStr, 0)

	case strings.HasPrefix(rest, "b'"):
		l.advance()

		return true, l.lexChar(start, LitByte)

	case strings.HasPrefix(rest, "r#"):
		r, _ := utf8.DecodeRuneInString(rest[2:])
		if !isIdentStart(r) {
			return false, nil
		}

		l.advance()
		l.advance()

		tok, err := l.scanIdent(start)
		if err != nil {
			return true, err
		}

		tok.Raw = true
		l.emit(tok)

		return true, nil
	}

	return false, nil
}

func (l *lexer) lexIdent(start Pos) error {
	tok, err := l.scanIdent(start)
	if err != nil {
		return err
	}

	l.emit(tok)

	return nil
}

func (l *lexer) scanIdent(start Pos) (Token, error) {
	from := l.pos

	if !isIdentStart(l.peek()) {
		return Token{}, &Error{
			Msg:  "expected identifier",
			Span: l.span(start, l.position()),
		}
	}

	for !l.eof() && isIdentContinue(l.peek()) {
		l.advance()
	}

	seq := l.nextSeq()

	return Token{
		Kind: Ident,
		Text: l.input[from:l.pos],
		Span: l.span(start, l.position()),
		seq:  seq,
		last: seq,
	}, nil
}

func (l *lexer) lexNumber(start Pos) error {
	kind := LitInt
	digits, radix := isDecDigit, 10

	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x':
			digits, radix = isHexDigit, 16
		case 'o':
			digits, radix = isOctDigit, 8
		case 'b':
			digits, radix = isBinDigit, 2
		}

		if radix != 10 {
			l.advance()
			l.advance()
		}
	}

	l.skipDigits(digits)

	if radix == 10 {
		// A fraction requires a follower that is neither another dot nor an
		// identifier, so that 1..2 and 1.foo() lex as integers.
		if l.peek() == '.' {
			if after := l.peekAt(1); after != '.' && !isIdentStart(after) {
				kind = LitFloat

				l.advance()
				l.skipDigits(isDecDigit)
			}
		}

		if e := l.peek(); e == 'e' || e == 'E' {
			off := 1
			if s := l.peekAt(1); s == '+' || s == '-' {
				off = 2
			}

			if d := l.peekAt(off); isDecDigit(d) || d == '_' {
				kind = LitFloat

				for range off {
					l.advance()
				}

				l.skipDigits(isDecDigit)
			}
		}
	}

	from := l.pos
	l.suffix()

	if sfx := l.input[from:l.pos]; radix == 10 && (sfx == "f32" || sfx == "f64") {
		kind = LitFloat
	}

	l.emitLiteral(start, kind)

	return nil
}

func (l *lexer) skipDigits(digits func(rune) bool) {
	for !l.eof() && (digits(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *lexer) suffix() {
	if isIdentStart(l.peek()) {
		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}
	}
}

func (l *lexer) emitLiteral(start Pos, kind LitKind) {
	seq := l.nextSeq()
	l.emit(Token{
		Kind: Literal,
		Lit:  kind,
		Text: l.input[start.Offset:l.pos],
		Span: l.span(start, l.position()),
		seq:  seq,
		last: seq,
	})
}

// skipTrivia skips whitespace and non-doc comments, emitting doc comments as
// desugared attributes.
func (l *lexer) skipTrivia() error {
	for !l.eof() {
		start := l.position()
		rest := l.input[l.pos:]

		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()

		case strings.HasPrefix(rest, "//"):
			style := DocNone

			switch {
			case strings.HasPrefix(rest, "///") && !strings.HasPrefix(rest, "////"):
				style = DocOuterLine
			case strings.HasPrefix(rest, "//!"):
				style = DocInnerLine
			}

			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

			if style != DocNone {
				text := strings.TrimSuffix(l.input[start.Offset+3:l.pos], "\r")
				l.emitDoc(start, style, text)
			}

		case strings.HasPrefix(rest, "/*"):
			style := DocNone

			switch {
			case strings.HasPrefix(rest, "/**") && !strings.HasPrefix(rest, "/***") &&
				!strings.HasPrefix(rest, "/**/"):
				style = DocOuterBlock
			case strings.HasPrefix(rest, "/*!"):
				style = DocInnerBlock
			}

			if err := l.skipBlockComment(start); err != nil {
				return err
			}

			if style != DocNone {
				l.emitDoc(start, style, l.input[start.Offset+3:l.pos-2])
			}

		default:
			return nil
		}
	}

	return nil
}

func (l *lexer) skipBlockComment(start Pos) error {
	l.advance() // '/'
	l.advance() // '*'

	for depth := 1; depth > 0; {
		if l.eof() {
			return &Error{
				Msg:  "unterminated block comment",
				Span: l.span(start, l.position()),
			}
		}

		switch rest := l.input[l.pos:]; {
		case strings.HasPrefix(rest, "/*"):
			depth++

			l.advance()
		case strings.HasPrefix(rest, "*/"):
			depth--

			l.advance()
		}

		l.advance()
	}

	return nil
}

// emitDoc emits the attribute tokens equivalent to a doc comment:
// #[doc = "text"] or #![doc = "text"].
func (l *lexer) emitDoc(start Pos, style DocStyle, text string) {
	span := l.span(start, l.position())

	hash := Token{Kind: Punct, Text: "#", Span: span, Doc: style}
	hash.seq = l.nextSeq()
	hash.last = hash.seq

	if style.Inner() {
		hash.Spacing = Joint
		l.emit(hash)

		bang := Token{Kind: Punct, Text: "!", Span: span}
		bang.seq = l.nextSeq()
		bang.last = bang.seq
		l.emit(bang)
	} else {
		l.emit(hash)
	}

	group := Token{Kind: Group, Delim: Bracket, Span: span, seq: l.nextSeq()}

	for _, t := range []Token{
		{Kind: Ident, Text: "doc", Span: span},
		{Kind: Punct, Text: "=", Span: span},
		{Kind: Literal, Lit: LitStr, Text: QuoteStr(text), Span: span},
	} {
		t.seq = l.nextSeq()
		t.last = t.seq
		group.Children = append(group.Children, t)
	}

	group.last = l.nextSeq()
	l.emit(group)
}

func (l *lexer) span(start, end Pos) Span {
	return Span{src: l.src, Start: start, End: end}
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the n-th rune ahead of the current position, or 0.
func (l *lexer) peekAt(n int) rune {
	pos := l.pos

	for ; n > 0 && pos < len(l.input); n-- {
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Pos {
	return Pos{Offset: l.pos, Line: l.line, Column: l.col}
}

// Character classification

func isIdentStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

func isPunct(r rune) bool {
	return r < utf8.RuneSelf && strings.ContainsRune("=<>!~+-*/%^&|@.,;:#$?", r)
}

func isDecDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDecDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctDigit(r rune) bool { return r >= '0' && r <= '7' }

func isBinDigit(r rune) bool { return r == '0' || r == '1' }

// IsIdentifier reports whether s is lexically a single identifier, which may
// be a keyword.
func IsIdentifier(s string) bool {
	s = strings.TrimPrefix(s, "r#")
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentContinue(r) {
			return false
		}
	}

	return true
}
