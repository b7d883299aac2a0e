package token

import (
	"strings"
)

// Kind identifies the category of a [Token].
type Kind uint8

const (
	Ident   Kind = iota + 1 // ident
	Punct                   // punct
	Literal                 // literal
	Group                   // group
)

// String returns the lowercase name of k.
func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Group:
		return "group"
	default:
		return "invalid"
	}
}

// Delimiter identifies the bracket pair enclosing a [Group] token.
type Delimiter uint8

const (
	Paren   Delimiter = iota + 1 // ( )
	Bracket                      // [ ]
	Brace                        // { }
)

// Open returns the opening delimiter character.
func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing delimiter character.
func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	default:
		return ""
	}
}

// Spacing reports whether a [Punct] token is immediately followed by another
// punctuation character, forming a multi-character operator such as "::".
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// LitKind identifies the form of a [Literal] token.
type LitKind uint8

const (
	LitInt LitKind = iota + 1
	LitFloat
	LitStr
	LitRawStr
	LitByteStr
	LitRawByteStr
	LitCStr
	LitRawCStr
	LitChar
	LitByte
)

// IsString reports whether k is a textual string literal subject to
// interpolation.
func (k LitKind) IsString() bool { return k == LitStr || k == LitRawStr }

// DocStyle marks the '#' token of an attribute desugared from a doc comment.
type DocStyle uint8

const (
	DocNone       DocStyle = iota
	DocOuterLine           // ///
	DocInnerLine           // //!
	DocOuterBlock          // /** */
	DocInnerBlock          // /*! */
)

// Inner reports whether the doc comment applies to its enclosing item.
func (d DocStyle) Inner() bool { return d == DocInnerLine || d == DocInnerBlock }

// Source is a named unit of text that tokens are lexed from.
type Source struct {
	Name string
	Text string
}

// Pos is a location in a [Source].
// Line and Column are 1-based; Column counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// Span is the half-open range of a [Source] covered by a token.
type Span struct {
	src   *Source
	Start Pos
	End   Pos
}

// Source returns the source the span refers to, or nil for synthesized tokens.
func (s Span) Source() *Source { return s.src }

// IsValid reports whether s refers to a real location.
func (s Span) IsValid() bool { return s.src != nil }

// Text returns the source text covered by s.
func (s Span) Text() string {
	if s.src == nil || s.End.Offset < s.Start.Offset ||
		s.End.Offset > len(s.src.Text) {
		return ""
	}

	return s.src.Text[s.Start.Offset:s.End.Offset]
}

// Join returns the smallest span covering both s and t.
// If either is invalid, the other is returned.
func (s Span) Join(t Span) Span {
	switch {
	case !s.IsValid():
		return t
	case !t.IsValid() || s.src != t.src:
		return s
	}

	if t.Start.Offset < s.Start.Offset {
		s.Start = t.Start
	}

	if t.End.Offset > s.End.Offset {
		s.End = t.End
	}

	return s
}

// Token is a single token tree: an atom or a delimited group of tokens.
//
// Tokens produced by [Lex] carry sequence numbers so that renderers can tell
// whether two tokens were adjacent in the original source. Tokens built with
// the constructors in this package are synthesized and carry no source.
type Token struct {
	// Text is the identifier name (without any r# prefix), the punctuation
	// character, or the verbatim literal text.
	Text string
	// Children holds the tokens of a [Group].
	Children Stream
	Span     Span
	seq      int
	last     int
	Kind     Kind
	Delim    Delimiter
	Lit      LitKind
	Spacing  Spacing
	Doc      DocStyle
	// Raw marks a raw identifier such as r#type.
	Raw bool
}

// Stream is a sequence of token trees.
type Stream []Token

// NewIdent returns a synthesized identifier token.
func NewIdent(name string, span Span) Token {
	raw := false
	if rest, ok := strings.CutPrefix(name, "r#"); ok {
		name, raw = rest, true
	}

	return Token{Kind: Ident, Text: name, Raw: raw, Span: span}
}

// NewPunct returns a synthesized punctuation token.
func NewPunct(ch byte, spacing Spacing, span Span) Token {
	return Token{
		Kind:    Punct,
		Text:    string(ch),
		Spacing: spacing,
		Span:    span,
	}
}

// NewLiteral returns a synthesized literal token with verbatim text.
func NewLiteral(kind LitKind, text string, span Span) Token {
	return Token{Kind: Literal, Lit: kind, Text: text, Span: span}
}

// NewGroup returns a synthesized group token.
func NewGroup(delim Delimiter, children Stream, span Span) Token {
	return Token{
		Kind:     Group,
		Delim:    delim,
		Children: children,
		Span:     span,
	}
}

// Synthesized reports whether t was built rather than lexed.
func (t Token) Synthesized() bool { return t.seq == 0 }

// WithSpan returns a copy of t positioned at span, detached from source
// adjacency.
func (t Token) WithSpan(span Span) Token {
	t.Span = span
	t.seq, t.last = 0, 0

	return t
}

// WithChildren returns a copy of group t holding children instead.
// Delimiter adjacency (open and close) is preserved.
func (t Token) WithChildren(children Stream) Token {
	t.Children = children

	return t
}

// WithText returns a copy of t with replacement text, detached from source
// adjacency.
func (t Token) WithText(text string) Token {
	t.Text = text
	t.seq, t.last = 0, 0

	return t
}

// Is reports whether t is punctuation ch.
func (t Token) Is(ch string) bool { return t.Kind == Punct && t.Text == ch }

// IsIdent reports whether t is an identifier spelled name. Raw identifiers
// never match a keyword spelling.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name && !t.Raw
}

// IsGroup reports whether t is a group delimited by d.
func (t Token) IsGroup(d Delimiter) bool { return t.Kind == Group && t.Delim == d }

// Name returns the identifier spelling, including any r# prefix.
func (t Token) Name() string {
	if t.Raw {
		return "r#" + t.Text
	}

	return t.Text
}

// Len returns the number of atoms in s, counting group delimiters.
func (s Stream) Len() int {
	n := 0

	for _, t := range s {
		n++
		if t.Kind == Group {
			n += 1 + t.Children.Len()
		}
	}

	return n
}

// Span returns the span from the first to the last token of s.
func (s Stream) Span() Span {
	if len(s) == 0 {
		return Span{}
	}

	return s[0].Span.Join(s[len(s)-1].Span)
}

// Clone returns a deep copy of s.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}

	out := make(Stream, len(s))
	for i, t := range s {
		if t.Kind == Group {
			t.Children = t.Children.Clone()
		}

		out[i] = t
	}

	return out
}

// Split divides s at every top-level punctuation sep.
// A trailing separator does not produce an empty final part.
func (s Stream) Split(sep string) []Stream {
	var (
		parts []Stream
		start int
	)

	for i, t := range s {
		if t.Is(sep) {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	if start < len(s) {
		parts = append(parts, s[start:])
	}

	return parts
}

// String returns the canonical rendering of s.
func (s Stream) String() string { return Canonical(s) }

// String returns the canonical rendering of t.
func (t Token) String() string { return Canonical(Stream{t}) }
