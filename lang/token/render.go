package token

import (
	"strings"
)

// Canonical renders s in a canonical single-line form: tokens separated by a
// single space, joint punctuation glued to its follower, and non-empty brace
// groups padded inside.
func Canonical(s Stream) string {
	var b strings.Builder

	writeCanonical(&b, s)

	return b.String()
}

func writeCanonical(b *strings.Builder, s Stream) {
	for i, t := range s {
		if i > 0 && (s[i-1].Kind != Punct || s[i-1].Spacing != Joint) {
			b.WriteByte(' ')
		}

		switch t.Kind {
		case Ident:
			b.WriteString(t.Name())

		case Punct, Literal:
			b.WriteString(t.Text)

		case Group:
			b.WriteString(t.Delim.Open())

			if t.Delim == Brace {
				b.WriteByte(' ')
			}

			writeCanonical(b, t.Children)

			if t.Delim == Brace && len(t.Children) > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(t.Delim.Close())
		}
	}
}

// Format renders s as source text.
//
// Tokens that were adjacent in their original source are joined by the
// original text between them, so whitespace and comments survive unchanged
// regions. Other tokens are joined by minimal spacing. Attributes lexed from
// doc comments are rendered as doc comments again.
func Format(s Stream) string {
	f := &formatter{}
	f.stream(s)

	return f.b.String()
}

type formatter struct {
	b strings.Builder
	// prev is the last token written at any depth, used for adjacency.
	prev *Token
	// prevEnd is the source end offset of prev.
	prevEnd int
	// op accumulates the characters of the punctuation sequence ending at
	// prev, such as "::".
	op string
	// lineDoc is set after a re-sugared line doc comment, which must be
	// followed by a newline.
	lineDoc bool
}

func (f *formatter) stream(s Stream) {
	for i := 0; i < len(s); {
		n := docUnit(s[i:])
		if n == 0 {
			n = 1
		}

		f.unit(s[i : i+n])
		i += n
	}
}

// docUnit returns the number of tokens of a desugared doc comment at the
// start of s, or 0.
func docUnit(s Stream) int {
	if len(s) < 2 || s[0].Doc == DocNone || !s[0].Is("#") {
		return 0
	}

	i := 1
	if s[0].Doc.Inner() {
		if !s[i].Is("!") || len(s) < 3 {
			return 0
		}

		i++
	}

	g := s[i]
	if !g.IsGroup(Bracket) || len(g.Children) != 3 ||
		!g.Children[0].IsIdent("doc") || !g.Children[1].Is("=") ||
		g.Children[2].Kind != Literal || !g.Children[2].Lit.IsString() {
		return 0
	}

	return i + 1
}

// unit writes one token, or the tokens of one doc comment attribute.
func (f *formatter) unit(s Stream) {
	first, last := s[0], s[len(s)-1]

	f.separate(first, s)

	if len(s) > 1 {
		f.doc(s)
	} else {
		f.token(first)
	}

	switch {
	case last.Kind != Punct:
		f.op = ""
	case f.prev != nil && f.prev.Kind == Punct && f.prev.Spacing == Joint:
		f.op += last.Text
	default:
		f.op = last.Text
	}

	f.prev = &last
	f.prevEnd = last.Span.End.Offset
}

// separate writes the text between the previously written token and t.
func (f *formatter) separate(t Token, s Stream) {
	if f.prev == nil {
		return
	}

	if f.lineDoc {
		f.lineDoc = false

		if adjacent(*f.prev, t) {
			f.b.WriteString(gap(*f.prev, f.prevEnd, t))
		} else {
			f.b.WriteByte('\n')
		}

		return
	}

	if adjacent(*f.prev, t) {
		f.b.WriteString(gap(*f.prev, f.prevEnd, t))

		return
	}

	if len(s) > 1 {
		f.b.WriteByte('\n')
	} else if needSpace(*f.prev, f.op, t) {
		f.b.WriteByte(' ')
	}
}

func (f *formatter) token(t Token) {
	switch t.Kind {
	case Ident:
		f.b.WriteString(t.Name())

	case Punct, Literal:
		f.b.WriteString(t.Text)

	case Group:
		f.b.WriteString(t.Delim.Open())

		open := t
		open.last = t.seq
		f.prev = &open
		f.prevEnd = t.Span.Start.Offset + 1

		if len(t.Children) == 0 {
			if close := closer(t); adjacent(open, close) {
				f.b.WriteString(gap(open, f.prevEnd, close))
			} else if t.Delim == Brace {
				f.b.WriteByte(' ')
			}
		} else {
			if !adjacent(open, t.Children[0]) {
				if t.Delim == Brace {
					f.b.WriteByte(' ')
				}

				f.prev = nil
			}

			f.stream(t.Children)

			close := closer(t)

			switch {
			case f.prev != nil && adjacent(*f.prev, close):
				f.lineDoc = false

				f.b.WriteString(gap(*f.prev, f.prevEnd, close))
			case f.lineDoc:
				f.lineDoc = false

				f.b.WriteByte('\n')
			case t.Delim == Brace:
				f.b.WriteByte(' ')
			}
		}

		f.b.WriteString(t.Delim.Close())
	}
}

// doc writes a desugared doc comment attribute. An unchanged attribute is
// copied from its source verbatim.
func (f *formatter) doc(s Stream) {
	first := s[0]
	g := s[len(s)-1]
	lit := g.Children[2]

	if !first.Synthesized() && !lit.Synthesized() && lit.seq == g.seq+3 &&
		first.Span.IsValid() {
		f.b.WriteString(first.Span.Text())
		f.lineDoc = first.Doc == DocOuterLine || first.Doc == DocInnerLine

		return
	}

	text, err := StrValue(lit)
	if err != nil {
		f.b.WriteString(Canonical(s))

		return
	}

	style := first.Doc
	if strings.Contains(text, "\n") || strings.Contains(text, "\r") {
		switch style {
		case DocOuterLine:
			style = DocOuterBlock
		case DocInnerLine:
			style = DocInnerBlock
		}
	}

	switch style {
	case DocOuterLine:
		f.b.WriteString("///" + text)
		f.lineDoc = true
	case DocInnerLine:
		f.b.WriteString("//!" + text)
		f.lineDoc = true
	case DocOuterBlock:
		f.b.WriteString("/**" + text + "*/")
	case DocInnerBlock:
		f.b.WriteString("/*!" + text + "*/")
	}
}

// closer returns a token standing for the closing delimiter of group t.
func closer(t Token) Token {
	return Token{
		Kind: Punct,
		Text: t.Delim.Close(),
		Span: Span{src: t.Span.src, Start: t.Span.End, End: t.Span.End},
		seq:  t.last,
		last: t.last,
	}
}

// adjacent reports whether b immediately followed a in the same source.
func adjacent(a, b Token) bool {
	return a.last != 0 && b.seq == a.last+1 && a.Span.src != nil &&
		a.Span.src == b.Span.src
}

// gap returns the source text between offset end (the end of a) and the
// start of b.
func gap(a Token, end int, b Token) string {
	start := b.Span.Start.Offset
	if b.Kind == Punct && b.Span.Start == b.Span.End {
		// Closing delimiter stand-in: its span ends past the delimiter.
		start = b.Span.Start.Offset - 1
	}

	text := a.Span.src.Text
	if end < 0 || start < end || start > len(text) {
		return " "
	}

	return text[end:start]
}

// needSpace reports whether two tokens that were not adjacent in any source
// should be separated by a space. The op is the punctuation sequence ending
// at prev.
func needSpace(prev Token, op string, next Token) bool {
	switch {
	case prev.Kind == Punct && (prev.Spacing == Joint || op == "::"):
		return false
	case prev.Is("#") || prev.Is("."):
		return false
	case next.Is(",") || next.Is(";") || next.Is(".") || next.Is(":"):
		return false
	case prev.Kind == Ident && next.Is("!"):
		return false
	case prev.Kind == Ident && (next.IsGroup(Paren) || next.IsGroup(Bracket)):
		return false
	}

	return true
}
