package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/compose/lang/token"
)

// Value is a typed unit of data flowing through evaluation.
//
// Every Value can be rendered to tokens. Str, Int, and Ident values also
// keep their plain text: the decoded string content, the base-10 digits,
// and the identifier name.
type Value struct {
	Tokens token.Stream
	Span   token.Span
	text   string
	Type   Type
}

// NewIdent returns an ident value.
func NewIdent(name string, span token.Span) Value {
	t := token.NewIdent(name, span)

	return Value{
		Type:   TypeIdent,
		Tokens: token.Stream{t},
		Span:   span,
		text:   t.Text,
	}
}

// NewStr returns a str value holding s.
func NewStr(s string, span token.Span) Value {
	return Value{
		Type:   TypeStr,
		Tokens: token.Stream{token.NewLiteral(token.LitStr, token.QuoteStr(s), span)},
		Span:   span,
		text:   s,
	}
}

// NewInt returns an int value from base-10 digits.
func NewInt(digits string, span token.Span) Value {
	return Value{
		Type:   TypeInt,
		Tokens: token.Stream{token.NewLiteral(token.LitInt, digits, span)},
		Span:   span,
		text:   digits,
	}
}

// NewTokens returns a value of type t rendering as ts. For the text-bearing
// types, ts must be a single ident or literal token of that type.
func NewTokens(t Type, ts token.Stream) Value {
	if len(ts) == 1 {
		if v, ok := valueOf(ts[0]); ok && v.Type == t {
			return v
		}
	}

	return Value{Type: t, Tokens: ts, Span: ts.Span()}
}

// valueOf converts a single literal or ident token into a value, keeping its
// original token so suffixes and spans survive rendering.
func valueOf(t token.Token) (Value, bool) {
	v := Value{Tokens: token.Stream{t}, Span: t.Span}

	switch {
	case t.Kind == token.Ident:
		v.Type, v.text = TypeIdent, t.Text
	case t.Kind == token.Literal && t.Lit.IsString():
		s, err := token.StrValue(t)
		if err != nil {
			return Value{}, false
		}

		v.Type, v.text = TypeStr, s
	case t.Kind == token.Literal && t.Lit == token.LitInt:
		digits, _, err := token.IntValue(t)
		if err != nil {
			return Value{}, false
		}

		v.Type, v.text = TypeInt, digits
	default:
		return Value{}, false
	}

	return v, true
}

// Text returns v as plain text: a str's content, an ident's name (without
// any r# prefix), an int's digits, or otherwise the canonical rendering of
// its tokens.
func (v Value) Text() string {
	switch v.Type {
	case TypeStr, TypeInt, TypeIdent:
		return v.text
	}

	return token.Canonical(v.Tokens)
}

// String returns v formatted as "type: text".
func (v Value) String() string {
	var b strings.Builder

	b.WriteString(v.Type.String())
	b.WriteString(": ")

	switch v.Type {
	case TypeStr, TypeInt:
		b.WriteString(token.Canonical(v.Tokens))
	default:
		b.WriteString(v.Text())
	}

	return b.String()
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", v.Type.String()),
		slog.String("value", token.Canonical(v.Tokens)),
	)
}

// Equal reports whether v and w have the same type and rendering.
func (v Value) Equal(w Value) bool {
	return v.Type == w.Type && token.Canonical(v.Tokens) == token.Canonical(w.Tokens)
}

// at returns the tokens of v repositioned at span, for splicing into code
// at an alias occurrence.
func (v Value) at(span token.Span) token.Stream {
	return respan(v.Tokens, span)
}

func respan(ts token.Stream, span token.Span) token.Stream {
	out := make(token.Stream, len(ts))

	for i, t := range ts {
		if t.Kind == token.Group {
			t.Children = respan(t.Children, span)
		}

		out[i] = t.WithSpan(span)
	}

	return out
}
