package syntax

import (
	"strings"
	"testing"

	"github.com/ardnew/compose/lang/token"
)

// layout renders pieces as "Cat[tokens]" terms, with nested groups written
// as {...} around the layout of their children.
func layout(pieces []Piece) string {
	parts := make([]string, 0, len(pieces))

	for _, pc := range pieces {
		switch {
		case pc.Nested():
			g := pc.Tokens[0]
			parts = append(parts, g.Delim.Open()+layout(pc.Inner)+g.Delim.Close())
		case pc.Cat == CatNone:
			parts = append(parts, token.Canonical(pc.Tokens))
		default:
			parts = append(parts, pc.Cat.String()+"["+token.Canonical(pc.Tokens)+"]")
		}
	}

	return strings.Join(parts, " ")
}

// flatten reassembles the token stream covered by pieces.
func flatten(pieces []Piece) token.Stream {
	var out token.Stream

	for _, pc := range pieces {
		if pc.Nested() {
			out = append(out, pc.Tokens[0].WithChildren(flatten(pc.Inner)))

			continue
		}

		out = append(out, pc.Tokens...)
	}

	return out
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "function",
			input: "fn a() { let x = 1; x }",
			want:  "function signature[fn a ()] {statements[let x = 1 ;] statements[x]}",
		},
		{
			name:  "non-recursive items",
			input: "struct S; const N: u8 = 1;",
			want:  "item[struct S ;] item[const N : u8 = 1 ;]",
		},
		{
			name:  "attributes and visibility",
			input: "#[inline] pub fn f() {}",
			want:  "attributes[# [inline]] visibility[pub] function signature[fn f ()] {}",
		},
		{
			name:  "impl",
			input: "impl<T> Tr for S<T> where T: Copy { const C: u8 = 0; fn m(&self) {} }",
			want: "impl generic parameters[< T >] trait reference[Tr] for type[S < T >] " +
				"where clause[where T : Copy] " +
				"{associated item[const C : u8 = 0 ;] function signature[fn m (& self)] {}}",
		},
		{
			name:  "trait",
			input: "trait T: Clone { fn d() -> u8 { 0 } fn r(); }",
			want: "trait identifier[T] : bounds[Clone] " +
				"{function signature[fn d () -> u8] {statements[0]} associated item[fn r () ;]}",
		},
		{
			name:  "module",
			input: "mod m { #![allow(x)] use a::b; }",
			want:  "mod identifier[m] {inner attributes[#! [allow (x)]] item[use a :: b ;]}",
		},
		{
			name:  "extern block",
			input: `extern "C" { fn abs(x: i32) -> i32; }`,
			want:  `extern ABI["C"] {foreign item[fn abs (x : i32) -> i32 ;]}`,
		},
		{
			name:  "nested function",
			input: "fn outer() { fn inner() { 1 } inner() }",
			want: "function signature[fn outer ()] " +
				"{function signature[fn inner ()] {statements[1]} statements[inner ()]}",
		},
		{
			name:  "empty statements",
			input: "f(); ; g()",
			want:  "statements[f () ;] ; statements[g ()]",
		},
		{
			name:  "bodiless function",
			input: "fn f();",
			want:  "item[fn f () ;]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := lex(t, tt.input)

			pieces, err := Decompose(s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := layout(pieces); got != tt.want {
				t.Errorf("unexpected layout\nwant %s\ngot  %s", tt.want, got)
			}

			if got, want := token.Canonical(flatten(pieces)), token.Canonical(s); got != want {
				t.Errorf("pieces do not cover input\nwant %s\ngot  %s", want, got)
			}

			for _, pc := range leaves(pieces) {
				if err := Check(pc.Cat, pc.Tokens); err != nil {
					t.Errorf("leaf %s does not check: %v", pc.Cat, err)
				}
			}
		})
	}
}

func leaves(pieces []Piece) []Piece {
	var out []Piece

	for _, pc := range pieces {
		switch {
		case pc.Nested():
			out = append(out, leaves(pc.Inner)...)
		case pc.Cat != CatNone:
			out = append(out, pc)
		}
	}

	return out
}

func TestDecompose_Error(t *testing.T) {
	_, err := Decompose(lex(t, "fn a() {} fn b() -> {}"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !strings.Contains(err.Error(), "expected") {
		t.Errorf("unexpected error %q", err)
	}
}
