package token

import (
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fn  foo()->u32{42}", "fn foo () -> u32 { 42 }"},
		{"std::vec::Vec<u8>", "std :: vec :: Vec < u8 >"},
		{"&'static str", "& 'static str"},
		{"{}", "{ }"},
		{"r#type", "r#type"},
		{"a,b", "a , b"},
		{"/// doc\nx", `# [doc = " doc"] x`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Lex("test", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := Canonical(s); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormat_Unmodified(t *testing.T) {
	tests := []string{
		"fn foo() -> u32 {\n    // keep me\n    42\n}",
		"/// Doc line\nstruct S { a: u8, /* inline */ b: u16 }",
		"//! Inner\nmod m {}",
		"let x = [1, 2, 3];",
		"impl<T> Foo<T> where T: Clone {}",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			s, err := Lex("test", input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := Format(s); got != input {
				t.Errorf("expected source preserved\nwant %q\ngot  %q", input, got)
			}
		})
	}
}

func TestFormat_Replaced(t *testing.T) {
	s, err := Lex("test", "fn my_fn() -> u32 { 42 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s[1] = NewIdent("foo_bar", s[1].Span)

	if got, want := Format(s), "fn foo_bar() -> u32 { 42 }"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormat_Synthesized(t *testing.T) {
	span := Span{}
	s := Stream{
		NewIdent("foo", span),
		NewPunct(':', Joint, span),
		NewPunct(':', Alone, span),
		NewIdent("bar", span),
		NewGroup(Paren, Stream{
			NewIdent("a", span),
			NewPunct(',', Alone, span),
			NewIdent("b", span),
		}, span),
		NewPunct(';', Alone, span),
	}

	if got, want := Format(s), "foo::bar(a, b);"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormat_DocResugared(t *testing.T) {
	s, err := Lex("test", "/// Hello, % x %!\nfn f() {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := s[1]
	children := g.Children.Clone()
	children[2] = Requote(children[2], " Hello, foo!")
	s[1] = g.WithChildren(children)

	if got, want := Format(s), "/// Hello, foo!\nfn f() {}"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
