package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestExpander_Expand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"function-like",
			"fn before() {}\ncompose!(a = foo, { fn a() {} });\nfn after() {}",
			"fn before() {}\nfn foo() {}\nfn after() {}",
		},
		{
			"legacy macro name",
			"compose_idents!(a = foo, { fn a() {} });",
			"fn foo() {}",
		},
		{
			"attribute",
			"#[compose_item(name = foo)]\nfn name() {}",
			"fn foo() {}",
		},
		{
			"attribute without arguments",
			"#[compose_item]\nfn keep() {}",
			"fn keep() {}",
		},
		{
			"nested in module",
			"mod m {\n    compose!(a = foo, { fn a() {} });\n}",
			"mod m {\n    fn foo() {}\n}",
		},
		{
			"nested invocation",
			"compose!(a = x, { compose!(b = y, { fn b() {} }); fn a() {} });",
			"fn y() {} fn x() {}",
		},
		{
			"macro_rules untouched",
			"macro_rules! m { () => { compose!(a = x, { fn a() {} }); } }",
			"macro_rules! m { () => { compose!(a = x, { fn a() {} }); } }",
		},
		{
			"no sites",
			"// nothing\nfn main() {}\n",
			"// nothing\nfn main() {}\n",
		},
		{
			"repetition",
			"compose!(for n in [a, b] { fn n() {} });",
			"fn a() {}\nfn b() {}",
		},
	}

	x := NewExpander(WithSeed(1))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := x.Expand(t.Context(), "test.rs", []byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if string(out) != tt.want {
				t.Errorf("expected\n%s\ngot\n%s", tt.want, out)
			}
		})
	}
}

func TestExpander_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"lex", "compose!(a = x, { \"unterminated });", ErrLex},
		{"attribute form", "#[compose_item = 1]\nfn f() {}", ErrParse},
		{"attribute target", "#[compose_item(a = x)]\n42", ErrParse},
		{"substitution", "compose!(a = 1, { fn a() {} });", ErrSubstitution},
	}

	x := NewExpander()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x.Expand(t.Context(), "test.rs", []byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExpander_AllSitesReported(t *testing.T) {
	input := "compose!(a = 1, { fn a() {} });\ncompose!(b = x, b = y, { });"

	_, err := NewExpander().Expand(t.Context(), "test.rs", []byte(input))

	diags := Diagnostics(err)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), err)
	}

	if !errors.Is(diags[0].Err, ErrSubstitution) || !errors.Is(diags[1].Err, ErrDuplicateAlias) {
		t.Errorf("unexpected diagnostics: %v", err)
	}

	if diags[1].Span.Start.Line != 2 {
		t.Errorf("expected second diagnostic on line 2, got %d", diags[1].Span.Start.Line)
	}
}

func TestExpander_MaxRounds(t *testing.T) {
	nest := func(depth int) string {
		s := "fn done() {}"
		for range depth {
			s = "compose!({ " + s + " });"
		}

		return s
	}

	x := NewExpander()

	out, err := x.Expand(t.Context(), "test.rs", []byte(nest(DefaultMaxRounds)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(out) != "fn done() {}" {
		t.Errorf("unexpected output %q", out)
	}

	_, err = x.Expand(t.Context(), "test.rs", []byte(nest(DefaultMaxRounds+1)))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestExpander_Seed(t *testing.T) {
	input := "compose!(h = hash(x), { fn h() {} });\ncompose!(h = hash(x), { fn h() {} });"

	first, err := NewExpander(WithSeed(7)).Expand(t.Context(), "test.rs", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := NewExpander(WithSeed(7)).Expand(t.Context(), "test.rs", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("expected reproducible output, got\n%s\nand\n%s", first, second)
	}

	lines := strings.Split(string(first), "\n")
	if len(lines) != 2 || lines[0] == lines[1] {
		t.Errorf("expected separate invocations to hash differently, got %q", lines)
	}
}

func TestExpander_Options(t *testing.T) {
	input := "my!(a = x, { fn a() {} });\ncompose!(a = y, { fn a() {} });\n#[gen(a = z)]\nfn a() {}"

	x := NewExpander(WithMacroNames("my"), WithAttributeName("gen"))

	out, err := x.Expand(t.Context(), "test.rs", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "fn x() {}\ncompose!(a = y, { fn a() {} });\nfn z() {}"
	if string(out) != want {
		t.Errorf("expected\n%s\ngot\n%s", want, out)
	}
}

func TestExpander_InvalidOption(t *testing.T) {
	_, err := NewExpander(WithFilter("(")).Expand(t.Context(), "test.rs", nil)
	if !errors.Is(err, ErrFilter) {
		t.Errorf("expected ErrFilter, got %v", err)
	}
}

func TestExpander_ExpandReader(t *testing.T) {
	out, err := NewExpander().ExpandReader(t.Context(), "test.rs",
		strings.NewReader("compose!(a = foo, { fn a() {} });"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(out) != "fn foo() {}" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestExpander_Inspect(t *testing.T) {
	ClearCache()

	input := "compose!(for n in [1, 2] a = concat(x, n), { fn a() {} });"
	x := NewExpander(WithSeed(1))

	_, results, err := x.Inspect(t.Context(), "test.rs", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || len(results[0].Expansion.Passes) != 2 || results[0].Cached {
		t.Fatalf("unexpected results: %+v", results)
	}

	_, results, err = x.Inspect(t.Context(), "test.rs", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !results[0].Cached {
		t.Errorf("expected second inspection to hit the cache")
	}
}
