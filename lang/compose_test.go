package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/compose/lang/token"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"alias reuse",
			"a = foo, b = concat(a, _, bar), { fn b() {} }",
			"fn foo_bar () { }",
		},
		{
			"no aliases",
			"{ fn keep() {} }",
			"fn keep () { }",
		},
		{
			"trailing separator",
			"a = x, { let a = 1; },",
			"let x = 1 ;",
		},
		{
			"nested bodies",
			"T = Foo, m = make, { impl T { fn m() -> T { T } } }",
			"impl Foo { fn make () -> Foo { Foo } }",
		},
		{
			"lifetime name",
			"a = b, { fn f<'a>(x: &'a str) {} }",
			"fn f < 'b > (x : & 'b str) { }",
		},
		{
			"raw idents untouched",
			"a = x, { fn r#a() {} }",
			"fn r#a () { }",
		},
		{
			"replacement by many tokens",
			"T = to_type(Option<u8>), { fn f() -> T { None } }",
			"fn f () -> Option < u8 > { None }",
		},
		{
			"loop",
			"for n in [1, 2] { const X: u8 = n; }",
			"const X : u8 = 1 ; const X : u8 = 2 ;",
		},
		{
			"tuple loop",
			"for (T, n) in [(u8, 8), (u16, 16)] { const M: T = n; }",
			"const M : u8 = 8 ; const M : u16 = 16 ;",
		},
		{
			"tuple as single value",
			"for T in [(u8, u16)] { type P = T; }",
			"type P = (u8 , u16) ;",
		},
		{
			"wildcard pattern",
			"for _ in [a, b] { x(); }",
			"x () ; x () ;",
		},
		{
			"empty loop",
			"for n in [] { const X: u8 = n; }",
			"",
		},
		{
			"unknown call is an expression",
			"v = Some(1), { let x = v; }",
			"let x = Some (1) ;",
		},
		{
			"loop variable in alias",
			"for n in [x, y] f = concat(get_, n), { fn f() {} }",
			"fn get_x () { } fn get_y () { }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := mustCompose(t, tt.input, WithSeed(1))

			if got := token.Canonical(x.Output); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCompose_CartesianOrder(t *testing.T) {
	x := mustCompose(t,
		"for a in [x, y] for b in [1, 2] name = concat(a, _, b), { fn name() {} }")

	want := []string{"x_1", "x_2", "y_1", "y_2"}
	if len(x.Passes) != len(want) {
		t.Fatalf("expected %d passes, got %d", len(want), len(x.Passes))
	}

	for i, p := range x.Passes {
		v, err := p.Bindings.Get("name")
		if err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}

		if v.Text() != want[i] {
			t.Errorf("pass %d: expected %s, got %s", i, want[i], v.Text())
		}

		if got := token.Canonical(p.Output); got != "fn "+want[i]+" () { }" {
			t.Errorf("pass %d: unexpected output %q", i, got)
		}
	}
}

func TestCompose_WorkersPreserveOrder(t *testing.T) {
	input := "for p in [a, b, c, d, e, f, g, h] for q in [1, 2, 3] n = concat(p, q), { fn n() {} }"

	serial := token.Canonical(mustCompose(t, input, WithWorkers(1)).Output)

	for _, workers := range []int{2, 8, 64} {
		got := token.Canonical(mustCompose(t, input, WithWorkers(workers)).Output)
		if got != serial {
			t.Errorf("workers=%d: expected %q, got %q", workers, serial, got)
		}
	}
}

func TestCompose_HashSpansPasses(t *testing.T) {
	x := mustCompose(t, "for n in [1, 2] h = hash(x), { fn h() {} }")

	first, _ := x.Passes[0].Bindings.Get("h")
	second, _ := x.Passes[1].Bindings.Get("h")

	if !first.Equal(second) {
		t.Errorf("expected equal hashes across passes, got %s and %s", first, second)
	}

	other := mustCompose(t, "h = hash(x), { fn h() {} }")
	third, _ := other.Passes[0].Bindings.Get("h")

	if third.Equal(first) {
		t.Errorf("expected separate invocations to hash differently")
	}
}

func TestCompose_Interpolation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaced", `X = FOO_BAR, { const S: &str = "This is % X %"; }`, `"This is FOO_BAR"`},
		{"unspaced", `X = FOO_BAR, { const S: &str = "%X%"; }`, `"FOO_BAR"`},
		{"unknown verbatim", `X = FOO_BAR, { const S: &str = "% unknown %"; }`, `"% unknown %"`},
		{"double percent verbatim", `X = 5, { const S: &str = "100%% of %X%"; }`, `"100%% of 5"`},
		{"unknown marker consumed", `X = 5, { const S: &str = "%a %X% b%"; }`, `"%a %X% b%"`},
		{"unterminated", `X = 5, { const S: &str = "50% off"; }`, `"50% off"`},
		{"str value", `X = "a b", { const S: &str = "[%X%]"; }`, `"[a b]"`},
		{"raw string", `X = y, { const S: &str = r#"%X%"#; }`, `r"y"`},
		{"doc comment", "X = y, { /// Returns %X%.\nfn f() {} }", `" Returns y."`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := mustCompose(t, tt.input)

			if got := token.Canonical(x.Output); !strings.Contains(got, tt.want) {
				t.Errorf("expected output to contain %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCompose_StrictFormat(t *testing.T) {
	inv := parseInvocation(t, `X = y, { const S: &str = "%unknown%"; }`)

	_, err := Compose(t.Context(), inv, WithStrictFormat(true))
	if !errors.Is(err, ErrUndefinedAlias) {
		t.Errorf("expected ErrUndefinedAlias, got %v", err)
	}

	if _, err := Compose(t.Context(), inv); err != nil {
		t.Errorf("unexpected error without strict mode: %v", err)
	}
}

func TestCompose_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate", "a = x, a = y, { }", ErrDuplicateAlias},
		{"loop and alias duplicate", "for a in [x] a = y, { }", ErrDuplicateAlias},
		{"forward reference", "a = b, b = x, { }", ErrForwardAliasReference},
		{"self reference", "a = concat(a, x), { }", ErrForwardAliasReference},
		{"tuple shape", "for (a, b) in [x] { }", ErrTypeMismatch},
		{"tuple arity", "for (a, b) in [(x, y, z)] { }", ErrTypeMismatch},
		{"no overload", "a = upper(1), { }", ErrNoMatchingOverload},
		{"ident concat of expression", "a = concat(x, Some(1)), { fn a() {} }", ErrEval},
		{"invalid substitution", "a = 1, { fn a() {} }", ErrSubstitution},
		{"invalid block", "a = x, { fn }", ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(t.Context(), parseInvocation(t, tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCompose_ErrorLocality(t *testing.T) {
	input := "name = 1,\n" +
		"{\n" +
		"    fn f() {}\n" +
		"    fn name() {}\n" +
		"    fn g() { let x: name = 0; }\n" +
		"}"

	_, err := Compose(t.Context(), parseInvocation(t, input))
	if !errors.Is(err, ErrSubstitution) {
		t.Fatalf("expected ErrSubstitution, got %v", err)
	}

	diags := Diagnostics(err)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), err)
	}

	want := [][2]int{{4, 8}, {5, 21}}
	for i, d := range diags {
		if d.Span.Start.Line != want[i][0] || d.Span.Start.Column != want[i][1] {
			t.Errorf("diagnostic %d: expected %d:%d, got %d:%d", i,
				want[i][0], want[i][1], d.Span.Start.Line, d.Span.Start.Column)
		}

		if !strings.Contains(d.Snippet(), "^^^^") {
			t.Errorf("diagnostic %d: expected caret snippet, got\n%s", i, d.Snippet())
		}
	}
}

func TestCompose_Deprecations(t *testing.T) {
	input := "a = [x, y]; { fn a() {} }"

	x := mustCompose(t, input)

	if got := token.Canonical(x.Output); got != "fn xy () { }" {
		t.Errorf("expected legacy concatenation, got %q", got)
	}

	if len(x.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", x.Warnings)
	}

	_, err := Compose(t.Context(), parseInvocation(t, input), WithDeprecations(false))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestCompose_ArrayTypeIsNotLegacy(t *testing.T) {
	x := mustCompose(t, "T = [u8; 4], { type A = T; }")

	if got := token.Canonical(x.Output); got != "type A = [u8 ; 4] ;" {
		t.Errorf("unexpected output %q", got)
	}

	if len(x.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", x.Warnings)
	}
}

func TestCompose_Filter(t *testing.T) {
	tests := []struct {
		filter string
		want   string
	}{
		{"n != 2", "const X : u8 = 1 ; const X : u8 = 3 ;"},
		{"pass == 0", "const X : u8 = 1 ;"},
		{"n > 1 && n < 3", "const X : u8 = 2 ;"},
		{"false", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			x := mustCompose(t, "for n in [1, 2, 3] { const X: u8 = n; }", WithFilter(tt.filter))

			if got := token.Canonical(x.Output); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCompose_InvalidFilter(t *testing.T) {
	inv := parseInvocation(t, "for n in [1] { }")

	for _, filter := range []string{"n +", `"not bool"`} {
		_, err := Compose(t.Context(), inv, WithFilter(filter))
		if !errors.Is(err, ErrFilter) {
			t.Errorf("%q: expected ErrFilter, got %v", filter, err)
		}
	}
}

func TestCompose_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Compose(ctx, parseInvocation(t, "for n in [1, 2] { }"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExpansion_Text(t *testing.T) {
	x := mustCompose(t, "for n in [1, 2] { let v = n; }")

	if got := x.Text(); got != "let v = 1;\nlet v = 2;" {
		t.Errorf("unexpected text %q", got)
	}
}
