package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo", "ident: foo"},
		{`"foo"`, `str: "foo"`},
		{"upper(foo)", "ident: FOO"},
		{`upper("foo")`, `str: "FOO"`},
		{"lower(FOO)", "ident: foo"},
		{"lower(upper(x))", "ident: x"},
		{"snake_case(FooBar)", "ident: foo_bar"},
		{"camel_case(foo_bar)", "ident: fooBar"},
		{"pascal_case(foo_bar)", "ident: FooBar"},
		{"concat(a, _, bar)", "ident: a_bar"},
		{`concat("a", "b")`, `str: "ab"`},
		{"concat(1, 2)", "int: 12"},
		{"concat(x, 1)", "ident: x1"},
		{"concat(f, n)", "ident: fn"},
		{"normalize(Result<T, E>)", "ident: Result_T_E"},
		{"normalize(&'static str)", "ident: static_str"},
		{`normalize2("hello-world")`, "ident: hello_world"},
		{`to_ident("foo")`, "ident: foo"},
		{"to_str(foo)", `str: "foo"`},
		{"to_int(42)", "int: 42"},
		{"to_path(Vec)", "path: Vec"},
		{"to_type(Vec<u8>)", "type: Vec < u8 >"},
		{"to_expr(raw(a * b))", "expr: a * b"},
		{"raw(u32,)", "tokens: u32 ,"},
		{"concat(self)", "tokens: self"},
		{"concat(Some(1))", "tokens: Some (1)"},
		{"to_tokens(Some(1))", "tokens: Some (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Eval(t.Context(), nil, tt.input, WithSeed(1))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"upper(nope(x))", ErrNoMatchingOverload},
		{"concat()", ErrAmbiguousOverload},
		{"concat(x, Some(1))", ErrEval},
		{"upper(1)", ErrNoMatchingOverload},
		{"upper(a, b)", ErrNoMatchingOverload},
		{"upper(self)", ErrNoMatchingOverload},
		{"to_int(foo)", ErrInvalidCast},
		{`to_ident("not an ident")`, ErrInvalidCast},
		{"to_ident(self)", ErrInvalidCast},
		{"to_expr(raw(fn))", ErrInvalidCast},
		{"concat(a, , b)", ErrUnparsableArgument},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Eval(t.Context(), nil, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEval_KeywordResultIsRaw(t *testing.T) {
	v, err := Eval(t.Context(), nil, "concat(ty, pe)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Tokens) != 1 || !v.Tokens[0].Raw || v.Text() != "type" {
		t.Errorf("expected raw identifier r#type, got %s", texts(v.Tokens))
	}
}

func TestEval_Speculative(t *testing.T) {
	v, err := Eval(t.Context(), nil, "concat(Result<, raw(u32,), String>)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := texts(lexStream(t, "Result<u32, String>"))
	if v.Type != TypeTokens || texts(v.Tokens) != want {
		t.Errorf("expected tokens %q, got %s %q", want, v.Type, texts(v.Tokens))
	}
}

func TestEval_Bindings(t *testing.T) {
	b := NewBindings()

	if err := b.Define("a", NewIdent("foo", testSpan), testSpan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := Eval(t.Context(), b, "concat(a, _, bar)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.String() != "ident: foo_bar" {
		t.Errorf("expected ident: foo_bar, got %s", v)
	}

	err = b.Define("a", NewIdent("baz", testSpan), testSpan)
	if !errors.Is(err, ErrDuplicateAlias) {
		t.Errorf("expected ErrDuplicateAlias, got %v", err)
	}
}

func TestCase_Idempotent(t *testing.T) {
	funcs := []string{"upper", "lower", "snake_case", "camel_case", "pascal_case"}
	inputs := []string{"foo_bar", "FooBar", "fooBar", "FOO_BAR", `"mixed Case words"`}

	for _, fn := range funcs {
		for _, in := range inputs {
			t.Run(fn+"/"+in, func(t *testing.T) {
				once, err := Eval(t.Context(), nil, fn+"("+in+")")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				b := NewBindings()
				if err := b.Define("v", once, testSpan); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				twice, err := Eval(t.Context(), b, fn+"(v)")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if !twice.Equal(once) {
					t.Errorf("%s is not idempotent: %s then %s", fn, once, twice)
				}
			})
		}
	}
}

func TestHash(t *testing.T) {
	scope := NewScope()

	first, err := Eval(t.Context(), nil, "hash(x)", WithScope(scope))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := Eval(t.Context(), nil, "hash(x)", WithScope(scope))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("expected equal hashes in one scope, got %s and %s", first, second)
	}

	if first.Type != TypeIdent || !strings.HasPrefix(first.Text(), "__") {
		t.Errorf("expected __-prefixed ident, got %s", first)
	}

	other, err := Eval(t.Context(), nil, "hash(x)", WithScope(NewScope()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if other.Equal(first) {
		t.Errorf("expected different hashes in different scopes, got %s", other)
	}

	str, err := Eval(t.Context(), nil, `hash("x")`, WithScope(scope))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if str.Type != TypeStr || strings.HasPrefix(str.Text(), "__") {
		t.Errorf("expected unprefixed str, got %s", str)
	}

	tokens, err := Eval(t.Context(), nil, "hash(Vec<u8>)", WithScope(scope))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens.Type != TypeIdent || !strings.HasPrefix(tokens.Text(), "__") {
		t.Errorf("expected __-prefixed ident, got %s", tokens)
	}
}

func TestEval_FuncTable(t *testing.T) {
	_, err := Eval(t.Context(), nil, "upper(x)", WithFuncs(Funcs{}))
	if !errors.Is(err, ErrUndefinedFunction) {
		t.Fatalf("expected ErrUndefinedFunction, got %v", err)
	}

	lower := Funcs{"lower": Builtins()["lower"]}

	v, err := Eval(t.Context(), nil, "lower(X)", WithFuncs(lower))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := v.String(); got != "ident: x" {
		t.Errorf("expected %q, got %q", "ident: x", got)
	}
}

func TestBuiltins_Documented(t *testing.T) {
	for f := range Builtins().All() {
		if f.Doc == "" {
			t.Errorf("%s has no doc", f.Name)
		}

		if len(f.Signatures) == 0 {
			t.Errorf("%s has no signatures", f.Name)
		}
	}
}
