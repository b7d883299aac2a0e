package repl

import (
	"errors"
	"testing"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

func newTestSession() *Session {
	return NewSession(log.Logger{}, lang.NewSeededScope(1))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantExpr string
	}{
		{"a = foo", "a", "foo"},
		{"name = concat(a, _, b)", "name", "concat(a, _, b)"},
		{"  spaced   =   upper(x) ", "spaced", "upper(x)"},
		{"concat(a, b)", "", "concat(a, b)"},
		{"a == b", "", "a == b"},
		{"a => b", "", "a => b"},
		{"foo", "", "foo"},
		{"1 = 2", "", "1 = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			line, err := ParseLine("test", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if line.Name != tt.wantName || line.Expr != tt.wantExpr {
				t.Errorf("ParseLine(%q) = (%q, %q), want (%q, %q)",
					tt.input, line.Name, line.Expr, tt.wantName, tt.wantExpr)
			}

			if line.IsDefinition() != (tt.wantName != "") {
				t.Errorf("IsDefinition() = %v", line.IsDefinition())
			}
		})
	}
}

func TestParseLine_LexError(t *testing.T) {
	if _, err := ParseLine("test", `a = "unterminated`); !errors.Is(err, lang.ErrLex) {
		t.Errorf("expected ErrLex, got %v", err)
	}
}

func TestSession_Exec(t *testing.T) {
	s := newTestSession()

	steps := []struct {
		input string
		want  string
	}{
		{"a = foo", "ident: foo"},
		{"b = concat(a, _, bar)", "ident: foo_bar"},
		{"upper(b)", "ident: FOO_BAR"},
		{`concat("x", "y")`, `str: "xy"`},
		{"a = baz", "ident: baz"},
		{"concat(a, b)", "ident: bazfoo_bar"},
	}

	for _, step := range steps {
		v, err := s.Exec(t.Context(), step.input)
		if err != nil {
			t.Fatalf("Exec(%q): unexpected error: %v", step.input, err)
		}

		if v.String() != step.want {
			t.Errorf("Exec(%q) = %s, want %s", step.input, v, step.want)
		}
	}

	aliases := s.Aliases()
	if len(aliases) != 2 {
		t.Fatalf("expected 2 aliases, got %d", len(aliases))
	}

	// Redefinition moves the alias to the end.
	if aliases[0].Name != "b" || aliases[1].Name != "a" {
		t.Errorf("unexpected alias order: %s, %s", aliases[0].Name, aliases[1].Name)
	}
}

func TestSession_ExecError(t *testing.T) {
	s := newTestSession()

	if _, err := s.Exec(t.Context(), "to_int(foo)"); !errors.Is(err, lang.ErrInvalidCast) {
		t.Errorf("expected ErrInvalidCast, got %v", err)
	}

	if _, err := s.Exec(t.Context(), "a = upper(1)"); !errors.Is(err, lang.ErrNoMatchingOverload) {
		t.Errorf("expected ErrNoMatchingOverload, got %v", err)
	}

	if n := len(s.Aliases()); n != 0 {
		t.Errorf("failed definition left %d aliases", n)
	}
}

func TestSession_HashStable(t *testing.T) {
	s := newTestSession()

	first, err := s.Exec(t.Context(), "hash(x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := s.Exec(t.Context(), "hash(x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("hash changed within a session: %s then %s", first, second)
	}
}

func TestSession_Load(t *testing.T) {
	src := "// aliases\n\na = foo\n# more\nb = concat(a, _, 1)\n"

	s := newTestSession()
	if err := s.Load(t.Context(), "aliases.txt", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := s.Eval(t.Context(), "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.String() != "ident: foo_1" {
		t.Errorf("expected ident: foo_1, got %s", v)
	}
}

func TestSession_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"expression", "a = foo\nconcat(a, b)\n", ErrNotDefinition},
		{"evaluation", "a = to_int(foo)\n", lang.ErrInvalidCast},
		{"lex", "a = \"open\n", lang.ErrLex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestSession().Load(t.Context(), "aliases.txt", []byte(tt.src))
			if !errors.Is(err, ErrLoad) || !errors.Is(err, tt.want) {
				t.Errorf("expected ErrLoad wrapping %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSession_SourceReload(t *testing.T) {
	s := newTestSession()

	for _, line := range []string{
		"a = foo",
		`b = "text"`,
		"c = 42",
		"p = to_path(raw(std::mem))",
		"t = raw(a, b)",
	} {
		if _, err := s.Exec(t.Context(), line); err != nil {
			t.Fatalf("Exec(%q): unexpected error: %v", line, err)
		}
	}

	want := s.Aliases()

	r := newTestSession()
	if err := r.Reload(t.Context(), "source", []byte(s.Source())); err != nil {
		t.Fatalf("reload of\n%s\nfailed: %v", s.Source(), err)
	}

	got := r.Aliases()
	if len(got) != len(want) {
		t.Fatalf("expected %d aliases, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i].Name != want[i].Name || got[i].Value.String() != want[i].Value.String() {
			t.Errorf("alias %d: expected %s = %s, got %s = %s", i,
				want[i].Name, want[i].Value, got[i].Name, got[i].Value)
		}
	}
}

func TestSession_ReloadKeepsAliasesOnError(t *testing.T) {
	s := newTestSession()

	if _, err := s.Exec(t.Context(), "a = foo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Reload(t.Context(), "source", []byte("b = to_int(foo)\n")); err == nil {
		t.Fatal("expected error")
	}

	aliases := s.Aliases()
	if len(aliases) != 1 || aliases[0].Name != "a" || aliases[0].Value.Text() != "foo" {
		t.Errorf("expected alias a to survive, got %v", aliases)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession()

	if _, err := s.Exec(t.Context(), "a = foo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Reset()

	if n := len(s.Aliases()); n != 0 {
		t.Errorf("expected no aliases, got %d", n)
	}

	v, err := s.Eval(t.Context(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.String() != "ident: a" {
		t.Errorf("expected a to be a plain identifier, got %s", v)
	}
}
