package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/compose/lang"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   call
	}{
		{"", 0, call{}},
		{"foo", 3, call{}},
		{"upper(", 6, call{name: "upper", inCall: true}},
		{"concat(a, b", 11, call{name: "concat", argIndex: 1, inCall: true}},
		{"concat(a, upper(b), ", 20, call{name: "concat", argIndex: 2, inCall: true}},
		{"concat(a, upper(b", 17, call{name: "upper", inCall: true}},
		{"raw([a, b], ", 12, call{name: "raw", argIndex: 1, inCall: true}},
		{"x = [a, ", 8, call{}},
		{"(a, b", 5, call{}},
		{"upper(a)", 8, call{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := detectCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectCall(%q, %d) = %+v, want %+v", tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestPickSignature(t *testing.T) {
	funcs := lang.Builtins()

	upper := funcs["upper"]
	if sig := pickSignature(upper, 0); sig != upper.Signatures[0] {
		t.Errorf("expected first overload of upper, got %s", sig)
	}

	// No overload of upper takes a second argument.
	if sig := pickSignature(upper, 3); sig != upper.Signatures[0] {
		t.Errorf("expected fallback to first overload, got %s", sig)
	}

	concat := funcs["concat"]
	if sig := pickSignature(concat, 5); !sig.Variadic() {
		t.Errorf("expected a variadic overload of concat, got %s", sig)
	}
}

func TestRenderSignatureHint(t *testing.T) {
	funcs := lang.Builtins()

	if got := renderSignatureHint(funcs, "nope", 0); got != "" {
		t.Errorf("expected no hint for unknown function, got %q", got)
	}

	got := renderSignatureHint(funcs, "upper", 0)
	for _, want := range []string{"upper", "(", ") -> ", "+1 overload"} {
		if !strings.Contains(got, want) {
			t.Errorf("hint %q does not contain %q", got, want)
		}
	}

	if got := renderSignatureHint(funcs, "concat", 0); !strings.Contains(got, "overloads") {
		t.Errorf("hint %q does not count overloads", got)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{0, "alias", "0 aliases"},
		{1, "alias", "1 alias"},
		{2, "alias", "2 aliases"},
		{1, "overload", "1 overload"},
		{3, "overload", "3 overloads"},
	}

	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}
