package lang

import (
	"testing"

	"github.com/ardnew/compose/lang/token"
)

//nolint:gochecknoglobals
var testSpan token.Span

func lexStream(t *testing.T, input string) token.Stream {
	t.Helper()

	s, err := token.Lex("test.rs", input)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	return s
}

func parseInvocation(t *testing.T, input string) *Invocation {
	t.Helper()

	inv, err := ParseInvocation(lexStream(t, input))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	return inv
}

func mustCompose(t *testing.T, input string, opts ...Option) *Expansion {
	t.Helper()

	x, err := Compose(t.Context(), parseInvocation(t, input), opts...)
	if err != nil {
		t.Fatalf("unexpected compose error: %v", err)
	}

	return x
}
