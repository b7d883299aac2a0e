package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/compose/lang"
)

func TestCheck_Run(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.rs",
		"compose!(a = foo, { fn a() {} });\n"+
			"compose!(for n in [a, b] { fn n() {} });\n"+
			"#[compose_item(name = bar)]\nfn name() {}\n")

	var out, errs bytes.Buffer

	ctx := WithIncludePath(t.Context(), []string{dir})
	ctx = WithStreams(ctx, nil, &out, &errs)

	c := &Check{Engine: Engine{Attribute: "compose_item"}, Source: "main.rs"}
	if err := c.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, errs.String())
	}

	path := filepath.Join(dir, "main.rs")
	want := []string{
		path + ":1:1: compose!: 1 pass",
		path + ":2:1: compose!: 2 passes",
		path + ":3:",
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), out.String())
	}

	for i, w := range want {
		if !strings.HasPrefix(lines[i], w) {
			t.Errorf("line %d: expected prefix %q, got %q", i+1, w, lines[i])
		}
	}

	if !strings.HasSuffix(lines[2], "#[compose_item]: 1 pass") {
		t.Errorf("expected attribute summary, got %q", lines[2])
	}
}

func TestCheck_RunQuiet(t *testing.T) {
	var out bytes.Buffer

	ctx := WithStreams(t.Context(),
		strings.NewReader("compose!(a = foo, { fn a() {} });"), &out, &bytes.Buffer{})

	c := &Check{Source: stdinSource, Quiet: true}
	if err := c.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestCheck_RunInvalid(t *testing.T) {
	var out, errs bytes.Buffer

	ctx := WithStreams(t.Context(),
		strings.NewReader("compose!(a = 1, { fn a() {} });\ncompose!(b = to_int(foo), { b });\n"),
		&out, &errs)

	c := &Check{Source: stdinSource}

	err := c.Run(ctx)
	if !errors.Is(err, ErrCheck) {
		t.Fatalf("expected ErrCheck, got %v", err)
	}

	if !errors.Is(err, lang.ErrSubstitution) || !errors.Is(err, lang.ErrInvalidCast) {
		t.Errorf("expected both site errors, got %v", err)
	}

	if n := strings.Count(errs.String(), "error: "); n != 2 {
		t.Errorf("expected 2 diagnostics, got %d:\n%s", n, errs.String())
	}
}
