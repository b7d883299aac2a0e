package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestLoadYAML(t *testing.T) {
	src := `
log:
  level: debug
  time_layout: kitchen
log_format: json
workers: 4
ratio: 0.5
strict: true
include: [src, vendor/src]
macro:
  - compose
  - 7
`

	r, err := loadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"log-level":       "debug",
		"log-time-layout": "kitchen",
		"log-format":      "json",
		"workers":         "4",
		"ratio":           "0.5",
		"strict":          true,
		"include":         "src,vendor/src",
		"macro":           "compose,7",
	}

	for name, value := range want {
		got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
		if err != nil {
			t.Fatalf("Resolve(%q): unexpected error: %v", name, err)
		}

		if got != value {
			t.Errorf("Resolve(%q) = %#v, want %#v", name, got, value)
		}
	}

	got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "missing"}})
	if got != nil || err != nil {
		t.Errorf("expected no value for missing flag, got %#v, %v", got, err)
	}

	if err := r.Validate(nil); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	for _, src := range []string{"", "\n"} {
		r, err := loadYAML(strings.NewReader(src))
		if err != nil {
			t.Fatalf("loadYAML(%q): unexpected error: %v", src, err)
		}

		if got, _ := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "seed"}}); got != nil {
			t.Errorf("expected no values, got %#v", got)
		}
	}
}

func TestLoadYAML_Invalid(t *testing.T) {
	if _, err := loadYAML(strings.NewReader("- just\n- a list\n")); err == nil {
		t.Error("expected error for non-mapping document")
	}
}

func TestLoadYAML_Parser(t *testing.T) {
	var cli struct {
		Level   string   `default:"info"`
		Workers int      `default:"0"`
		Include []string `sep:","`
	}

	parser, err := kong.New(&cli,
		kong.Resolvers(mustLoad(t, "level: warn\nworkers: 3\ninclude: [a, b]\n")),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := parser.Parse([]string{"--workers=5"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cli.Level != "warn" || cli.Workers != 5 || strings.Join(cli.Include, ":") != "a:b" {
		t.Errorf("unexpected flags %+v", cli)
	}
}

func mustLoad(t *testing.T, src string) kong.Resolver {
	t.Helper()

	r, err := loadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return r
}
