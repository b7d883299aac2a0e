package cmd

import (
	"errors"
	"testing"
)

func TestParseSeed(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		ok      bool
		wantErr bool
	}{
		{"", 0, false, false},
		{"  ", 0, false, false},
		{"0", 0, true, false},
		{"42", 42, true, false},
		{"0x2a", 42, true, false},
		{"0o52", 42, true, false},
		{"0b101010", 42, true, false},
		{"18446744073709551615", 1<<64 - 1, true, false},
		{"-1", 0, false, true},
		{"seed", 0, false, true},
		{"18446744073709551616", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok, err := parseSeed(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSeed) {
					t.Errorf("expected ErrInvalidSeed, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want || ok != tt.ok {
				t.Errorf("parseSeed(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEngine_Options(t *testing.T) {
	e := Engine{Seed: "nope"}
	if _, err := e.options(t.Context()); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}

	e = Engine{Seed: "7", Macro: []string{"compose"}, Attribute: "compose_item"}

	opts, err := e.options(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(opts) == 0 {
		t.Error("expected options")
	}
}
