package lang

import (
	"slices"
	"testing"

	"github.com/ardnew/compose/lang/token"
)

func TestInterpolate(t *testing.T) {
	b := NewBindings()
	if err := b.Define("X", NewInt("5", token.Span{}), token.Span{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		input   string
		want    string
		changed bool
	}{
		{"%X%", "5", true},
		{"% X %", "5", true},
		{"no markers", "no markers", false},
		{"100%% of %X%", "100%% of 5", true},
		{"%%", "%%", false},
		{"%a %X% b%", "%a %X% b%", false},
		{"%a% %X%", "%a% 5", true},
		{"50% off", "50% off", false},
		{"%X% and 50%", "5 and 50%", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, changed := interpolate(tt.input, b, nil)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if changed != tt.changed {
				t.Errorf("expected changed %v, got %v", tt.changed, changed)
			}
		})
	}
}

func TestInterpolate_Undefined(t *testing.T) {
	var missing []string

	got, _ := interpolate("%a %b% c%", NewBindings(), func(name string) {
		missing = append(missing, name)
	})

	if got != "%a %b% c%" {
		t.Errorf("expected text unchanged, got %q", got)
	}

	if want := []string{"a", "c"}; !slices.Equal(missing, want) {
		t.Errorf("expected undefined %v, got %v", want, missing)
	}
}
