package log

import (
	"errors"
	"slices"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "trace", want: LevelTrace},
		{in: "TRACE", want: LevelTrace},
		{in: "debug", want: LevelDebug},
		{in: " info ", want: LevelInfo},
		{in: "Warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "info+2", want: LevelInfo + 2},
		{in: "verbose", want: DefaultLevel, wantErr: true},
		{in: "", want: DefaultLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelTrace + 2, "trace+2"},
		{LevelInfo + 1, "info+1"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestLevelUnmarshalText(t *testing.T) {
	var l Level

	if err := l.UnmarshalText([]byte("debug")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}

	if l != LevelDebug {
		t.Errorf("level = %v, want debug", l)
	}

	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText(loud) succeeded, want error")
	}

	if l != LevelDebug {
		t.Errorf("failed UnmarshalText changed level to %v", l)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "TEXT", want: FormatText},
		{in: " pretty", want: FormatPretty},
		{in: "xml", want: DefaultFormat, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidFormat", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIterators(t *testing.T) {
	if got, want := slices.Collect(Levels()), []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	if got, want := slices.Collect(Formats()), []string{"json", "text", "pretty"}; !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}

	for name := range Levels() {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("ParseLevel(%q): %v", name, err)
		}
	}

	for name := range Formats() {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
}
