package log

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	cause := errors.New("bad digit")

	tests := []struct {
		name string
		err  *ConfigError
		base *ConfigError
		want string
	}{
		{"sentinel", ErrInvalidLevel, ErrInvalidLevel, "invalid log level"},
		{"detail", ErrInvalidFormat.Withf(" yaml "), ErrInvalidFormat, "invalid log format: yaml"},
		{"wrapped", ErrInvalidLevel.Wrap(cause), ErrInvalidLevel, "invalid log level: bad digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			if !errors.Is(tt.err, tt.base) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.base)
			}

			var ce *ConfigError
			if !errors.As(error(tt.err), &ce) || ce != tt.err {
				t.Errorf("errors.As did not find %v", tt.err)
			}
		})
	}

	if errors.Is(ErrInvalidLevel.Withf("x"), ErrInvalidFormat) {
		t.Error("derived level error matches ErrInvalidFormat")
	}

	if !errors.Is(ErrInvalidLevel.Wrap(cause), cause) {
		t.Error("wrapped error does not match its cause")
	}
}

func TestConfigErrorLogValue(t *testing.T) {
	buf := withDefault(t)

	err := ErrInvalidFormat.Withf("yaml").With(slog.String("flag", "--log-format"))
	Error("config", slog.Any("err", err))

	out := buf.String()
	for _, want := range []string{
		"err.error=\"invalid log format\"",
		"err.value=yaml",
		"err.flag=--log-format",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
