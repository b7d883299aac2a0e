package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyOutput(t *testing.T) {
	tests := []struct {
		name string
		log  func(Logger)
		want string
	}{
		{
			name: "message",
			log:  func(l Logger) { l.Info("expanded") },
			want: "INFO  expanded",
		},
		{
			name: "attrs",
			log: func(l Logger) {
				l.Debug("pass started", slog.Int("pass", 0), slog.String("file", "lib.rs"))
			},
			want: "DEBUG pass started pass=0 file=lib.rs",
		},
		{
			name: "quoted",
			log: func(l Logger) {
				l.Warn("deprecated", slog.String("hint", "use concat"), slog.String("empty", ""))
			},
			want: `WARN  deprecated hint="use concat" empty=""`,
		},
		{
			name: "group",
			log: func(l Logger) {
				l.Error("failed", slog.Group("span", slog.Int("line", 3), slog.Int("col", 7)))
			},
			want: "ERROR failed span.line=3 span.col=7",
		},
		{
			name: "error value",
			log:  func(l Logger) { l.Error("failed", slog.Any("error", errors.New("bad token"))) },
			want: `ERROR failed error="bad token"`,
		},
		{
			name: "trace",
			log:  func(l Logger) { l.Trace("token") },
			want: "TRACE token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithFormat(FormatPretty), WithLevel(LevelTrace), WithTimeLayout("")))

			if got := strings.TrimSuffix(buf.String(), "\n"); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatPretty), WithTimeLayout(""))
	h := l.Handler().WithAttrs([]slog.Attr{slog.String("file", "a.rs")}).WithGroup("site")

	slog.New(h).Info("found", slog.Int("line", 2))

	if got, want := strings.TrimSpace(buf.String()), "INFO  found file=a.rs site.line=2"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyTimestamp(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatPretty), WithTimeLayout("DateOnly")).Info("m")

	fields := strings.Fields(buf.String())
	if len(fields) != 3 || len(fields[0]) != len("2006-01-02") || fields[1] != "INFO" {
		t.Errorf("output = %q, want date, level, and message", buf.String())
	}
}

func TestPrettyNoColorWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatPretty), WithPretty(true), WithTimeLayout("")).Info("plain")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape sequences written to a non-terminal: %q", buf.String())
	}

	if IsTerminal(&buf) {
		t.Error("IsTerminal(bytes.Buffer) = true")
	}
}
