package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMakeDefaults(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	if l.caller {
		t.Error("caller enabled by default")
	}

	if l.Output() != &buf {
		t.Error("Output() is not the writer given to Make")
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{LevelInfo, func(l Logger) { l.Info("m") }, true},
		{LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{LevelError, func(l Logger) { l.Warn("m") }, false},
		{LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		tt.log(Make(&buf, WithLevel(tt.level), WithFormat(FormatJSON)))

		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("at level %v: written = %v, want %v (%q)", tt.level, got, tt.want, buf.String())
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	l.Trace("pass started", slog.Int("pass", 2), slog.String("macro", "compose"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}

	want := map[string]any{
		"msg":   "pass started",
		"level": "TRACE",
		"pass":  float64(2),
		"macro": "compose",
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l.Warn("deprecated", slog.String("separator", ";"))

	got := strings.TrimSpace(buf.String())
	if want := "level=WARN msg=deprecated separator=;"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTimeLayout(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 7000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339", "2024-03-09T14:05:06Z"},
		{"Kitchen", "2:05PM"},
		{"DateOnly", "2024-03-09"},
		{"15:04", "14:05"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
			t.Errorf("layout %q: %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestCaller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("here")

	var rec struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}

	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if !strings.HasSuffix(rec.Source.File, "log_test.go") {
		t.Errorf("source file = %q, want the calling test file", rec.Source.File)
	}

	buf.Reset()
	Make(&buf, WithFormat(FormatJSON)).Info("here")

	if strings.Contains(buf.String(), `"source"`) {
		t.Errorf("source included without WithCaller: %s", buf.String())
	}
}

func TestWrapAndWith(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON))
	debug := base.Wrap(WithLevel(LevelDebug))

	base.Debug("hidden")

	if buf.Len() != 0 {
		t.Fatalf("base logger changed by Wrap: %s", buf.String())
	}

	debug.With(slog.String("file", "lib.rs")).Debug("shown")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if rec["file"] != "lib.rs" || rec["msg"] != "shown" {
		t.Errorf("record = %v", rec)
	}
}

func TestZeroLogger(t *testing.T) {
	var l Logger

	l.Trace("x")
	l.InfoContext(t.Context(), "x")
	l.Error("x", slog.Any("error", nil))

	if l.With(slog.Int("n", 1)).Logger != nil {
		t.Error("With on zero Logger returned a live logger")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithFormat(FormatJSON)).Info("live")

	if !strings.Contains(buf.String(), `"live"`) {
		t.Errorf("Wrap of zero Logger did not write: %q", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			l.Info("pass", slog.Int("index", i))
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}

func BenchmarkLoggerInfo(b *testing.B) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON))

	for b.Loop() {
		buf.Reset()
		l.Info("pass", slog.Int("index", 1))
	}
}
