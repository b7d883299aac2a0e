package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the lipgloss styles of the pretty handler.
type styles struct {
	level map[slog.Level]lipgloss.Style
	time  lipgloss.Style
	src   lipgloss.Style
	msg   lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
	err   lipgloss.Style
}

func makeStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	badge := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}

	return styles{
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): badge("8"),
			slog.LevelDebug:        badge("4"),
			slog.LevelInfo:         badge("2"),
			slog.LevelWarn:         badge("3"),
			slog.LevelError:        badge("1"),
		},
		time:  r.NewStyle().Faint(true),
		src:   r.NewStyle().Faint(true).Italic(true),
		msg:   r.NewStyle().Bold(true),
		key:   r.NewStyle().Foreground(lipgloss.Color("8")),
		value: r.NewStyle().Foreground(lipgloss.Color("6")),
		err:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// prettyHandler writes one human-readable line per record:
//
//	15:04:05 INFO  message key=value group.key=value
type prettyHandler struct {
	opts       slog.HandlerOptions
	styles     styles
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	// prefix holds the preformatted attributes added with WithAttrs.
	prefix string
	group  string
	color  bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	color bool,
) *prettyHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &prettyHandler{
		opts:       *opts,
		styles:     makeStyles(w),
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
		color:      color,
	}
}

func (h *prettyHandler) paint(st lipgloss.Style, s string) string {
	if !h.color {
		return s
	}

	return st.Render(s)
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.paint(h.styles.time, ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.badge(r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			buf.WriteByte(' ')
			buf.WriteString(h.paint(h.styles.src,
				filepath.Base(src.File)+":"+strconv.Itoa(src.Line)))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(h.styles.msg, r.Message))
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// badge returns the level name padded to a fixed width.
func (h *prettyHandler) badge(level slog.Level) string {
	name := strings.ToUpper(Level(level).String())
	pad := strings.Repeat(" ", max(0, len("ERROR")-len(name)))

	st, ok := h.styles.level[level]
	if !ok {
		switch {
		case level >= slog.LevelError:
			st = h.styles.level[slog.LevelError]
		case level >= slog.LevelWarn:
			st = h.styles.level[slog.LevelWarn]
		case level >= slog.LevelInfo:
			st = h.styles.level[slog.LevelInfo]
		case level >= slog.LevelDebug:
			st = h.styles.level[slog.LevelDebug]
		default:
			st = h.styles.level[slog.Level(LevelTrace)]
		}
	}

	return h.paint(st, name) + pad
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := key
		if a.Key == "" {
			sub = group
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, sub, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(h.styles.key, key+"="))

	st := h.styles.value
	if isErrorKey(a.Key) {
		st = h.styles.err
	}

	buf.WriteString(h.paint(st, formatValue(a.Value)))
}

func isErrorKey(key string) bool {
	return key == "error" || key == "err" || key == "cause"
}

// formatValue renders v, quoting strings that would be ambiguous unquoted.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}

		return s

	case slog.KindTime:
		return v.Time().Format(time.RFC3339)

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}
	}

	s := v.String()
	if strings.ContainsAny(s, " \t\n") {
		return strconv.Quote(s)
	}

	return s
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var buf bytes.Buffer

	for _, a := range attrs {
		h.writeAttr(&buf, h.group, a)
	}

	c := *h
	c.prefix = h.prefix + buf.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	if c.group == "" {
		c.group = name
	} else {
		c.group += "." + name
	}

	return &c
}
