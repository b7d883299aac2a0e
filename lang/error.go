package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
)

// Predefined errors (sentinel values).
var (
	ErrUnparsableArgument    = NewError("unparsable argument")
	ErrTypeMismatch          = NewError("type mismatch")
	ErrNoMatchingOverload    = NewError("no matching overload")
	ErrAmbiguousOverload     = NewError("ambiguous overload")
	ErrInvalidCast           = NewError("invalid cast")
	ErrDuplicateAlias        = NewError("duplicate alias")
	ErrForwardAliasReference = NewError("forward alias reference")
	ErrUndefinedAlias        = NewError("undefined alias")
	ErrSubstitution          = NewError("substitution failed")
	ErrUndefinedFunction     = NewError("undefined function")
	ErrMixedSeparators       = NewError("mixed separators")
	ErrEval                  = NewError("evaluation failed")
	ErrParse                 = NewError("invalid invocation")
	ErrLex                   = NewError("invalid source")
	ErrReadInput             = NewError("failed to read input")
	ErrFilter                = NewError("invalid filter")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	span  token.Span
	base  *Error // sentinel this error derives from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is "<location>: <msg>: <err>", omitting whichever parts are
// unset.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if loc := location(e.span); loc != "" {
		part = append(part, loc)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target with Wrap, With, or At.
func (e *Error) Is(target error) bool {
	for b := e; b != nil; b = b.base {
		if b == target {
			return true
		}
	}

	return false
}

// Span returns the source location the error is attributed to.
// It is the zero Span when no location is known.
func (e *Error) Span() token.Span { return e.span }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.span.IsValid() {
		attrs = append(attrs, spanAttrs(e.span)...)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	if !c.span.IsValid() {
		c.span = spanOf(err)
	}

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// At returns a copy of e attributed to span.
func (e *Error) At(span token.Span) *Error {
	c := e.derive()
	c.span = span

	return c
}

// Withf returns a copy of e with its message extended by detail.
func (e *Error) Withf(detail string) *Error {
	c := e.derive()
	c.msg = e.msg + ": " + detail

	return c
}

func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs,
		span:  e.span,
		base:  e,
	}
}

// spanOf returns the span carried by err, if any.
func spanOf(err error) token.Span {
	var (
		le *Error
		se *syntax.Error
		te *token.Error
	)

	switch {
	case errors.As(err, &le) && le.span.IsValid():
		return le.span
	case errors.As(err, &se):
		return se.Span
	case errors.As(err, &te):
		return te.Span
	}

	return token.Span{}
}

func location(span token.Span) string {
	if !span.IsValid() {
		return ""
	}

	var b strings.Builder

	if src := span.Source(); src.Name != "" {
		b.WriteString(src.Name)
		b.WriteByte(':')
	}

	b.WriteString(strconv.Itoa(span.Start.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(span.Start.Column))

	return b.String()
}

// spanAttrs returns structured logging attributes describing span.
func spanAttrs(span token.Span) []slog.Attr {
	if !span.IsValid() {
		return nil
	}

	return []slog.Attr{
		slog.String("file", span.Source().Name),
		slog.Int("line", span.Start.Line),
		slog.Int("column", span.Start.Column),
		slog.Int("offset", span.Start.Offset),
	}
}

// Diagnostic is a located error ready for display.
type Diagnostic struct {
	Err  error
	Span token.Span
}

// Diagnostics splits err into one [Diagnostic] per joined error.
func Diagnostics(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range j.Unwrap() {
			out = append(out, Diagnostics(e)...)
		}

		return out
	}

	return []Diagnostic{{Err: err, Span: spanOf(err)}}
}

// String formats the diagnostic as its message followed by a snippet of the
// offending source line with a caret under the error column. One line of
// context is shown on either side.
func (d Diagnostic) String() string {
	var b strings.Builder

	b.WriteString(d.Err.Error())
	b.WriteByte('\n')
	b.WriteString(d.Snippet())

	return b.String()
}

// Snippet returns the source excerpt of d, or "" when d has no location.
func (d Diagnostic) Snippet() string {
	if !d.Span.IsValid() {
		return ""
	}

	lines := strings.Split(d.Span.Source().Text, "\n")
	line := d.Span.Start.Line

	if line < 1 || line > len(lines) {
		return ""
	}

	first, last := max(line-1, 1), min(line+1, len(lines))
	width := len(strconv.Itoa(last))

	var b strings.Builder

	for n := first; n <= last; n++ {
		num := strconv.Itoa(n)

		b.WriteString("  ")
		b.WriteString(strings.Repeat(" ", width-len(num)))
		b.WriteString(num)
		b.WriteString(" | ")
		b.WriteString(lines[n-1])
		b.WriteByte('\n')

		if n == line {
			// +5 accounts for: 2 leading spaces + " | " (3 chars)
			b.WriteString(strings.Repeat(" ", width+5))
			b.WriteString(caretPad(lines[n-1], d.Span.Start.Column))
			b.WriteString(carets(d.Span))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// caretPad returns the padding before column col of line, keeping tabs so
// the caret lines up in a terminal.
func caretPad(line string, col int) string {
	var b strings.Builder

	i := 1
	for _, r := range line {
		if i >= col {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}

		i++
	}

	return b.String()
}

func carets(span token.Span) string {
	n := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		n = span.End.Column - span.Start.Column
	}

	return strings.Repeat("^", n)
}
