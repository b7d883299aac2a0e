package repl

import (
	"log/slog"
	"strings"
)

// Error represents a REPL error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	base  *Error
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target.
func (e *Error) Is(target error) bool {
	for b := e; b != nil; b = b.base {
		if b == target {
			return true
		}
	}

	return false
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err
	c.base = e

	return &c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(append([]slog.Attr(nil), e.attrs...), attrs...)
	c.base = e

	return &c
}

// Sentinel errors.
//
//nolint:gochecknoglobals
var (
	ErrOutOfBounds   = NewError("index out of range")
	ErrEditDeclined  = NewError("decline edit")
	ErrLoad          = NewError("load aliases")
	ErrNotDefinition = NewError("expected an alias definition \"name = expr\"")
	ErrUnknownCmd    = NewError("unknown command")
)
