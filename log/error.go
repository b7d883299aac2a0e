package log

import (
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrInvalidLevel  = NewConfigError("invalid log level")
	ErrInvalidFormat = NewConfigError("invalid log format")
)

// ConfigError represents a logging configuration error with structured logging
// support.
type ConfigError struct {
	msg    string
	detail string
	err    error
	attrs  []slog.Attr
	base   *ConfigError
}

// NewConfigError creates a new ConfigError with a message.
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{msg: msg}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, strings.TrimSpace(e.detail))
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConfigError) Unwrap() error { return e.err }

// Is reports whether e was derived from target.
func (e *ConfigError) Is(target error) bool {
	for b := e; b != nil; b = b.base {
		if b == target {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer.
func (e *ConfigError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.detail != "" {
		attrs = append(attrs, slog.String("value", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new ConfigError wrapping another error.
func (e *ConfigError) Wrap(err error) *ConfigError {
	c := e.derive()
	c.err = err

	return c
}

// Withf returns a copy of e carrying detail, such as the rejected value.
func (e *ConfigError) Withf(detail string) *ConfigError {
	c := e.derive()
	c.detail = detail

	return c
}

// With adds attributes to the error for structured logging.
func (e *ConfigError) With(attrs ...slog.Attr) *ConfigError {
	c := e.derive()
	c.attrs = append(append([]slog.Attr(nil), e.attrs...), attrs...)

	return c
}

func (e *ConfigError) derive() *ConfigError {
	c := *e
	c.base = e

	return &c
}
