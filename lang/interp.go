package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/compose/lang/token"
)

// interpolate replaces %name% markers in text with the plain-text value of
// the named alias. Whitespace around the name is ignored. A marker naming no
// alias is kept verbatim, closing % included, and scanning resumes after it;
// in strict mode a marker that names a valid identifier but no alias is
// reported through undefined instead. An unterminated % is kept as is.
func interpolate(text string, b *Bindings, undefined func(name string)) (string, bool) {
	var (
		out     strings.Builder
		changed bool
	)

	for {
		i := strings.IndexByte(text, '%')
		if i < 0 {
			break
		}

		out.WriteString(text[:i])
		text = text[i+1:]

		j := strings.IndexByte(text, '%')
		if j < 0 {
			out.WriteByte('%')

			break
		}

		marker := text[:j]
		text = text[j+1:]

		name := strings.TrimSpace(marker)
		if v, ok := b.Lookup(name); ok && name != "" {
			out.WriteString(v.Text())

			changed = true

			continue
		}

		if undefined != nil && token.IsIdentifier(name) {
			undefined(name)
		}

		out.WriteByte('%')
		out.WriteString(marker)
		out.WriteByte('%')
	}

	out.WriteString(text)

	return out.String(), changed
}

// interpolateLiteral interpolates a string literal token, re-encoding the
// result in the literal's original form. Other tokens are returned as is.
func (s *substituter) interpolateLiteral(t token.Token) (token.Token, error) {
	if t.Kind != token.Literal || !t.Lit.IsString() || !strings.Contains(t.Text, "%") {
		return t, nil
	}

	value, err := token.StrValue(t)
	if err != nil {
		return t, nil //nolint:nilerr // malformed literals are left alone
	}

	var missing []string

	var undefined func(string)
	if s.cfg.strict {
		undefined = func(name string) { missing = append(missing, name) }
	}

	text, changed := interpolate(value, s.bindings, undefined)

	if len(missing) > 0 {
		return t, ErrUndefinedAlias.At(t.Span).
			Withf("%" + missing[0] + "% in string literal").
			With(slog.Any("aliases", missing))
	}

	if !changed {
		return t, nil
	}

	s.cfg.logger.TraceContext(s.ctx, "literal interpolated",
		slog.String("before", value),
		slog.String("after", text),
	)

	return token.Requote(t, text), nil
}
