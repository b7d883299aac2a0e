package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize rewrites s as a valid identifier. Characters that cannot appear
// in an identifier become a single '_', leading and trailing underscores are
// stripped, and a leading digit is prefixed with '_'. The result is never
// empty.
func Normalize(s string) string {
	var (
		b        strings.Builder
		inserted bool
	)

	last := utf8.RuneCountInString(s) - 1

	i := 0
	for _, r := range s {
		strip := b.Len() == 0 || i == last

		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_':
			if b.Len() == 0 && unicode.IsNumber(r) && !inserted {
				b.WriteByte('_')
			} else if r == '_' && strip {
				i++

				continue
			}

			b.WriteRune(r)

			inserted = false

		case !inserted && !strip:
			b.WriteByte('_')

			inserted = true
		}

		i++
	}

	out := b.String()
	if inserted {
		out = out[:len(out)-1]
	}

	if out == "" {
		return "_"
	}

	return out
}
