package token

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrLiteral is returned for malformed literal text.
var ErrLiteral = errors.New("malformed literal")

// QuoteStr returns s as an escaped, double-quoted string literal.
func QuoteStr(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u{`)
				b.WriteString(strconv.FormatInt(int64(r), 16))
				b.WriteByte('}')
			} else {
				b.WriteRune(r)
			}
		}
	}

	b.WriteByte('"')

	return b.String()
}

// QuoteRaw returns s as a raw string literal with the fewest '#' that
// delimit it unambiguously.
func QuoteRaw(s string) string {
	hashes := ""
	for strings.Contains(s, `"`+hashes) {
		hashes += "#"
	}

	return "r" + hashes + `"` + s + `"` + hashes
}

// StrValue returns the decoded value of a string literal token along with
// the literal's suffix. Raw forms are returned verbatim.
func StrValue(t Token) (string, error) {
	if t.Kind != Literal {
		return "", ErrLiteral
	}

	text := t.Text

	switch t.Lit {
	case LitStr:
		body, _, err := splitQuoted(text, 0)
		if err != nil {
			return "", err
		}

		return unescape(body)

	case LitRawStr:
		body, _, err := splitQuoted(strings.TrimPrefix(text, "r"), rawHashes(text[1:]))
		if err != nil {
			return "", err
		}

		return body, nil
	}

	return "", ErrLiteral
}

// Requote returns literal t with its value replaced by s, keeping the
// literal's form (normal or raw) and suffix.
func Requote(t Token, s string) Token {
	suffix := ""

	switch t.Lit {
	case LitStr:
		if _, sfx, err := splitQuoted(t.Text, 0); err == nil {
			suffix = sfx
		}

		return t.WithText(QuoteStr(s) + suffix)

	case LitRawStr:
		if _, sfx, err := splitQuoted(
			strings.TrimPrefix(t.Text, "r"), rawHashes(t.Text[1:]),
		); err == nil {
			suffix = sfx
		}

		return t.WithText(QuoteRaw(s) + suffix)
	}

	return t
}

func rawHashes(s string) int {
	return len(s) - len(strings.TrimLeft(s, "#"))
}

// splitQuoted splits text of the form #"body"# (with the given number of
// hashes) into its body and suffix.
func splitQuoted(text string, hashes int) (body, suffix string, err error) {
	fence := strings.Repeat("#", hashes)

	rest, ok := strings.CutPrefix(text, fence+`"`)
	if !ok {
		return "", "", ErrLiteral
	}

	end := strings.LastIndex(rest, `"`+fence)
	if end < 0 {
		return "", "", ErrLiteral
	}

	return rest[:end], rest[end+1+hashes:], nil
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++

			continue
		}

		if i+1 >= len(s) {
			return "", ErrLiteral
		}

		switch e := s[i+1]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(e)
		case 'x':
			if i+4 > len(s) {
				return "", ErrLiteral
			}

			v, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return "", ErrLiteral
			}

			b.WriteByte(byte(v))
			i += 4

			continue
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 || i+3 > len(s) || s[i+2] != '{' {
				return "", ErrLiteral
			}

			hex := strings.ReplaceAll(s[i+3:i+end], "_", "")

			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", ErrLiteral
			}

			b.WriteRune(rune(v))
			i += end + 1

			continue
		case '\n', '\r':
			// Line continuation skips the newline and leading whitespace.
			i += 2
			for i < len(s) && strings.IndexByte(" \t\n\r", s[i]) >= 0 {
				i++
			}

			continue
		default:
			return "", ErrLiteral
		}

		i += 2
	}

	return b.String(), nil
}

// IntValue returns the base-10 digits and the suffix of an integer literal.
// Underscores are dropped and non-decimal radixes are converted.
func IntValue(t Token) (digits, suffix string, err error) {
	if t.Kind != Literal || t.Lit != LitInt {
		return "", "", ErrLiteral
	}

	text := t.Text
	base := 10

	switch {
	case strings.HasPrefix(text, "0x"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0o"):
		base, text = 8, text[2:]
	case strings.HasPrefix(text, "0b"):
		base, text = 2, text[2:]
	}

	end := len(text)

	for i, r := range text {
		if r == '_' {
			continue
		}

		if v := digitValue(r); v < 0 || v >= base {
			end = i

			break
		}
	}

	num := strings.ReplaceAll(text[:end], "_", "")
	if num == "" {
		return "", "", ErrLiteral
	}

	n, ok := new(big.Int).SetString(num, base)
	if !ok {
		return "", "", ErrLiteral
	}

	return n.String(), text[end:], nil
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}
