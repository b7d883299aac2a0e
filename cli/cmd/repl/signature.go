package repl

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/compose/lang"
)

//nolint:gochecknoglobals
var (
	signatureStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// call is a function call enclosing the cursor.
type call struct {
	name     string
	argIndex int // argument under the cursor (0-based)
	inCall   bool
}

// detectCall reports the innermost function call whose argument list
// contains the cursor, and which argument the cursor is in.
func detectCall(input string, cursor int) call {
	cursor = min(max(cursor, 0), len(input))

	open := -1
	depth := 0

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 {
				if r == '(' {
					open = i
				}

				break scan
			}

			depth--
		}
	}

	if open < 0 {
		return call{}
	}

	name, _, _ := wordBounds(input, open)
	if name == "" {
		return call{}
	}

	arg := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return call{name: name, argIndex: arg, inCall: true}
}

// pickSignature returns the first overload of f that accepts an argument at
// index arg, or the first overload if none does.
func pickSignature(f *lang.Func, arg int) *lang.Signature {
	if len(f.Signatures) == 0 {
		return nil
	}

	for _, s := range f.Signatures {
		if arg < len(s.Params) || s.Variadic() {
			return s
		}
	}

	return f.Signatures[0]
}

// renderSignatureHint renders an overload of the named function with the
// parameter at arg highlighted, followed by the number of other overloads.
// It returns "" if funcs has no such function.
func renderSignatureHint(funcs lang.Funcs, name string, arg int) string {
	f, ok := funcs[name]
	if !ok {
		return ""
	}

	sig := pickSignature(f, arg)
	if sig == nil {
		return signatureNameStyle.Render(name) + signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	last := len(sig.Params) - 1

	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every argument it binds.
		if arg == i || (p.Variadic && i == last && arg > i) {
			b.WriteString(currentParamStyle.Render(p.String()))
		} else {
			b.WriteString(signatureStyle.Render(p.String()))
		}
	}

	b.WriteString(signatureStyle.Render(") -> " + sig.Return.String()))

	if n := len(f.Signatures) - 1; n > 0 {
		b.WriteString(hintStyle.Render("  +" + plural(n, "overload")))
	}

	return b.String()
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun

	switch {
	case n == 1:
	case strings.HasSuffix(noun, "s"):
		s += "es"
	default:
		s += "s"
	}

	return s
}
