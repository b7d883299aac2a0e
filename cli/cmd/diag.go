package cmd

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

// printDiagnostics writes one diagnostic per error joined in err, each
// followed by a snippet of the offending source. Styles are applied only
// when w is a terminal.
func printDiagnostics(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)
	color := log.IsTerminal(w)

	label := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	message := r.NewStyle().Bold(true)
	snippet := r.NewStyle().Foreground(lipgloss.Color("8"))
	caret := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	paint := func(st lipgloss.Style, s string) string {
		if !color {
			return s
		}

		return st.Render(s)
	}

	var b strings.Builder

	for _, d := range lang.Diagnostics(err) {
		b.WriteString(paint(label, "error:"))
		b.WriteByte(' ')
		b.WriteString(paint(message, d.Err.Error()))
		b.WriteByte('\n')

		for line := range strings.Lines(d.Snippet()) {
			text := strings.TrimSuffix(line, "\n")
			if strings.TrimSpace(text) != "" && strings.Trim(text, " \t^") == "" {
				b.WriteString(paint(caret, text))
			} else {
				b.WriteString(paint(snippet, text))
			}

			b.WriteByte('\n')
		}
	}

	_, _ = io.WriteString(w, b.String())
}
