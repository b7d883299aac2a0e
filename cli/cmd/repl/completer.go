package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix starts a REPL command.
const commandPrefix = ":"

// commands are the available REPL commands, without the prefix.
//
//nolint:gochecknoglobals
var commands = []string{"aliases", "funcs", "edit", "reset", "clear", "help", "quit"}

// isWordRune reports whether r can appear in a completable word: the
// characters of an identifier.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits
// between two non-identifier characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inCommand reports whether the word starting at wordStart is the name of
// a command: the first word of input, directly after the prefix.
func inCommand(input string, wordStart int) bool {
	trimmed := strings.TrimLeft(input, " \t")
	lead := len(input) - len(trimmed)

	return strings.HasPrefix(trimmed, commandPrefix) && wordStart == lead+len(commandPrefix)
}

// candidates returns the names that complete the word at wordStart.
func (m model) candidates(input string, wordStart int) []string {
	if inCommand(input, wordStart) {
		return commands
	}

	if strings.HasPrefix(strings.TrimSpace(input), commandPrefix) {
		return nil
	}

	names := m.session.Funcs().Names()
	for _, a := range m.session.Aliases() {
		names = append(names, a.Name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches returns the fuzzy matches of the word under the cursor,
// ranked best-first, and the word boundaries. An empty word has no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	cands := m.candidates(input, wordStart)
	if len(cands) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, cands), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func (m model) renderCandidateBar(width int) string {
	if len(m.matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	i := 0
	for _, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}

		i += utf8.RuneLen(r)
	}

	if _, ok := m.session.Funcs()[match.Str]; ok && !inCommand(m.input.Value(), m.wordStart) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
