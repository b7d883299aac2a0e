package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/compose/log"
)

// editDoneMsg is sent when alias editing completes.
type editDoneMsg struct{ changed bool }

// editDeclinedMsg is sent when the user declined to re-edit after a load
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-load error.
type editErrorMsg struct{ err error }

const prompt = "➜ "

func helpMessage() string {
	return `
Commands:

  :aliases       List aliases and their values
  :funcs [NAME]  List functions, or describe one
  :edit          Edit aliases in $EDITOR
  :reset         Remove every alias
  :clear         Clear screen
  :help          Print this message
  :quit          Exit REPL

Usage:
  name = expr    Define alias name as the value of expr
  expr           Evaluate expr and print its type and value
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to restore the input before cycling
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
//
//nolint:gochecknoglobals
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// action is a side effect of a command on the terminal session.
type action int

const (
	actNone action = iota
	actQuit
	actClear
	actEdit
)

// execute runs one line of input: a command, an alias definition, or an
// expression. It returns the text to print.
func execute(ctx context.Context, s *Session, input string) (string, action, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", actNone, nil
	}

	if rest, ok := strings.CutPrefix(input, commandPrefix); ok {
		return command(s, strings.Fields(rest))
	}

	line, err := ParseLine("<repl>", input)
	if err != nil {
		return "", actNone, err
	}

	if line.IsDefinition() {
		v, err := s.Define(ctx, line)
		if err != nil {
			return "", actNone, err
		}

		return line.Name + " = " + v.String(), actNone, nil
	}

	v, err := s.Eval(ctx, line.Expr)
	if err != nil {
		return "", actNone, err
	}

	return v.String(), actNone, nil
}

// lookupCommand returns the command named by a unique prefix of a command
// name.
func lookupCommand(name string) (string, bool) {
	if slices.Contains(commands, name) {
		return name, true
	}

	var found []string

	for _, c := range commands {
		if strings.HasPrefix(c, name) {
			found = append(found, c)
		}
	}

	if len(found) == 1 {
		return found[0], true
	}

	return "", false
}

func command(s *Session, args []string) (string, action, error) {
	if len(args) == 0 {
		return helpMessage(), actNone, nil
	}

	name, ok := lookupCommand(args[0])
	if !ok {
		if args[0] == "exit" {
			return "", actQuit, nil
		}

		return "", actNone, ErrUnknownCmd.
			With(slog.String("command", args[0])).
			Wrap(errors.New(commandPrefix + args[0] + " (try " + commandPrefix + "help)"))
	}

	switch name {
	case "aliases":
		return listAliases(s), actNone, nil
	case "funcs":
		return listFuncs(s, args[1:]), actNone, nil
	case "edit":
		return "", actEdit, nil
	case "reset":
		n := len(s.Aliases())
		s.Reset()

		return "removed " + plural(n, "alias"), actNone, nil
	case "clear":
		return "", actClear, nil
	case "help":
		return helpMessage(), actNone, nil
	case "quit":
		return "", actQuit, nil
	}

	return "", actNone, nil
}

func listAliases(s *Session) string {
	aliases := s.Aliases()
	if len(aliases) == 0 {
		return "no aliases"
	}

	width := 0
	for _, a := range aliases {
		width = max(width, len(a.Name))
	}

	var b strings.Builder

	for i, a := range aliases {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "  %-*s  %s", width, a.Name, a.Value.String())
	}

	return b.String()
}

func listFuncs(s *Session, names []string) string {
	funcs := s.Funcs()

	var b strings.Builder

	if len(names) == 0 {
		for f := range funcs.All() {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}

			fmt.Fprintf(&b, "  %-12s %s", f.Name, f.Doc)
		}

		return b.String()
	}

	for _, name := range names {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		f, ok := funcs[name]
		if !ok {
			b.WriteString("  " + name + ": undefined function")

			continue
		}

		b.WriteString("  " + f.Doc)

		for _, sig := range f.Signatures {
			b.WriteString("\n    " + f.Name + sig.String())
		}
	}

	return b.String()
}

// Config configures a REPL.
type Config struct {
	Session *Session
	Logger  log.Logger
	// Input and Output are the streams of the session. The interactive
	// interface is used only when Interactive is set.
	Input       io.Reader
	Output      io.Writer
	HistoryPath string
	Interactive bool
}

// Run starts the REPL. When the session is not interactive, each line of
// the input is executed in turn and the first error stops it.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Session == nil {
		cfg.Session = NewSession(cfg.Logger, nil)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Bool("interactive", cfg.Interactive),
		slog.Int("aliases", len(cfg.Session.Aliases())),
	)

	if !cfg.Interactive {
		return runLines(ctx, cfg.Session, cfg.Input, cfg.Output)
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, cfg.Session, history, cfg.Logger)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	_, err = tea.NewProgram(m, opts...).Run()

	return err
}

// runLines executes each line of r, writing results to w.
func runLines(ctx context.Context, s *Session, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)

	for n := 1; sc.Scan(); n++ {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		out, act, err := execute(ctx, s, sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}

		if act == actQuit {
			return nil
		}

		if out != "" {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}

	return sc.Err()
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil

	case editDoneMsg:
		if !msg.changed {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("aliases", len(m.session.Aliases())),
		)

		return m, tea.Println(resultStyle.Render("loaded " +
			plural(len(m.session.Aliases()), "alias")))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input: the history position, a
// usage hint, the signature of the enclosing call, or completions.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		return hintStyle.Render("Type an expression, name = expr, or :help")
	}

	if !m.tabActive {
		if c := detectCall(input, m.input.Position()); c.inCall {
			if sig := renderSignatureHint(m.session.Funcs(), c.name, c.argIndex); sig != "" {
				return sig
			}
		}
	}

	return m.renderCandidateBar(m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (step 1) or previous (step -1) completion
// candidate. A single candidate is completed and confirmed at once.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	n := len(m.matches)

	switch {
	case m.tabActive:
		m.suggIdx = ((m.suggIdx+step)%n + n) % n
	case step < 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if word := m.input.Value()[m.wordStart:m.wordEnd]; word == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(input))

	out, act, err := execute(m.ctxFunc(), m.session, input)

	m.logger.TraceContext(m.ctxFunc(), "repl execute",
		slog.String("input", input),
		slog.Int("action", int(act)),
		slog.Bool("error", err != nil),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	switch act {
	case actQuit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case actClear:
		return m, tea.ClearScreen

	case actEdit:
		return m, tea.Sequence(echo, m.edit())

	case actNone:
	}

	if out == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		}

		return editDoneMsg{changed: cmd.changed}
	})
}

// historyMove steps through history; step -1 is older. Moving past the
// newest entry clears the input.
func (m model) historyMove(step int) model {
	next := m.historyIdx + step
	if next < 0 {
		return m
	}

	m.tabActive = false

	if next >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)

		return m
	}

	if entry, err := m.history.Entry(next); err == nil {
		m.historyIdx = next
		m.input.SetValue(entry)
		m.input.SetCursor(len(entry))
		refreshMatches(&m, false)
	}

	return m
}
