package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/compose/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-load-retry loop. It
// writes the session's aliases to a temp file, opens the user's editor, and
// reloads the result. On a load error the user is prompted to re-edit;
// declining exits the program.
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	// changed is set when the edited aliases were loaded.
	changed bool
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. An emptied file cancels the edit.
// If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "compose-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Chmod(historyFileMode); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.session.Source()

	for {
		if err := os.WriteFile(path, []byte(content), historyFileMode); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		loadErr := c.session.Reload(ctx, path, data)

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.changed = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the file at path and returns the
// edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
