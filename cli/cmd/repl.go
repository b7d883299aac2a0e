package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/compose/cli/cmd/repl"
	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

// Repl starts an interactive session for evaluating expressions.
type Repl struct {
	Source string `help:"File of alias definitions to load, one \"name = expr\" per line." short:"s"`
	Seed   string `help:"Pin the hash scope seed (decimal, or 0x, 0o, 0b prefixed)."       placeholder:"N"`
	Strict bool   `help:"Reject %name% markers that do not name an alias."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	seed, ok, err := parseSeed(r.Seed)
	if err != nil {
		return err
	}

	var scope *lang.Scope
	if ok {
		scope = lang.NewSeededScope(seed)
	}

	session := repl.NewSession(log.Default(), scope, lang.WithStrictFormat(r.Strict))

	if r.Source != "" {
		src, name, err := readSource(ctx, r.Source)
		if err != nil {
			return err
		}

		if err := session.Load(ctx, name, src); err != nil {
			return err
		}

		log.DebugContext(ctx, "loaded aliases",
			slog.String("source", name),
			slog.Int("aliases", len(session.Aliases())),
		)
	}

	streams := streamsFrom(ctx)

	return repl.Run(ctx, repl.Config{
		Session:     session,
		Logger:      log.Default(),
		Input:       streams.In,
		Output:      streams.Out,
		HistoryPath: r.historyPath(ctx),
		Interactive: isTerminal(streams.In) && isTerminal(streams.Out),
	})
}

// historyPath returns the path of the history file in the cache directory,
// or "" to keep history in memory.
func (r *Repl) historyPath(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)

	return ok && log.IsTerminal(f)
}
