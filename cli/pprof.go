//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/compose/log"
	"github.com/ardnew/compose/pkg"
	"github.com/ardnew/compose/profile"
)

// pprofConfig selects a runtime profile of one compose run. Each subcommand
// writes into its own subdirectory of Dir, so profiling expand and check
// keeps both results.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the run of the selected command" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Base directory for written profiles"                             type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Runtime profiling"}
}

// start profiles the run of command. The returned func ends the session.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	p := profile.Profiler{
		Mode:  f.Mode,
		Dir:   profileDir(f.Dir, command),
		Quiet: true,
	}
	if !p.Enabled() {
		return func() {}
	}

	attrs := slog.Group("profile",
		slog.String("mode", p.Mode),
		slog.String("dir", p.Dir),
		slog.String("command", command),
	)

	log.DebugContext(ctx, "profiling", attrs)

	session := p.Start()

	return func() {
		session.Stop()
		log.DebugContext(ctx, "profile written", attrs)
	}
}
