package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/compose/cli/cmd"
	"github.com/ardnew/compose/pkg"
)

// CLI is the top-level command-line interface for compose.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string `help:"Directory searched for source files before those in ${pathEnv}." placeholder:"DIR" short:"I" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand invocations in a source file (default)."`
	Check  cmd.Check  `cmd:""                    help:"Validate invocations in a source file."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Dump invocations and their passes."`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file."`
	Repl   cmd.Repl   `cmd:""                    help:"Evaluate expressions interactively."`
}

// Run executes the compose CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"pathEnv":            pkg.PathEnv,
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithIncludePath(ctx, includePath(cli.Include))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, ktx.Command())()

	return ktx.Run(ctx)
}
