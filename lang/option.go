package lang

import (
	"runtime"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/compose/log"
)

// Default invocation names recognized by an [Expander].
const (
	DefaultAttributeName = "compose_item"
	// DefaultMaxRounds bounds the number of rewrite rounds an [Expander] runs
	// over one source.
	DefaultMaxRounds = 16
)

// DefaultMacroNames returns the macro names recognized by default.
func DefaultMacroNames() []string {
	return []string{"compose", "compose_idents"}
}

// config holds the effective options of one [Compose], [Eval], or [Expander].
type config struct {
	logger     log.Logger
	funcs      Funcs
	fixed      *Scope
	filter     *vm.Program
	seed       *uint64
	attr       string
	filterText string
	macros     []string
	workers    int
	strict     bool
	deprecated bool
}

// Option configures composition behavior.
type Option func(*config)

// WithMacroNames sets the function-like macro names an [Expander]
// recognizes.
func WithMacroNames(names ...string) Option {
	return func(c *config) {
		c.macros = append([]string(nil), names...)
	}
}

// WithAttributeName sets the attribute name an [Expander] recognizes.
func WithAttributeName(name string) Option {
	return func(c *config) {
		c.attr = name
	}
}

// WithSeed pins the seed of the hash scope so that generated names are
// reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = &seed
	}
}

// WithScope uses scope for every evaluation, so hashes agree across calls.
// It takes precedence over [WithSeed].
func WithScope(scope *Scope) Option {
	return func(c *config) {
		c.fixed = scope
	}
}

// WithStrictFormat reports %name% markers in string literals that name no
// alias as [ErrUndefinedAlias] instead of leaving them verbatim.
func WithStrictFormat(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithWorkers sets the number of passes evaluated concurrently. Values less
// than 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithFilter installs a boolean expr predicate evaluated against each pass's
// bindings. Passes for which it is false produce no output.
func WithFilter(predicate string) Option {
	return func(c *config) {
		c.filterText = predicate
	}
}

// WithLogger sets the structured logger for debug and trace output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDeprecations controls deprecated syntax. When allow is false, a
// deprecation warning becomes an [ErrParse] error.
func WithDeprecations(allow bool) Option {
	return func(c *config) {
		c.deprecated = allow
	}
}

// WithFuncs replaces the function table used for evaluation. Call syntax is
// recognized for builtin names only, so funcs selects among builtins.
func WithFuncs(funcs Funcs) Option {
	return func(c *config) {
		c.funcs = funcs
	}
}

// applyDefaults sets default option values.
func applyDefaults(c *config) {
	c.macros = DefaultMacroNames()
	c.attr = DefaultAttributeName
	c.deprecated = true
	c.funcs = Builtins()
}

// applyOptions applies functional options to c.
func applyOptions(c *config, opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// newConfig returns the effective configuration for opts, compiling the
// filter predicate if one was given.
func newConfig(opts ...Option) (*config, error) {
	c := new(config)

	applyDefaults(c)
	applyOptions(c, opts...)

	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}

	if c.filterText != "" {
		prog, err := compileFilter(c.filterText)
		if err != nil {
			return nil, err
		}

		c.filter = prog
	}

	return c, nil
}

// scope returns the scope for one invocation: the fixed scope, a scope
// seeded by the configured seed, or a fresh random scope.
func (c *config) scope() *Scope {
	switch {
	case c.fixed != nil:
		return c.fixed
	case c.seed != nil:
		return NewSeededScope(*c.seed)
	}

	return NewScope()
}
