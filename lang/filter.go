package lang

import (
	"log/slog"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// compileFilter compiles a pass predicate. Alias names are not known until
// a pass runs, so undefined variables are allowed and evaluate to nil.
func compileFilter(source string) (*vm.Program, error) {
	program, err := expr.Compile(source,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrFilter.Wrap(err).
			With(slog.String("source", source))
	}

	return program, nil
}

// filterEnv builds the predicate environment for one pass. Each binding is
// visible by name as its plain text, or as an int when the text is an
// integer. The pass index is visible as "pass".
func filterEnv(index int, b *Bindings) map[string]any {
	env := make(map[string]any, b.Len()+1)

	for name, v := range b.All() {
		text := v.Text()
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			env[name] = n

			continue
		}

		env[name] = text
	}

	if _, ok := env["pass"]; !ok {
		env["pass"] = index
	}

	return env
}

// keep reports whether the pass with the given bindings passes the filter.
func (c *config) keep(index int, b *Bindings) (bool, error) {
	if c.filter == nil {
		return true, nil
	}

	out, err := vm.Run(c.filter, filterEnv(index, b))
	if err != nil {
		return false, ErrFilter.Wrap(err).
			With(slog.String("source", c.filterText), slog.Int("pass", index))
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, ErrFilter.Withf("predicate is not boolean").
			With(slog.String("source", c.filterText), slog.Any("result", out))
	}

	return ok, nil
}
