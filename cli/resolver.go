package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may stand in for hyphens:
//
//	log:
//	  level: debug
//	log_format: json
//	include: [src, vendor/src]
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug --log-format=json --include=src,vendor/src
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten adds the values of m to c, prefixing keys by prefix.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		c[name] = flagValue(val)
	}
}

// flagValue converts a decoded YAML value to a form Kong parses: numbers
// become strings, and sequences become comma-separated lists.
func flagValue(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(parts, ",")
	}

	return val
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}
