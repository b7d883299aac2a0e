// Package cmd implements the commands of the compose CLI: expand, check,
// fmt, init, and repl.
//
// Commands read their configuration from a [context.Context] prepared by
// package cli; see [WithContext], [WithIncludePath], and [WithStreams].
//
//nolint:gochecknoglobals
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
