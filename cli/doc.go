// Package cli contains the command line interface for compose.
//
// # Usage
//
//	compose [flags] <command>
//
// The default command, expand, rewrites a Rust source file, replacing
// every compose! invocation with its expansion:
//
//	compose -s src/lib.rs -o src/lib.expanded.rs
//	compose check -s src/lib.rs
//	compose fmt yaml src/lib.rs
//	compose repl -s aliases.txt
//
// Source files named with a relative path are searched for in the working
// directory, then each --include directory, then each directory of the
// COMPOSE_PATH environment variable.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, such as ~/.config/compose/config.yaml. Keys are
// flag names; nested mappings are joined with hyphens:
//
//	log:
//	  level: debug
//	include: [src]
//
// The init command writes the current top-level flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text, pretty)
//   - --log-time-layout: Set timestamp layout (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize pretty output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o compose .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/compose/pprof)
package cli
