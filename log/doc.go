// Package log provides a leveled structured logger based on [log/slog].
//
// A [Logger] is built once from functional options and never changes;
// [Logger.Wrap] and [Logger.With] derive new loggers from it. The zero
// Logger discards everything, so it can be embedded in option structs
// without initialization.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//	logger.Debug("invocation found", slog.String("macro", "compose"))
//
// # Levels
//
// Besides the slog levels, [LevelTrace] sits below [LevelDebug] for
// per-token detail. Levels and formats implement [encoding.TextUnmarshaler]
// so they can be used as flag values directly.
//
// # Formats
//
// [FormatJSON] and [FormatText] use the slog handlers. [FormatPretty]
// writes one aligned line per record, colored with lipgloss when the output
// is a terminal and [WithPretty] is enabled.
//
// # Default Logger
//
// The package-level functions, such as [Info] and [DebugContext], write
// through a default logger to standard error. [Config] reconfigures it.
package log
