package cmd

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/compose/lang"
	"github.com/ardnew/compose/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type includePathKey struct{}

// WithIncludePath returns a new context.Context holding the directories
// searched for relative source file names, in order.
func WithIncludePath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, includePathKey{}, dirs)
}

func includePathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(includePathKey{}).([]string)

	return dirs
}

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use the given
// streams in place of the process's. A nil stream keeps the process's.
func WithStreams(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, Streams{In: in, Out: out, Err: err})
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the name diagnostics use for input read from stdin.
const stdinName = "<stdin>"

// outputFileMode is the permission mode of files written by commands.
const outputFileMode os.FileMode = 0o644

// resolveSource returns the path of the source file name. Absolute names
// and names found relative to the working directory are used as given;
// otherwise each directory of dirs is searched in order.
func resolveSource(name string, dirs []string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			if path := filepath.Join(dir, name); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrSourceNotFound.
		With(slog.String("source", name), slog.Any("include", dirs)).
		Wrap(fs.ErrNotExist)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// readSource reads the named source, or stdin for "-", and returns its
// contents with the name used to report locations within it.
func readSource(ctx context.Context, name string) ([]byte, string, error) {
	if name == "" || name == stdinSource {
		data, err := lang.ReadSource(ctx, stdinName, streamsFrom(ctx).In, log.Default())
		if err != nil {
			return nil, stdinName, ErrReadSource.Wrap(err)
		}

		return data, stdinName, nil
	}

	path, err := resolveSource(name, includePathFrom(ctx))
	if err != nil {
		return nil, name, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, name, ErrReadSource.With(slog.String("source", path)).Wrap(err)
	}
	defer file.Close()

	log.TraceContext(ctx, "resolved source",
		slog.String("source", name),
		slog.String("path", path),
	)

	data, err := lang.ReadSource(ctx, path, file, log.Default())
	if err != nil {
		return nil, path, ErrReadSource.Wrap(err)
	}

	return data, path, nil
}

// writeOutput writes data to the named file, or to stdout for "" and "-".
func writeOutput(ctx context.Context, name string, data []byte) error {
	if name == "" || name == stdinSource {
		if _, err := streamsFrom(ctx).Out.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(name, data, outputFileMode); err != nil {
		return ErrWriteOutput.With(slog.String("file", name)).Wrap(err)
	}

	log.DebugContext(ctx, "wrote output",
		slog.String("file", name),
		slog.Int("bytes", len(data)),
	)

	return nil
}
