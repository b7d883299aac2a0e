package cli

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/compose/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(pkg.CacheDir(), defaultDirMode)
}

// includePath returns the directories searched for source files: the
// --include directories in order, then those of the [pkg.PathEnv]
// environment variable. Directories that do not exist are dropped, as are
// repeats.
func includePath(include []string) []string {
	env := filepath.SplitList(os.Getenv(pkg.PathEnv))

	// Prefix items are prepended one at a time, so the last is searched
	// first.
	prefix := slices.Clone(include)
	slices.Reverse(prefix)

	path := mung.Make(
		mung.WithSubjectItems(env...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
