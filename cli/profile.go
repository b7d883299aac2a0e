package cli

import (
	"path/filepath"
	"strings"
)

// profileDir returns the directory receiving the profiles of one run of
// command, a subdirectory of base named after the command's path. Arguments
// and flags in command are ignored. Profiles of a run with no command go
// directly into base.
func profileDir(base, command string) string {
	var path []string

	for _, f := range strings.Fields(command) {
		if strings.HasPrefix(f, "<") || strings.HasPrefix(f, "-") {
			break
		}

		path = append(path, f)
	}

	if len(path) == 0 {
		return base
	}

	return filepath.Join(base, strings.Join(path, "-"))
}
