// Package pkg holds project metadata and the per-user directories shared
// by the command-line tools.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the module embedded at build
// time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier. It appears in help
	// text, default config paths, and the include path variable.
	Name = "compose"
	// Description is a short summary of the project used in help output.
	Description = "Compose identifiers and code in Rust sources"
	// PathEnv names the environment variable holding the include search
	// path for source files.
	PathEnv = "COMPOSE_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
