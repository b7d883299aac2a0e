package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("Version() = %q, want %q", Version(), want)
	}

	if strings.ContainsAny(Version(), " \n") {
		t.Errorf("Version() = %q contains whitespace", Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Author is empty")
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] defines neither Name nor Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/compose", "compose"},
		{"compose.exe", "compose"},
		{"/tmp/__debug_bin3391", Name},
		{"/tmp/__debug_bin", Name},
		{"./.hidden", "hidden"},
		{"...", Name},
	}

	for _, tt := range tests {
		if got := prefixOf(tt.path); got != tt.want {
			t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestUserDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end in %q", name, dir, Prefix())
		}
	}
}
