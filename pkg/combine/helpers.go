// File: pkg/combine/helpers.go
package combine

import (
	"path/filepath"
	"strings"
)

// relativeSlashPath returns path relative to base with forward slashes,
// falling back to the cleaned absolute path when no relative form exists.
func relativeSlashPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
