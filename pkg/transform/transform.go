// Package transform normalizes text file content before it is embedded in a
// fenced block of the digest.
package transform

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	fence        = "```"
	escapedFence = "\\`\\`\\`"
)

// DefaultWhitespaceSignificant lists extensions whose layout carries meaning
// and is therefore never compacted.
var DefaultWhitespaceSignificant = []string{".md", ".markdown", ".rtf", ".py", ".yaml", ".yml"}

var (
	horizontalSpace = regexp.MustCompile(`[\t ]+`)
	blankLines      = regexp.MustCompile(`\n\s*\n`)
)

// Options selects the transforms applied by Apply.
type Options struct {
	CompactWhitespace     bool
	WhitespaceSignificant []string // Extensions exempt from compaction; nil means the defaults.
}

// EscapeFences backslash-escapes every backtick of each "```" run so the
// content cannot close the surrounding fenced block.
func EscapeFences(content string) string {
	return strings.ReplaceAll(content, fence, escapedFence)
}

// UnescapeFences reverses EscapeFences for content that did not already
// contain the escaped sequence.
func UnescapeFences(content string) string {
	return strings.ReplaceAll(content, escapedFence, fence)
}

// CompactWhitespace collapses runs of tabs and spaces to one space, reduces
// any run of blank lines to a single blank line and trims the result.
// Applying it twice gives the same result as applying it once.
func CompactWhitespace(content string) string {
	content = horizontalSpace.ReplaceAllString(content, " ")
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// ShouldCompact reports whether path may be compacted given the
// whitespace-significant extension list.
func ShouldCompact(path string, significant []string) bool {
	if significant == nil {
		significant = DefaultWhitespaceSignificant
	}
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range significant {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(name, ext) {
			return false
		}
	}
	return true
}

// Apply escapes fences and then, when enabled and allowed for path, compacts
// whitespace. Escaping runs first so compaction only ever sees escaped
// backtick runs.
func Apply(content, path string, opts Options) string {
	content = EscapeFences(content)
	if opts.CompactWhitespace && ShouldCompact(path, opts.WhitespaceSignificant) {
		content = CompactWhitespace(content)
	}
	return content
}
