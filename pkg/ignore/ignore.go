// Package ignore decides whether a path falls under an ignored prefix.
//
// Rules are path prefixes relative to a base directory (normally the working
// directory): a rule matches a path that equals it or is nested under it, on
// whole segment boundaries, so "foo" ignores "foo/bar" but not "foobar".
// Rules containing glob metacharacters are matched with doublestar against
// single segments (no slash in the rule) or leading segment prefixes (slash in
// the rule). Every rule kind is closed under descent: once a path is ignored,
// all of its descendants are too.
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aidigest/pkg/logging"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultIgnoreFile is the ignore file looked up in the working directory.
const DefaultIgnoreFile = ".aidigestignore"

// DefaultIgnores covers version-control metadata, dependency and build
// caches, compiled artifacts, archives, lock files and OS metadata files.
var DefaultIgnores = []string{
	".git", ".svn", ".hg", ".idea", ".vscode",
	"node_modules", "venv", "env", "__pycache__",
	"*.pyc", "*.pyo", "*.pyd", "*.db", "*.sqlite3",
	"*.log", "*.sql", "*.swp", "*.swo",
	"*.bak", "*.tmp", "*.temp",
	"*.o", "*.obj", "*.exe", "*.dll", "*.so", "*.dylib",
	"*.jar", "*.war", "*.ear", "*.sar", "*.class",
	"*.lock", "*.DS_Store", "Thumbs.db",
}

// Rule is a single normalized ignore pattern.
type Rule struct {
	Pattern string // Normalized, slash separated, relative to the filter base.
	Line    string // Pattern as supplied.
	glob    bool   // Pattern contains glob metacharacters.
	segment bool   // Glob without a slash; matched against single segments.
}

// Filter holds the normalized rules of one rule group.
type Filter struct {
	base   string
	rules  []*Rule
	logger *zap.Logger
}

// New normalizes patterns against base and returns a Filter. An empty base
// means the current working directory. Blank patterns are dropped.
func New(base string, patterns []string, logger *zap.Logger) *Filter {
	logger = logging.OrNop(logger)
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}

	f := &Filter{base: base, logger: logger}
	for _, line := range patterns {
		normalized, ok := normalizePattern(base, line)
		if !ok {
			continue
		}
		rule := &Rule{Pattern: normalized, Line: line}
		if strings.ContainsAny(normalized, "*?[{") {
			if doublestar.ValidatePattern(normalized) {
				rule.glob = true
				rule.segment = !strings.Contains(normalized, "/")
			} else {
				logger.Debug("Invalid glob in ignore pattern, matching literally", zap.String("pattern", line))
			}
		}
		f.rules = append(f.rules, rule)
		logger.Debug("Compiled ignore pattern",
			zap.String("pattern", line),
			zap.String("normalized", normalized),
			zap.Bool("glob", rule.glob))
	}
	return f
}

// Rules returns the normalized rules in construction order.
func (f *Filter) Rules() []*Rule {
	return f.rules
}

// Len returns the number of rules.
func (f *Filter) Len() int {
	return len(f.rules)
}

// Base returns the directory paths are made relative to.
func (f *Filter) Base() string {
	return f.base
}

// Ignores reports whether path is ignored by any rule. Relative paths are
// taken relative to the filter base.
func (f *Filter) Ignores(path string) bool {
	matched, _ := f.IgnoresWithRule(path)
	return matched
}

// IgnoresWithRule is Ignores, also returning the first matching rule.
func (f *Filter) IgnoresWithRule(path string) (bool, *Rule) {
	if f == nil || len(f.rules) == 0 {
		return false, nil
	}
	rel := f.relative(path)
	segments := splitSegments(rel)

	for _, rule := range f.rules {
		if rule.matches(rel, segments) {
			f.logger.Debug("Path matches ignore pattern",
				zap.String("path", rel),
				zap.String("pattern", rule.Line))
			return true, rule
		}
	}
	return false, nil
}

func (r *Rule) matches(rel string, segments []string) bool {
	if !r.glob {
		if r.Pattern == "." {
			return rel != ".." && !strings.HasPrefix(rel, "../")
		}
		return rel == r.Pattern || strings.HasPrefix(rel, r.Pattern+"/")
	}

	if r.segment {
		for _, seg := range segments {
			if ok, _ := doublestar.Match(r.Pattern, seg); ok {
				return true
			}
		}
		return false
	}

	for i := 1; i <= len(segments); i++ {
		if ok, _ := doublestar.Match(r.Pattern, strings.Join(segments[:i], "/")); ok {
			return true
		}
	}
	return false
}

// relative converts path to a cleaned, slash separated path relative to the
// filter base.
func (f *Filter) relative(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.base, path)
	}
	rel, err := filepath.Rel(f.base, path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

func splitSegments(rel string) []string {
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

// normalizePattern cleans separators and relative segments, and rewrites
// absolute patterns relative to base.
func normalizePattern(base, pattern string) (string, bool) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return "", false
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(base, p); err == nil {
			p = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(p)), true
}

// ReadIgnoreFile reads the ignore file name in dir. One pattern per line;
// blank lines and lines starting with '#' are skipped. A missing file is not
// an error and yields a nil slice; a present file always yields a non-nil one.
func ReadIgnoreFile(dir, name string, logger *zap.Logger) ([]string, error) {
	logger = logging.OrNop(logger)
	if name == "" {
		name = DefaultIgnoreFile
	}
	filePath := filepath.Join(dir, name)

	content, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("No ignore file found", zap.String("filePath", filePath))
			return nil, nil
		}
		return nil, err
	}

	patterns := ParseLines(string(content))
	logger.Info("Found ignore file", zap.String("filePath", filePath), zap.Int("patternCount", len(patterns)))
	return patterns, nil
}

// ParseLines extracts patterns from ignore file content.
func ParseLines(content string) []string {
	patterns := []string{}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, trimmed)
	}
	return patterns
}
