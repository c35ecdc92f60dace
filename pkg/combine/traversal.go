// File: pkg/combine/traversal.go
package combine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aidigest/pkg/ignore"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// CollectFiles expands every pattern and returns the set of absolute, cleaned
// file paths it selects. Relative patterns are resolved against base. Matched
// directories are walked recursively; directories and files ignored by
// exclude are pruned during the walk. Patterns that match nothing or are
// malformed are logged and skipped.
func CollectFiles(ctx context.Context, patterns []string, base string, exclude *ignore.Filter, logger *zap.Logger) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	logger.Debug("Starting file collection", zap.Int("patternCount", len(patterns)))

	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := expandPattern(base, pattern)
		if err != nil {
			logger.Warn("Invalid input pattern", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if len(matches) == 0 {
			logger.Warn("Input pattern matched no files", zap.String("pattern", pattern))
			continue
		}

		for _, match := range matches {
			absPath, err := filepath.Abs(match)
			if err != nil {
				logger.Warn("Failed to get absolute path", zap.String("path", match), zap.Error(err))
				continue
			}

			info, err := os.Stat(absPath)
			if err != nil {
				logger.Warn("Path does not exist or cannot be accessed", zap.String("path", absPath), zap.Error(err))
				continue
			}

			switch {
			case info.IsDir():
				if err := walkDirectory(ctx, absPath, exclude, files, logger); err != nil {
					return nil, err
				}
			case info.Mode().IsRegular():
				if exclude.Ignores(absPath) {
					logger.Debug("Skipping excluded file", zap.String("filePath", absPath))
					continue
				}
				files[absPath] = struct{}{}
			default:
				logger.Debug("Skipping non-regular file", zap.String("filePath", absPath))
			}
		}
	}

	logger.Debug("Completed file collection", zap.Int("fileCount", len(files)))
	return files, nil
}

// expandPattern returns the paths pattern selects. Leading segments without
// glob syntax, or naming an existing directory, form a literal root that may
// itself contain characters such as '[' or '{'. Only the remainder is
// matched, relative to that root.
func expandPattern(base, pattern string) ([]string, error) {
	root := base
	rest := filepath.ToSlash(filepath.Clean(pattern))
	if filepath.IsAbs(pattern) {
		vol := filepath.VolumeName(pattern)
		root = vol + string(filepath.Separator)
		rest = strings.TrimLeft(filepath.ToSlash(filepath.Clean(pattern))[len(vol):], "/")
	}

	segments := strings.Split(rest, "/")
	i := 0
	for ; i < len(segments); i++ {
		next := filepath.Join(root, segments[i])
		if hasGlobMeta(segments[i]) && (i == len(segments)-1 || !isDir(next)) {
			break
		}
		root = next
	}
	if i == len(segments) {
		return []string{root}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), strings.Join(segments[i:], "/"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		// A file literally named like a glob, e.g. "notes[1].txt".
		literal := filepath.Join(root, filepath.FromSlash(strings.Join(segments[i:], "/")))
		if _, statErr := os.Lstat(literal); statErr == nil {
			return []string{literal}, nil
		}
		return nil, nil
	}

	paths := make([]string, len(matches))
	for j, m := range matches {
		paths[j] = filepath.Join(root, filepath.FromSlash(m))
	}
	return paths, nil
}

func hasGlobMeta(segment string) bool {
	return strings.ContainsAny(segment, "*?[{")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// walkDirectory adds every non-excluded regular file under root to files.
// Symlinks are kept only when they resolve to a regular file.
func walkDirectory(ctx context.Context, root string, exclude *ignore.Filter, files map[string]struct{}, logger *zap.Logger) error {
	logger.Debug("Processing directory", zap.String("dir", root))

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		if d.IsDir() {
			if exclude.Ignores(path) {
				logger.Debug("Skipping excluded directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		if exclude.Ignores(path) {
			logger.Debug("Skipping excluded file", zap.String("filePath", path))
			return nil
		}

		switch {
		case d.Type().IsRegular():
			files[filepath.Clean(path)] = struct{}{}
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil {
				logger.Warn("Failed to resolve symlink", zap.String("filePath", path), zap.Error(err))
				return nil
			}
			if info.Mode().IsRegular() {
				files[filepath.Clean(path)] = struct{}{}
			}
		}
		return nil
	})
}
