// Package outdir manages the timestamped run folders under <base>/aidigest and
// the state file that records the most recent digest.
package outdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"aidigest/pkg/filelock"
	"aidigest/pkg/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DirName         = "aidigest"
	DocumentName    = "aidigest"
	InfoName        = "info.txt"
	StateName       = "latest.yaml"
	TimestampLayout = "20060102_150405"
	infoTimeLayout  = "2006-01-02 15:04:05"
)

// ErrNoLatest is returned when no digest has been recorded yet.
var ErrNoLatest = errors.New("no latest digest recorded")

// Info is the metadata written next to each document.
type Info struct {
	Command   string
	Timestamp time.Time
	RunID     string
}

// State is the content of the latest-output state file.
type State struct {
	Path    string    `yaml:"path"`
	RunID   string    `yaml:"run_id,omitempty"`
	Created time.Time `yaml:"created"`
}

// Run describes one run folder.
type Run struct {
	Name     string // Folder name, a timestamp.
	Dir      string
	Document string // Empty when the folder holds no document.
	Info     string // Content of info.txt; empty when missing.
}

// Root returns the directory holding all run folders under base.
func Root(base string) string {
	return filepath.Join(base, DirName)
}

// DocumentPath returns the document path inside the run folder dir.
func DocumentPath(dir string) string {
	return filepath.Join(dir, DocumentName)
}

// StatePath returns the latest-output state file under base.
func StatePath(base string) string {
	return filepath.Join(Root(base), StateName)
}

// CreateRunDir creates the run folder for now under base and returns its path.
func CreateRunDir(base string, now time.Time, logger *zap.Logger) (string, error) {
	logger = logging.OrNop(logger)
	dir := filepath.Join(Root(base), now.Format(TimestampLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("Failed to create run directory", zap.String("path", dir), zap.Error(err))
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	logger.Debug("Ensured run directory exists", zap.String("path", dir))
	return dir, nil
}

// WriteInfo writes info.txt into dir and returns its path.
func WriteInfo(dir string, info Info) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Command: %s\n", info.Command)
	fmt.Fprintf(&sb, "Timestamp: %s\n", info.Timestamp.Format(infoTimeLayout))
	if info.RunID != "" {
		fmt.Fprintf(&sb, "Run ID: %s\n", info.RunID)
	}

	path := filepath.Join(dir, InfoName)
	if err := filelock.WriteAtomic(path, []byte(sb.String())); err != nil {
		return "", fmt.Errorf("failed to write info file: %w", err)
	}
	return path, nil
}

// RecordLatest stores st as the latest digest under base.
func RecordLatest(base string, st State) error {
	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := filelock.LockAndWrite(StatePath(base), data); err != nil {
		return fmt.Errorf("failed to record latest digest: %w", err)
	}
	return nil
}

// ReadLatest returns the recorded latest digest under base. ErrNoLatest is
// returned when nothing was recorded or the recorded document is gone.
func ReadLatest(base string) (State, error) {
	var st State
	path := StatePath(base)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return State{}, ErrNoLatest
	}
	err := filelock.WithLock(path, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, &st)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, ErrNoLatest
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read latest digest state: %w", err)
	}
	if st.Path == "" {
		return State{}, ErrNoLatest
	}
	if info, err := os.Stat(st.Path); err != nil || !info.Mode().IsRegular() {
		return State{}, fmt.Errorf("%w: %s no longer exists", ErrNoLatest, st.Path)
	}
	return st, nil
}

// ListRecent returns up to n run folders under base, newest first. A missing
// aidigest directory yields fs.ErrNotExist.
func ListRecent(base string, n int) ([]Run, error) {
	root := Root(base)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if n > 0 && len(names) > n {
		names = names[:n]
	}

	runs := make([]Run, 0, len(names))
	for _, name := range names {
		run := Run{Name: name, Dir: filepath.Join(root, name)}
		doc := DocumentPath(run.Dir)
		if info, err := os.Stat(doc); err == nil && info.Mode().IsRegular() {
			run.Document = doc
		}
		if data, err := os.ReadFile(filepath.Join(run.Dir, InfoName)); err == nil {
			run.Info = string(data)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
