// File: pkg/combine/config.go
package combine

import (
	"errors"
	"path/filepath"

	"aidigest/pkg/classify"
	"aidigest/pkg/tokens"
)

// DefaultSizeThreshold is the document size above which token estimation is
// skipped and a size warning is reported.
const DefaultSizeThreshold = 10 * 1024 * 1024

// ErrIntegrity is returned when the persisted document differs from the one
// built in memory.
var ErrIntegrity = errors.New("persisted output does not match generated output")

// Options holds the configuration of one aggregation run.
type Options struct {
	Inputs                []string                   // Input patterns; empty means ".".
	Excludes              []string                   // Caller exclude patterns, applied during collection.
	IgnoreFileRules       []string                   // Rules read from the ignore file.
	UseDefaults           bool                       // Apply ignore.DefaultIgnores.
	CompactWhitespace     bool                       // Compact whitespace of eligible text files.
	WhitespaceSignificant []string                   // Extensions never compacted; nil means the defaults.
	OutputPath            string                     // Destination of the document.
	SkipDir               string                     // Root of all digest outputs; never collected.
	Base                  string                     // Directory relative paths are computed from; empty means cwd.
	Workers               int                        // Concurrent file processors; <= 0 means NumCPU.
	Classifier            classify.ContentClassifier // nil means classify.Sniffer.
	Estimator             tokens.Estimator           // nil means tokens.Approximate.
	SizeThreshold         int                        // <= 0 means DefaultSizeThreshold.
	Writer                DocumentWriter             // nil means AtomicWriter.
	OnCollected           func(total int)            // Called with the candidate count before filtering.
}

// Block is the rendered section of one included file.
type Block struct {
	Path    string        // Slash-separated path relative to Options.Base.
	Kind    classify.Kind // Classification of the file.
	Content string        // Rendered block, header included.
}

// Summary counts what happened during a run.
type Summary struct {
	Total           int      // Candidates found, outputs excluded.
	Included        int      // Files with a block in the document.
	DefaultIgnored  int      // Dropped by the default ignore list.
	CustomIgnored   int      // Dropped by ignore-file rules or excludes.
	Binary          int      // Included as binary or SVG placeholders.
	Failed          int      // Skipped because they could not be read.
	Bytes           int      // Document length.
	Checksum        uint64   // xxh3 of the document.
	SizeWarning     bool     // Document exceeded the size threshold.
	TokensEstimated bool     // Tokens holds an estimate.
	Tokens          int      // Estimated token count.
	Tokenizer       string   // Estimator name.
	IncludedFiles   []string // Relative paths of included files, sorted.
}

// Result is returned by a successful run.
type Result struct {
	OutputPath string
	Summary    Summary
}

func (o Options) withDefaults() Options {
	if len(o.Inputs) == 0 {
		o.Inputs = []string{"."}
	}
	if o.Base == "" {
		o.Base = "."
	}
	if abs, err := filepath.Abs(o.Base); err == nil {
		o.Base = abs
	}
	if o.Classifier == nil {
		o.Classifier = classify.Sniffer{}
	}
	if o.Estimator == nil {
		o.Estimator = tokens.Approximate{}
	}
	if o.SizeThreshold <= 0 {
		o.SizeThreshold = DefaultSizeThreshold
	}
	if o.Writer == nil {
		o.Writer = AtomicWriter{}
	}
	return o
}
