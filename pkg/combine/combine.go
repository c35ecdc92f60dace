// Package combine collects, filters and concatenates files into a single
// digest document.
package combine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"aidigest/pkg/classify"
	"aidigest/pkg/ignore"
	"aidigest/pkg/logging"
	"aidigest/pkg/transform"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

type candidate struct {
	abs string
	rel string
}

// Run builds the digest document described by opts, writes it to
// opts.OutputPath and verifies the written bytes. Per-file failures are
// counted in the summary and never abort the run. The document is not written
// when ctx is cancelled first.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (*Result, error) {
	logger = logging.OrNop(logger)
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	opts = opts.withDefaults()
	startTime := time.Now()

	outputPath, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}
	skipDir := ""
	if opts.SkipDir != "" {
		if skipDir, err = filepath.Abs(opts.SkipDir); err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	logger.Info("Starting digest", zap.Strings("inputs", opts.Inputs), zap.String("base", opts.Base))

	exclude := ignore.New(opts.Base, opts.Excludes, logger)
	found, err := CollectFiles(ctx, opts.Inputs, opts.Base, exclude, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	candidates := make([]candidate, 0, len(found))
	for abs := range found {
		if abs == outputPath || isWithin(skipDir, abs) {
			logger.Debug("Skipping digest output", zap.String("filePath", abs))
			continue
		}
		candidates = append(candidates, candidate{abs: abs, rel: relativeSlashPath(opts.Base, abs)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].rel < candidates[j].rel
	})

	if opts.OnCollected != nil {
		opts.OnCollected(len(candidates))
	}

	var defaults *ignore.Filter
	if opts.UseDefaults {
		defaults = ignore.New(opts.Base, ignore.DefaultIgnores, logger)
	}
	customRules := make([]string, 0, len(opts.IgnoreFileRules)+len(opts.Excludes))
	customRules = append(customRules, opts.IgnoreFileRules...)
	customRules = append(customRules, opts.Excludes...)
	custom := ignore.New(opts.Base, customRules, logger)

	summary := Summary{Total: len(candidates), Tokenizer: opts.Estimator.Name()}
	survivors := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if defaults.Ignores(c.abs) {
			summary.DefaultIgnored++
			continue
		}
		if custom.Ignores(c.abs) {
			summary.CustomIgnored++
			continue
		}
		survivors = append(survivors, c.abs)
	}
	logger.Debug("Applied ignore filters",
		zap.Int("total", summary.Total),
		zap.Int("defaultIgnored", summary.DefaultIgnored),
		zap.Int("customIgnored", summary.CustomIgnored))

	p := &processor{
		base:       opts.Base,
		classifier: opts.Classifier,
		transform: transform.Options{
			CompactWhitespace:     opts.CompactWhitespace,
			WhitespaceSignificant: opts.WhitespaceSignificant,
		},
	}
	blocks, failed, err := ProcessFilesConcurrently(ctx, survivors, opts.Workers, p.ProcessSingleFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to process files: %w", err)
	}
	summary.Failed = failed

	var doc strings.Builder
	for _, b := range blocks {
		doc.WriteString(b.Content)
		summary.IncludedFiles = append(summary.IncludedFiles, b.Path)
		if b.Kind != classify.Text {
			summary.Binary++
		}
	}
	summary.Included = len(blocks)
	document := doc.String()
	summary.Bytes = len(document)
	summary.Checksum = xxh3.HashString(document)

	if summary.Bytes > opts.SizeThreshold {
		summary.SizeWarning = true
		logger.Warn("Output exceeds size threshold, skipping token estimation",
			zap.Int("bytes", summary.Bytes),
			zap.Int("threshold", opts.SizeThreshold))
	} else {
		summary.Tokens = opts.Estimator.Estimate(document)
		summary.TokensEstimated = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := persist(opts.Writer, outputPath, document, summary.Checksum, logger); err != nil {
		return nil, err
	}

	logger.Info("Digest written",
		zap.String("outputFile", outputPath),
		zap.Int("includedFiles", summary.Included),
		zap.Int("bytes", summary.Bytes),
		zap.Duration("elapsed", time.Since(startTime)))

	return &Result{OutputPath: outputPath, Summary: summary}, nil
}
