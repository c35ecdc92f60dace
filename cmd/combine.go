package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"aidigest/pkg/classify"
	"aidigest/pkg/combine"
	"aidigest/pkg/ignore"
	"aidigest/pkg/outdir"
	"aidigest/pkg/report"
	"aidigest/pkg/tokens"
	"aidigest/pkg/version"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runDigest builds one digest into a new run folder under the output base,
// reports the outcome and records the document as the latest output.
func runDigest(cmd *cobra.Command, args []string) error {
	out := report.New(cmd.OutOrStdout())

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	classifier, err := classify.New(cfg.Classifier)
	if err != nil {
		return err
	}
	estimator, err := tokens.New(cfg.Tokenizer)
	if err != nil {
		return err
	}

	now := time.Now()
	runID := uuid.NewString()
	runLogger := logger.With(zap.String("runID", runID))

	runDir, err := outdir.CreateRunDir(cfg.Output, now, runLogger)
	if err != nil {
		return err
	}
	infoPath, err := outdir.WriteInfo(runDir, outdir.Info{
		Command:   commandLine(),
		Timestamp: now,
		RunID:     runID,
	})
	if err != nil {
		return err
	}

	rules, err := ignore.ReadIgnoreFile(cwd, cfg.IgnoreFile, runLogger)
	if err != nil {
		runLogger.Warn("Failed to read ignore file, continuing without it",
			zap.String("ignoreFile", cfg.IgnoreFile),
			zap.Error(err))
	}
	out.PrintIgnoreFile(cfg.IgnoreFile, cwd, rules != nil)
	out.PrintSettings(cfg.DefaultIgnores, cfg.WhitespaceRemoval)

	opts := combine.Options{
		Inputs:                args,
		Excludes:              cfg.Exclude,
		IgnoreFileRules:       rules,
		UseDefaults:           cfg.DefaultIgnores,
		CompactWhitespace:     cfg.WhitespaceRemoval,
		WhitespaceSignificant: cfg.WhitespaceSignificantExtensions,
		OutputPath:            outdir.DocumentPath(runDir),
		SkipDir:               outdir.Root(cfg.Output),
		Base:                  cwd,
		Workers:               cfg.Workers,
		Classifier:            classifier,
		Estimator:             estimator,
		OnCollected:           out.PrintFound,
	}

	res, err := combine.Run(cmd.Context(), opts, runLogger)
	if err != nil {
		out.Error("Digest failed: %v", err)
		return err
	}

	out.PrintSummary(res, cfg.DefaultIgnores)
	if cfg.ShowOutputFiles {
		out.PrintIncluded(res.Summary.IncludedFiles)
	}
	if cfg.Tree {
		out.PrintTree(res.Summary.IncludedFiles)
	}
	out.PrintDone(res.OutputPath, infoPath)

	if err := outdir.RecordLatest(cfg.Output, outdir.State{Path: res.OutputPath, RunID: runID, Created: now}); err != nil {
		runLogger.Warn("Failed to record latest digest", zap.Error(err))
		return nil
	}
	out.PrintLatest(res.OutputPath)
	return nil
}

// commandLine reconstructs the invocation for the info file.
func commandLine() string {
	return strings.Join(append([]string{version.AppName}, os.Args[1:]...), " ")
}
