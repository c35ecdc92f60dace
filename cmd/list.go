package cmd

import (
	"errors"
	"io/fs"

	"aidigest/pkg/outdir"
	"aidigest/pkg/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const recentLimit = 5

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent aidigest outputs",
	Long: `List the most recent run folders under <output>/aidigest with their info
files, and record the newest document as the latest output.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	out := report.New(cmd.OutOrStdout())

	runs, err := outdir.ListRecent(cfg.Output, recentLimit)
	if errors.Is(err, fs.ErrNotExist) {
		out.Error("No aidigest folder found in %s", cfg.Output)
		return nil
	}
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		out.Error("No aidigest outputs found in %s", outdir.Root(cfg.Output))
		return nil
	}

	out.PrintRecent(runs)

	newest := runs[0]
	if newest.Document == "" {
		out.Warn("No aidigest file found in the most recent folder")
		return nil
	}
	if err := outdir.RecordLatest(cfg.Output, outdir.State{Path: newest.Document}); err != nil {
		logger.Warn("Failed to record latest digest", zap.Error(err))
		return nil
	}
	out.PrintLatest(newest.Document)
	return nil
}
