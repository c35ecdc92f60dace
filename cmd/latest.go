package cmd

import (
	"errors"
	"fmt"

	"aidigest/pkg/outdir"
	"aidigest/pkg/report"

	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the path of the latest aidigest output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := outdir.ReadLatest(cfg.Output)
		if errors.Is(err, outdir.ErrNoLatest) {
			report.New(cmd.ErrOrStderr()).Warn("No latest aidigest recorded. Run aidigest or aidigest list first.")
			return err
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), st.Path)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(latestCmd)
}
