package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"aidigest/pkg/outdir"
	"aidigest/pkg/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultEditor = "vim"

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the latest aidigest output in an editor",
	Long:  `Open the latest aidigest output in $VISUAL, $EDITOR or vim.`,
	Args:  cobra.NoArgs,
	RunE:  runView,
}

func init() {
	RootCmd.AddCommand(viewCmd)
}

// openInEditor is replaced in tests.
var openInEditor = func(editor []string, path string) error {
	c := exec.Command(editor[0], append(editor[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func runView(cmd *cobra.Command, _ []string) error {
	st, err := outdir.ReadLatest(cfg.Output)
	if errors.Is(err, outdir.ErrNoLatest) {
		report.New(cmd.OutOrStdout()).Warn("No latest aidigest recorded or the file does not exist. Run aidigest or use -l first.")
		return nil
	}
	if err != nil {
		return err
	}

	editor := editorCommand()
	logger.Debug("Opening latest digest", zap.String("editor", editor[0]), zap.String("filePath", st.Path))
	if err := openInEditor(editor, st.Path); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor[0], err)
	}
	return nil
}

// editorCommand returns the editor invocation from $VISUAL or $EDITOR,
// falling back to vim.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{defaultEditor}
}
