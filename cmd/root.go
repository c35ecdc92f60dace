package cmd

import (
	"context"
	"fmt"
	"os"

	"aidigest/pkg/config"
	"aidigest/pkg/logging"
	"aidigest/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger = zap.NewNop()
	cfg    *config.Config
)

// RootCmd is the base command. Without a subcommand it builds a digest of
// its arguments.
var RootCmd = &cobra.Command{
	Use:   "aidigest [inputs...]",
	Short: "aidigest aggregates files into a single Markdown digest",
	Long: `aidigest collects files matching the given inputs (files, directories or
glob patterns, default "."), filters them through default ignores, the
.aidigestignore file and exclude patterns, and concatenates them into one
Markdown document for feeding to a language model.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              runRoot,
	SilenceErrors:     true,
}

func init() {
	config.InitFlags(RootCmd)
	RootCmd.Flags().BoolP("list", "l", false, "List recent aidigest outputs")
	RootCmd.Flags().BoolP("view", "v", false, "Open the latest aidigest file in an editor")
	RootCmd.MarkFlagsMutuallyExclusive("list", "view")
}

// Execute runs the root command with l as the process logger.
func Execute(ctx context.Context, l *zap.Logger) error {
	if l != nil {
		logger = l
	}
	return RootCmd.ExecuteContext(ctx)
}

// Logger returns the logger in use, which --debug may have replaced.
func Logger() *zap.Logger {
	return logger
}

// loadConfig resolves the configuration once flags are parsed. Errors past
// this point are runtime failures, so usage output is suppressed for them.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	c, err := config.Load(cmd, cwd)
	if err != nil {
		return err
	}
	cfg = c
	cmd.SilenceUsage = true

	if cfg.Debug {
		debugLogger, err := logging.Setup(true, version.AppName, version.Version)
		if err != nil {
			return fmt.Errorf("failed to initialize debug logger: %w", err)
		}
		logger = debugLogger
	}
	if cfg.ConfigFile != "" {
		logger.Debug("Loaded configuration file", zap.String("configFile", cfg.ConfigFile))
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list"); list {
		return runList(cmd, args)
	}
	if view, _ := cmd.Flags().GetBool("view"); view {
		return runView(cmd, args)
	}
	return runDigest(cmd, args)
}
