// Package config resolves aidigest settings from defaults, an optional config
// file, AIDIGEST_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aidigest/pkg/classify"
	"aidigest/pkg/ignore"
	"aidigest/pkg/tokens"
	"aidigest/pkg/transform"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up without extension.
	FileName  = ".aidigest"
	EnvPrefix = "AIDIGEST"
)

// Config holds the resolved settings of one invocation.
type Config struct {
	Output                          string   `mapstructure:"output"`
	Exclude                         []string `mapstructure:"exclude"`
	DefaultIgnores                  bool     `mapstructure:"default_ignores"`
	WhitespaceRemoval               bool     `mapstructure:"whitespace_removal"`
	ShowOutputFiles                 bool     `mapstructure:"show_output_files"`
	Tree                            bool     `mapstructure:"tree"`
	Workers                         int      `mapstructure:"workers"`
	Classifier                      string   `mapstructure:"classifier"`
	Tokenizer                       string   `mapstructure:"tokenizer"`
	IgnoreFile                      string   `mapstructure:"ignore_file"`
	WhitespaceSignificantExtensions []string `mapstructure:"whitespace_significant_extensions"`
	Debug                           bool     `mapstructure:"debug"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig values
var DefaultConfig = Config{
	DefaultIgnores:                  true,
	Classifier:                      classify.NameSniff,
	Tokenizer:                       tokens.NameApproximate,
	IgnoreFile:                      ignore.DefaultIgnoreFile,
	WhitespaceSignificantExtensions: transform.DefaultWhitespaceSignificant,
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"output":             "output",
	"exclude":            "exclude",
	"whitespace-removal": "whitespace_removal",
	"show-output-files":  "show_output_files",
	"tree":               "tree",
	"workers":            "workers",
	"classifier":         "classifier",
	"tokenizer":          "tokenizer",
	"ignore-file":        "ignore_file",
	"debug":              "debug",
}

// InitFlags registers the configuration flags on cmd. Flags shared by every
// subcommand are persistent.
func InitFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to a configuration file (YAML, JSON or TOML)")
	pf.StringP("output", "o", "", "Base output directory (default: current working directory)")
	pf.Bool("debug", false, "Enable debug logging")

	f := cmd.Flags()
	f.StringSlice("exclude", nil, "Exclude patterns (glob syntax supported, repeatable or comma separated)")
	f.Bool("no-default-ignores", false, "Disable default ignore patterns")
	f.Bool("whitespace-removal", false, "Enable whitespace removal")
	f.Bool("show-output-files", false, "Display a list of files included in the output")
	f.Bool("tree", false, "Display the included files as a tree")
	f.Int("workers", DefaultConfig.Workers, "Number of concurrent file processors (0 uses all CPUs)")
	f.String("classifier", DefaultConfig.Classifier, "Content classifier: 'sniff' or 'extension'")
	f.String("tokenizer", DefaultConfig.Tokenizer, "Token estimator: 'approximate' or 'tiktoken'")
	f.String("ignore-file", DefaultConfig.IgnoreFile, "Name of the ignore file read from the working directory")
}

// Load resolves the configuration for cmd. cwd is where the config file is
// looked up first and the default output directory.
func Load(cmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(cwd)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "aidigest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if noDefaults, err := cmd.Flags().GetBool("no-default-ignores"); err == nil && noDefaults {
		cfg.DefaultIgnores = false
	}
	if cfg.Output == "" {
		cfg.Output = cwd
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := classify.New(c.Classifier); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch strings.ToLower(c.Tokenizer) {
	case "", tokens.NameApproximate, tokens.NameTiktoken:
	default:
		return fmt.Errorf("unsupported tokenizer %q", c.Tokenizer)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultConfig.Output)
	v.SetDefault("exclude", DefaultConfig.Exclude)
	v.SetDefault("default_ignores", DefaultConfig.DefaultIgnores)
	v.SetDefault("whitespace_removal", DefaultConfig.WhitespaceRemoval)
	v.SetDefault("show_output_files", DefaultConfig.ShowOutputFiles)
	v.SetDefault("tree", DefaultConfig.Tree)
	v.SetDefault("workers", DefaultConfig.Workers)
	v.SetDefault("classifier", DefaultConfig.Classifier)
	v.SetDefault("tokenizer", DefaultConfig.Tokenizer)
	v.SetDefault("ignore_file", DefaultConfig.IgnoreFile)
	v.SetDefault("whitespace_significant_extensions", DefaultConfig.WhitespaceSignificantExtensions)
	v.SetDefault("debug", DefaultConfig.Debug)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
