package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrowhq/harrow"
	"github.com/harrowhq/harrow/pkg/lint"
)

var (
	verbose bool
	gitless bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harrow",
	Short: "A compliance and curation engine for Markdown knowledge corpora",
	Long: `Harrow keeps a directory of Markdown documents with YAML frontmatter honest.
It validates frontmatter, enforces the tag taxonomy, checks internal links and
citations, and manages ExecPlan documents, all backed by transactional
filesystem writes with optional Git versioning.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&gitless, "gitless", false, "Operate without Git versioning")

	// Environment variables
	viper.SetEnvPrefix("HARROW")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName(".harrow")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

// corpusRoot resolves the corpus root for a command: an explicit path
// argument wins, otherwise walk upwards from the working directory.
// Falls back to the working directory when no indicator is found.
func corpusRoot(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	root, err := harrow.FindCorpusRoot(cwd)
	if err != nil {
		slog.Debug("no corpus root indicator found, using working directory", "cwd", cwd)
		return cwd, nil
	}
	return root, nil
}

// lintConfig builds the rule configuration from defaults overridden by
// the config file / environment.
func lintConfig() lint.Config {
	cfg := lint.DefaultConfig()

	if v := viper.GetStringSlice("lint.include"); len(v) > 0 {
		cfg.Include = v
	}
	if v := viper.GetStringSlice("lint.exclude"); len(v) > 0 {
		cfg.Exclude = v
	}
	if v := viper.GetStringSlice("lint.ignore_rules"); len(v) > 0 {
		cfg.IgnoreRules = v
	}
	if v := viper.GetInt("lint.max_summary_len"); v > 0 {
		cfg.MaxSummaryLen = v
	}
	if v := viper.GetInt("lint.max_source_age_days"); v > 0 {
		cfg.MaxSourceAge = time.Duration(v) * 24 * time.Hour
	}
	if v := viper.GetStringSlice("lint.sections"); len(v) > 0 {
		cfg.Sections = v
	}
	return cfg
}
