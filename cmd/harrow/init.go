package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a corpus in the current directory",
	Long: `Initialize a new corpus in the current directory: creates the system
directory and, unless --gitless is set, runs 'git init' with an ignore entry
for the index cache.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		_, err = harrow.Init(cwd,
			harrow.WithAutoInit(true),
			harrow.WithVersioning(!gitless),
			harrow.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize corpus", err)
		}

		fmt.Println("Initialized harrow corpus in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
