package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the corpus with its Git remote",
	Long: `Synchronize the local corpus with the configured remote repository.
It integrates remote changes (pull --rebase) and pushes local changes.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(nil)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		fmt.Println("Syncing...")
		if err := harrow.Sync(root,
			harrow.WithVersioning(!gitless),
			harrow.WithLogger(slog.Default()),
		); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Sync failed: %v\n", err)
			fmt.Println("Tip: Ensure you have a remote configured ('git remote add origin <url>') and you are online.")
			os.Exit(1)
		}

		fmt.Println("Sync completed successfully.")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
