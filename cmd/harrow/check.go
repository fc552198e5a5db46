package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Compliance gate: pass or fail the corpus for automation",
	Long: `Check runs the same rules as lint but reports a single verdict, suitable
as a pre-commit or CI gate. It fails on any error finding; with --strict,
warnings fail the gate too.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := runLint(cmd.Context(), args)
		if err != nil {
			fatal("Check failed", err)
		}

		failed := report.HasErrors() || (checkStrict && report.Warnings() > 0)
		if failed {
			report.Render(os.Stderr)
			color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "compliance check failed")
			os.Exit(1)
		}

		if report.Warnings() > 0 {
			fmt.Fprintf(os.Stderr, "compliance check passed with %d warning(s)\n", report.Warnings())
			return
		}
		fmt.Println("compliance check passed")
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as failures")
}
