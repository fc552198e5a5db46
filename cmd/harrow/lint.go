package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow/pkg/execplan"
	"github.com/harrowhq/harrow/pkg/lint"
)

var lintJSON bool

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Run all compliance rules over the corpus and report findings",
	Long: `Lint loads every Markdown document under the corpus root and runs the
full rule set: frontmatter shape, status vocabulary, tag taxonomy, internal
links and anchors, citations against declared sources, and ExecPlan structure.
Exits non-zero when any error-severity finding is produced.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := runLint(cmd.Context(), args)
		if err != nil {
			fatal("Lint failed", err)
		}

		if lintJSON {
			if err := report.WriteJSON(os.Stdout); err != nil {
				fatal("Failed to encode report", err)
			}
		} else {
			report.Render(os.Stdout)
		}

		if report.HasErrors() {
			os.Exit(1)
		}
	},
}

// runLint is shared by lint, check, and watch.
func runLint(ctx context.Context, args []string) (*lint.Report, error) {
	root, err := corpusRoot(args)
	if err != nil {
		return nil, err
	}

	view, err := lint.LoadView(ctx, root, slog.Default())
	if err != nil {
		return nil, err
	}

	runner := lint.NewRunner(lintConfig(), slog.Default())
	runner.Register(execplan.Rules()...)
	return runner.Run(ctx, view)
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output findings in JSON format")
}
