package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
	"github.com/harrowhq/harrow/pkg/core"
	"github.com/harrowhq/harrow/pkg/execplan"
	"github.com/harrowhq/harrow/pkg/lint"
)

var planTitle string

var execplanCmd = &cobra.Command{
	Use:   "execplan",
	Short: "Manage ExecPlan documents",
}

var execplanNewCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Scaffold a new draft ExecPlan",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(nil)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		doc, err := execplan.Scaffold(args[0], planTitle)
		if err != nil {
			fatal("Failed to scaffold plan", err)
		}

		service, err := harrow.New(root,
			harrow.WithMustExist(true),
			harrow.WithVersioning(!gitless),
			harrow.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open corpus", err)
		}

		ctx := context.WithValue(cmd.Context(), core.ChangeReasonKey,
			fmt.Sprintf("docs: start execplan %s", args[0]))
		if err := service.SaveDocument(ctx, doc.ID, doc.Content, doc.Metadata); err != nil {
			fatal("Failed to save plan", err)
		}

		fmt.Printf("Created %s.md\n", doc.ID)
	},
}

var execplanCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run compliance rules over the ExecPlan section",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(args)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		view, err := lint.LoadView(cmd.Context(), root, slog.Default())
		if err != nil {
			fatal("Failed to load corpus", err)
		}

		cfg := lintConfig()
		cfg.Include = []string{execplan.Section + "/**"}

		runner := lint.NewRunner(cfg, slog.Default())
		runner.Register(execplan.Rules()...)
		report, err := runner.Run(cmd.Context(), view)
		if err != nil {
			fatal("Plan check failed", err)
		}

		report.Render(os.Stdout)
		if report.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(execplanCmd)
	execplanCmd.AddCommand(execplanNewCmd)
	execplanCmd.AddCommand(execplanCheckCmd)
	execplanNewCmd.Flags().StringVar(&planTitle, "title", "", "Plan title (defaults to the slug)")
}
