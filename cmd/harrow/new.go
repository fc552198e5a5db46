package main

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
	"github.com/harrowhq/harrow/pkg/core"
)

var (
	newTitle   string
	newTags    []string
	newSummary string
)

var newCmd = &cobra.Command{
	Use:   "new <section>/<slug>",
	Short: "Scaffold a new draft document",
	Long: `Creates a Markdown document with conforming frontmatter: the slug is
derived from the path, status starts as draft, and the summary and tags come
from flags. The document is committed when the corpus is Git-versioned.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := strings.TrimSuffix(args[0], ".md")
		if err := core.ValidateID(id); err != nil {
			fatal("Invalid document path", err)
		}
		if !strings.Contains(id, "/") {
			fatal("Invalid document path", fmt.Errorf("expected <section>/<slug>, got %q", id))
		}

		slug := path.Base(id)
		title := newTitle
		if title == "" {
			title = slug
		}
		summary := newSummary
		if summary == "" {
			summary = fmt.Sprintf("Placeholder summary for %s.", title)
		}

		root, err := corpusRoot(nil)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		service, err := harrow.New(root,
			harrow.WithMustExist(true),
			harrow.WithVersioning(!gitless),
			harrow.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open corpus", err)
		}

		fm := core.Frontmatter{
			Title:   title,
			Slug:    slug,
			Status:  core.StatusDraft,
			Tags:    newTags,
			Summary: summary,
		}
		content := fmt.Sprintf("\n## %s\n\nTODO: write this document.\n", title)

		if err := service.SaveTyped(cmd.Context(), id, content, fm); err != nil {
			fatal("Failed to save document", err)
		}

		fmt.Printf("Created %s.md\n", id)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Document title (defaults to the slug)")
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Taxonomy tags to apply (repeatable)")
	newCmd.Flags().StringVar(&newSummary, "summary", "", "One-line summary for the frontmatter")
}
