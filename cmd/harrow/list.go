package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
	"github.com/harrowhq/harrow/pkg/core"
)

var (
	listJSON     bool
	filterTag    string
	filterStatus string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents in the corpus",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(nil)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		service, err := harrow.New(root,
			harrow.WithMustExist(true),
			harrow.WithReadOnly(true),
			harrow.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open corpus", err)
		}

		docs, err := service.ListDocuments(cmd.Context())
		if err != nil {
			fatal("Failed to list documents", err)
		}

		var filtered []core.Document
		for _, doc := range docs {
			if filterTag != "" && !hasTag(doc.Metadata, filterTag) {
				continue
			}
			if filterStatus != "" {
				status, _ := doc.Metadata["status"].(string)
				if status != filterStatus {
					continue
				}
			}
			filtered = append(filtered, doc)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, doc := range filtered {
			status, _ := doc.Metadata["status"].(string)
			title, _ := doc.Metadata["title"].(string)
			fmt.Printf("%-10s %s", "["+status+"]", doc.ID)
			if title != "" {
				fmt.Printf(" - %s", title)
			}
			fmt.Println()
		}
	},
}

// hasTag handles both []interface{} (from YAML) and []string metadata shapes.
func hasTag(meta core.Metadata, tag string) bool {
	switch t := meta["tags"].(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == tag {
				return true
			}
		}
	case []string:
		for _, s := range t {
			if s == tag {
				return true
			}
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter documents by tag")
	listCmd.Flags().StringVar(&filterStatus, "status", "", "Filter documents by status")
}
