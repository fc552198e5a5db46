package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow/pkg/taxonomy"
)

var taxonomyJSON bool

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy [path]",
	Short: "Show the tag taxonomy defined in _meta/TAXONOMY.md",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := corpusRoot(args)
		if err != nil {
			fatal("Failed to resolve corpus root", err)
		}

		tax, err := taxonomy.Load(root)
		if err != nil {
			fatal("Failed to load taxonomy", err)
		}

		if !tax.Defined() {
			fmt.Fprintf(os.Stderr, "no taxonomy found (%s is missing or empty)\n", taxonomy.File)
			os.Exit(1)
		}

		if taxonomyJSON {
			entries := make(map[string]string, tax.Len())
			for _, tag := range tax.Tags() {
				entries[tag] = tax.Description(tag)
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(entries); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, tag := range tax.Tags() {
			if desc := tax.Description(tag); desc != "" {
				fmt.Printf("%s\t%s\n", tag, desc)
			} else {
				fmt.Println(tag)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Output in JSON format")
}
