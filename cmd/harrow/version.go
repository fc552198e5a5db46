package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrowhq/harrow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of harrow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("harrow version %s\n", strings.TrimSpace(harrow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
