package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/get-papers-list/internal/registry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of get-papers-list",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "get-papers-list %s (registry %s)\n", version, registry.Default().Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
