// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Print the active indicator registry as YAML",
	Long: `Registry prints the academic terms, legal forms, company terms and email
pattern the classifier uses. Redirect the output to a file, edit it, and pass
it back with --registry to customize classification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier(cmd.Context(), viper.GetString("registry"))
		if err != nil {
			return err
		}
		data, err := c.Registry().Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(registryCmd)
}
