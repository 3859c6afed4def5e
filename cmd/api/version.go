package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screening-agent/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
