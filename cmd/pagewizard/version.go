package main

import (
	"fmt"

	"github.com/aretw0/pagewizard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pagewizard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pagewizard version %s\n", pagewizard.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
