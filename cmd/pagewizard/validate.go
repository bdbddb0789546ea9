package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flow-file]",
	Short: "Check a flow definition for consistency",
	Long:  `Checks the flow document against its schema and reports dangling links, unknown actions and unreachable steps.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			_ = cmd.Flags().Set("flow", args[0])
		}
		f, err := loadFlow(cmd, afero.NewOsFs())
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Flow is valid! ✅ (%d steps, entry %q)\n", len(f.Graph.Steps()), f.Entry)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
