package main

import (
	"fmt"

	"github.com/aretw0/pagewizard/internal/presentation/graph"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [flow-file]",
	Short: "Export the flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the flow steps and transitions.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			_ = cmd.Flags().Set("flow", args[0])
		}
		f, err := loadFlow(cmd, afero.NewOsFs())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(f.Graph, f.Entry, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
