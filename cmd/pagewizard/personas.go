package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Manage saved personas",
}

var personasListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAccount(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		list, err := client.ListPersonas(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved personas found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tGENRE")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.SaveName, p.Persona.Genre())
		}
		return w.Flush()
	},
}

var personasDeleteCmd = &cobra.Command{
	Use:     "delete <persona-id>...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more saved personas",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAccount(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		var failed int
		for _, id := range args {
			if err := client.DeletePersona(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed persona '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d personas not removed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(personasCmd)
	personasCmd.AddCommand(personasListCmd, personasDeleteCmd)
}
