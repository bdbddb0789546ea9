package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long:  `Signs in with a user id and password, or with --api-key. The token is kept in the credential store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, account, err := newAccount(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		apiKey, _ := cmd.Flags().GetString("api-key")
		userID, _ := cmd.Flags().GetString("user")
		remember, _ := cmd.Flags().GetBool("remember")
		out := cmd.OutOrStdout()

		if apiKey != "" {
			creds, err := account.LoginWithAPIKey(cmd.Context(), apiKey, remember)
			if err != nil {
				return err
			}
			printSignedIn(out, creds)
			return nil
		}

		in := bufio.NewReader(cmd.InOrStdin())
		if userID == "" {
			fmt.Fprint(out, "User ID: ")
			line, err := in.ReadString('\n')
			if err != nil && err != io.EOF {
				return err
			}
			userID = strings.TrimSpace(line)
		}
		password, err := readPassword(out, in)
		if err != nil {
			return err
		}

		creds, err := account.Login(cmd.Context(), userID, password, remember)
		if err != nil {
			return err
		}
		printSignedIn(out, creds)
		return nil
	},
}

func printSignedIn(w io.Writer, creds *domain.Credentials) {
	if creds.User == nil {
		fmt.Fprintln(w, "Signed in.")
		return
	}
	fmt.Fprintf(w, "Signed in. Credits: %d\n", creds.User.RemainingCredits)
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(out io.Writer, in *bufio.Reader) (string, error) {
	fmt.Fprint(out, "Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, account, err := newAccount(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		if err := account.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show the remaining credits",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, account, err := newAccount(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		n, err := account.RefreshCredits(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Credits: %d\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, creditsCmd)
	loginCmd.Flags().String("user", "", "User ID (prompted when empty)")
	loginCmd.Flags().String("api-key", "", "Sign in with an API key instead of a password")
	loginCmd.Flags().Bool("remember", true, "Keep the session between runs")
}
