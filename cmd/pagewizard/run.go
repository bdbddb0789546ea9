package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/pagewizard"
	"github.com/aretw0/pagewizard/internal/presentation/tui"
	"github.com/aretw0/pagewizard/pkg/observability"
	"github.com/aretw0/pagewizard/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wizard in the terminal",
	Long:  `Starts the wizard in interactive mode. With --json it reads and writes one JSON object per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		logger := newLogger(cmd)

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdout)
		} else {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				tui.PrintBanner(os.Stdout)
			}
			handler = runner.NewTextHandler(os.Stdout, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}

		eng, err := newEngine(cmd, handler, logger,
			pagewizard.WithLifecycleHooks(observability.LoggingHooks(logger)))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := runner.NewRunner(
			runner.WithInputHandler(handler),
			runner.WithInput(os.Stdin),
			runner.WithLogger(logger),
		)
		return r.Run(ctx, eng)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	// 'run' is the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
