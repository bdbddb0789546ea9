package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/pagewizard"
	httpAdapter "github.com/aretw0/pagewizard/pkg/adapters/http"
	"github.com/aretw0/pagewizard/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard to a browser front-end",
	Long:  `Starts the wizard behind an HTTP API. Render commands are polled from /commands or streamed from /stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		origin, _ := cmd.Flags().GetString("origin")
		logger := newLogger(cmd)

		metrics, err := observability.NewMetrics(nil)
		if err != nil {
			return err
		}

		outbox := httpAdapter.NewOutbox(0, httpAdapter.WithOutboxLogger(logger))
		eng, err := newEngine(cmd, outbox, logger, pagewizard.WithLifecycleHooks(
			observability.Combine(observability.LoggingHooks(logger), metrics.Hooks()),
		))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(eng, outbox,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(metrics.Handler()),
				httpAdapter.WithAllowedOrigin(origin),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting PageWizard server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "PageWizard server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("origin", "*", "Allowed CORS origin")
}
