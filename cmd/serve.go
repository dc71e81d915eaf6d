package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-dashboard/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the dashboard state over HTTP",
	Long:  `Serves GET /api/dashboard, which runs a fresh aggregation per request and returns the final state as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		aggregator, cfg, err := newAggregator(cmd, logger)
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewRouter(aggregator, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
