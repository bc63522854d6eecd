package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	apiserver "github.com/kubev2v/job-tracker/internal/api_server"
	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job tracker api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done, err := setupLogger()
		if err != nil {
			// config errors are fatal before anything is served
			fmt.Fprintf(os.Stderr, "reading configuration: %v\n", err)
			return err
		}
		defer done()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		s, err := store.InitStore(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				zap.S().Warnw("closing data store", "error", err)
			}
		}()

		ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
		defer cancel()

		if err := s.InitialMigration(ctx); err != nil {
			zap.S().Warnw("running initial migration, continuing without it", "error", err)
		}

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Metrics.Address)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.Metrics, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("Error running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}
