package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the schema or indexes of the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done, err := setupLogger()
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading configuration: %v\n", err)
			return err
		}
		defer done()

		zap.S().Info("Initializing data store")
		s, err := store.InitStore(cfg)
		if err != nil {
			return fmt.Errorf("initializing data store: %w", err)
		}
		defer func() { _ = s.Close() }()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := s.InitialMigration(ctx); err != nil {
			return fmt.Errorf("running initial migration: %w", err)
		}

		zap.S().Info("Store migrated")
		return nil
	},
}
