package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghighi/quotes-cli/internal/config"
	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quotes-cli",
	Short: "Record and chart betting quotes per player and event",
	Long:  "Appends time-stamped quote observations to a local CSV, Google Sheets, SQLite, or Postgres log and derives latest-per-player snapshots and date-by-player series from it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore resolves the configured backend once for the command.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("store opened", zap.String("driver", store.ResolveDriver(cfg)))
	return s, nil
}

// readLog reads the full observation log through a short-lived store.
func readLog(ctx context.Context) ([]model.Record, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close() //nolint:errcheck

	return s.Read(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
