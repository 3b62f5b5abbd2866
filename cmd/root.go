package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikefara123/vcoin-engine/internal/config"
	"github.com/mikefara123/vcoin-engine/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vcoin-engine",
	Short: "Content reward distribution and token supply modeling",
	Long:  "Scores content cohorts, allocates daily reward pools, applies price-responsive minting and token sinks, and projects supply dynamics over time.",
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

// initStore opens the configured run history backend and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
