package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vocab-learning/internal/config"
	"vocab-learning/internal/database"
	"vocab-learning/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Vocabulary learning API server",
	// Running without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and connects to the store.
func bootstrap(ctx context.Context) (*config.Config, *logrus.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db connect: %w", err)
	}
	logger.WithField("driver", cfg.Database.Driver).Info("DB connected")
	return cfg, logger, db, nil
}
