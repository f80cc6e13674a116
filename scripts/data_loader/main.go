// Command data_loader imports topics, vocabularies and tests from a directory
// of CSV files or from one .xlsx workbook:
//
//	go run ./scripts/data_loader scripts/seed
//	go run ./scripts/data_loader --migrate seed.xlsx
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vocab-learning/internal/config"
	"vocab-learning/internal/database"
	"vocab-learning/internal/importer"
	"vocab-learning/internal/logging"
	"vocab-learning/internal/service"
)

const defaultSeedDir = "scripts/seed"

var migrate bool

var rootCmd = &cobra.Command{
	Use:          "data_loader [path]",
	Short:        "Load seed data into the database",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		path := defaultSeedDir
		if len(args) == 1 {
			path = args[0]
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := logging.New(cfg.Log.Level, cfg.Log.Format)

		ds, err := importer.ReadPath(path)
		if err != nil {
			return err
		}
		logger.WithField("path", path).Info("seed data read")

		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		if migrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}

		topicDAO := database.NewTopicDAO(db)
		results := service.NewTestResultService(database.NewTestResultDAO(db))
		board := service.NewLeaderboardService(database.NewLeaderboardDAO(db), topicDAO)
		loader := importer.NewLoader(
			service.NewTopicService(topicDAO),
			service.NewVocabularyService(database.NewVocabularyDAO(db), topicDAO),
			service.NewTestService(database.NewTestDAO(db), topicDAO, results, board, db, logger),
			db,
			logger,
		)

		if _, err := loader.Load(ctx, ds); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		logger.WithField("elapsed", time.Since(start).String()).Info("done")
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before loading")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
