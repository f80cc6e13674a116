// Command audio_generator synthesizes a pronunciation MP3 for every vocabulary
// word that has none yet. Run it from the project root:
//
//	go run ./scripts/audio_generator --dir media
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vocab-learning/internal/audio"
	"vocab-learning/internal/config"
	"vocab-learning/internal/database"
	"vocab-learning/internal/logging"
)

var (
	outputDir string
	workers   int
)

var rootCmd = &cobra.Command{
	Use:          "audio_generator",
	Short:        "Generate vocabulary pronunciations with Google Text-to-Speech",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := logging.New(cfg.Log.Level, cfg.Log.Format)

		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		synth, err := audio.NewGoogleSynthesizer(ctx)
		if err != nil {
			return err
		}
		defer synth.Close()
		logger.Info("connected to Google TTS")

		gen := audio.NewGenerator(database.NewVocabularyDAO(db), synth, outputDir, logger, audio.WithWorkers(workers))
		sum, err := gen.Run(ctx)
		if err != nil {
			return err
		}
		if sum.Failed > 0 {
			return fmt.Errorf("%d of %d words failed", sum.Failed, sum.Pending)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&outputDir, "dir", "media", "directory the MP3 files are written to")
	rootCmd.Flags().IntVar(&workers, "workers", audio.DefaultWorkers, "concurrent synthesis requests")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
