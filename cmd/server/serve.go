package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vocab-learning/internal/api"
	"vocab-learning/internal/auth"
	"vocab-learning/internal/database"
	"vocab-learning/internal/metrics"
	"vocab-learning/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		migrate, _ := cmd.Flags().GetBool("migrate")

		cfg, logger, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if migrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("schema migrated")
		}

		// --- Wiring ---
		users := database.NewUserDAO(db)
		topics := database.NewTopicDAO(db)
		results := service.NewTestResultService(database.NewTestResultDAO(db))
		leaderboard := service.NewLeaderboardService(database.NewLeaderboardDAO(db), topics)

		svc := api.Services{
			Users:        service.NewUserService(users, cfg.Auth.BcryptCost, logger),
			Topics:       service.NewTopicService(topics),
			Vocabularies: service.NewVocabularyService(database.NewVocabularyDAO(db), topics),
			Tests:        service.NewTestService(database.NewTestDAO(db), topics, results, leaderboard, db, logger),
			Results:      results,
			Leaderboard:  leaderboard,
		}
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
		handler := api.NewApiHandler(svc, tokens, metrics.New(), db, logger)

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      api.NewRouter(handler, cfg),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("addr", srv.Addr).Info("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		// Graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.WithField("signal", sig.String()).Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server start: %w", err)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "apply the schema before serving")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}
