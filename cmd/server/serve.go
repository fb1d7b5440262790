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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/player-stats-relay/internal/api"
	"github.com/stitts-dev/player-stats-relay/pkg/config"
	"github.com/stitts-dev/player-stats-relay/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP relay",
		Long: `Run the HTTP relay on PORT (default 3000).

Endpoints:
  POST /api/player-stats-batch
  POST /api/player-points-batch
  POST /api/expert-leaderboard
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cfg)
		},
	}
}

func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsProduction():
		return gin.ReleaseMode
	case cfg.IsDevelopment():
		return gin.DebugMode
	default:
		return gin.TestMode
	}
}

func serve(cfg *config.Config) error {
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	gin.SetMode(ginMode(cfg))

	a := newApp(cfg, log)
	defer a.Close()

	router := api.NewRouter(cfg, a.services)
	entry := logger.WithService("player-stats-relay")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		// Batches run sequentially against a slow provider
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		entry.WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	entry.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		entry.WithError(err).Error("Server forced to shutdown")
		return err
	}

	entry.Info("Server exited")
	return nil
}
