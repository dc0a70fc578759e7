package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portfolio/internal/bootstrap"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/jobs"
	"portfolio/internal/metrics"
	"portfolio/internal/queue"
	"portfolio/internal/server"
	"portfolio/internal/service"
	"portfolio/internal/session"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		if autoMigrate && rt.Pool != nil {
			if err := database.Migrate(ctx, rt.Pool, logger); err != nil {
				return err
			}
		}

		if cfg.Security.JWTSecret == "your-secret-key-change-in-production" && !cfg.IsDevelopment() {
			logger.Warn().Msg("using the default session secret; set PORTFOLIO_SECURITY_JWTSECRET")
		}

		services := service.NewServices(rt.Backends, cfg, logger)
		sessions := session.NewManager(cfg.Security, !cfg.IsDevelopment(), logger)
		m := metrics.New()

		handlerSet := handlers.NewHandlerSet(logger, cfg, services, sessions, m, rt.Checks...)
		httpServer := server.NewHTTPServer(cfg, logger, handlerSet, m)

		var enqueuer jobs.Enqueuer
		if rt.Redis != nil {
			enqueuer = queue.NewProducer(rt.Redis, cfg.Redis.Stream)
		}
		scheduler := jobs.NewScheduler(enqueuer, cfg.Jobs, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
		defer scheduler.Stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}

		logger.Info().Msg("server exited cleanly")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply database migrations before serving")
}
