package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"portfolio/internal/bootstrap"
	"portfolio/internal/config"
	"portfolio/internal/log"
	"portfolio/internal/queue"
	"portfolio/internal/service"
	"portfolio/internal/tasks"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "portfolio-worker",
	Short:        "Consume background jobs for the portfolio API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := checkBackends(cfg); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
}

// checkBackends rejects process-local stores. The worker only sees the same
// records and objects as the API through postgres and minio; against a memory
// store every résumé would look orphaned and every warmed list empty.
func checkBackends(cfg *config.AppConfig) error {
	if cfg.Database.Driver == bootstrap.DriverMemory {
		return errors.New("worker needs a shared database; database.driver=memory is not supported")
	}
	if cfg.Storage.Driver == bootstrap.DriverMemory {
		return errors.New("worker needs shared object storage; storage.driver=memory is not supported")
	}
	return nil
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	rt, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer rt.Close()

	if rt.Redis == nil {
		return errors.New("worker needs redis; check redis.enabled and redis.addr")
	}

	services := service.NewServices(rt.Backends, cfg, logger)
	processor := tasks.NewProcessor(services.Hero, services, cfg.Worker.ResumeMinAge, logger)
	consumer := queue.NewConsumer(
		rt.Redis,
		cfg.Redis.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		logger,
		processor,
	)

	logger.Info().Str("stream", cfg.Redis.Stream).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	logger.Info().Msg("worker exited")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
