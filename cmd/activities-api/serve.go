package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"school-activities/internal/api"
	"school-activities/internal/common/config"
	"school-activities/internal/common/logger"
	"school-activities/internal/common/observability"
	"school-activities/internal/enrollment"
	"school-activities/internal/models"
	"school-activities/internal/registry"
)

type serveOptions struct {
	configPath string
	seedPath   string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	cmd.Flags().StringVar(&opts.seedPath, "seed", "", "activity seed file, overrides registry.seed_path")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func loadSeed(path string) ([]models.Activity, error) {
	if path == "" {
		return registry.DefaultSeed()
	}
	return registry.LoadSeed(path)
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if opts.seedPath != "" {
		cfg.Registry.SeedPath = opts.seedPath
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).With(
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()
	if err := obs.EnableTracing(cfg.App.Name, cfg.App.Version, cfg.Tracing); err != nil {
		log.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
	}

	seed, err := loadSeed(cfg.Registry.SeedPath)
	if err != nil {
		return err
	}
	reg, err := registry.New(seed)
	if err != nil {
		return err
	}
	log.Info("activity registry loaded", map[string]interface{}{
		"activities": len(seed),
		"seedPath":   cfg.Registry.SeedPath,
	})

	publisher, err := buildPublisher(ctx, cfg.Events, zapLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("closing event sinks", map[string]interface{}{"error": err.Error()})
		}
	}()

	svc := enrollment.NewService(enrollment.ServiceDependencies{
		Registry:       reg,
		Publisher:      publisher,
		Observability:  obs,
		Logger:         log,
		PublishTimeout: config.GetDuration(cfg.Events.PublishTimeout),
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(svc, log, cfg.Server.StaticDir), log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zapLog.Info("Activities API stopped")
	return nil
}
