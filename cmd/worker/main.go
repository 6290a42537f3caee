// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammerola/sweetshop-be/internal/adapters/catalog"
	"github.com/ammerola/sweetshop-be/internal/adapters/storage"
	"github.com/ammerola/sweetshop-be/internal/pkg/config"
	"github.com/ammerola/sweetshop-be/internal/pkg/logger"
	"github.com/ammerola/sweetshop-be/internal/workers"
)

// Version is injected at compile time
var Version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	slogger := logger.SetupLogger(logger.LogConfig{Level: "info", Format: "json"})

	cfg, err := config.Load(slogger)
	if err != nil {
		return err
	}
	if !cfg.Asynq.Enabled {
		return errors.New("worker requires ASYNQ_ENABLED=true")
	}

	slogger = logger.SetupLogger(logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		ServiceName:    cfg.App.Name + "-worker",
		ServiceVersion: Version,
		Environment:    cfg.App.Environment,
	})
	slogger.Info("starting worker",
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.Bool("backups", cfg.AWS.BackupEnabled))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ResolveSecrets(ctx, cfg, slogger); err != nil {
		return err
	}

	lowStock := workers.NewLowStockProcessor(workers.NewLogSink(slogger), slogger)

	var backup *workers.BackupProcessor
	if cfg.AWS.BackupEnabled {
		backend, err := catalog.Open(ctx, cfg, slogger)
		if err != nil {
			return err
		}
		defer backend.Close()

		objects, err := catalog.NewS3Objects(ctx, cfg, slogger)
		if err != nil {
			return fmt.Errorf("failed to open backup bucket: %w", err)
		}
		backups := storage.NewBackups(objects, cfg.AWS.BackupPrefix, slogger,
			storage.WithRetention(cfg.AWS.BackupRetention))
		backup = workers.NewBackupProcessor(backend.Store, backups, slogger)
	}

	srv := workers.NewServer(cfg.Asynq, slogger)
	if err := srv.Start(workers.NewServeMux(lowStock, backup)); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}

	if backup != nil {
		scheduler, err := workers.NewScheduler(cfg.Asynq, slogger)
		if err != nil {
			srv.Shutdown()
			return err
		}
		if err := scheduler.Start(); err != nil {
			srv.Shutdown()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer scheduler.Shutdown()
	}

	slogger.Info("worker started",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	<-ctx.Done()
	slogger.Info("shutdown signal received")

	srv.Shutdown()
	slogger.Info("worker shutdown complete")
	return nil
}
