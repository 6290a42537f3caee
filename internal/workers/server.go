// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/sweetshop-be/internal/pkg/config"
)

// RedisOpt builds the asynq connection options from config
func RedisOpt(cfg config.AsynqConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewServer creates the asynq server that runs the processors
func NewServer(cfg config.AsynqConfig, logger *slog.Logger) *asynq.Server {
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          cfg.Queues,
		StrictPriority:  cfg.StrictPriority,
		ErrorHandler:    errorHandler(logger),
		RetryDelayFunc:  ExponentialBackoff,
		ShutdownTimeout: cfg.ShutdownTimeout,
		HealthCheckFunc: func(err error) {
			if err != nil {
				logger.Error("worker health check failed", slog.String("error", err.Error()))
			}
		},
		Logger: NewAsynqLogger(logger),
	})
}

// NewServeMux routes task types to processors
func NewServeMux(lowStock *LowStockProcessor, backup *BackupProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeLowStock, lowStock.ProcessTask)
	if backup != nil {
		mux.HandleFunc(TypeCatalogBackup, backup.ProcessTask)
	}
	return mux
}

// NewScheduler registers the periodic backup
func NewScheduler(cfg config.AsynqConfig, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(cfg), &asynq.SchedulerOpts{
		Logger: NewAsynqLogger(logger),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Error("scheduled enqueue failed", slog.String("error", err.Error()))
			}
		},
	})

	entryID, err := scheduler.Register(cfg.BackupCron, NewBackupTask(cfg.RetryMax))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule backups with %q: %w", cfg.BackupCron, err)
	}

	logger.Info("catalog backups scheduled",
		slog.String("entry_id", entryID),
		slog.String("cron", cfg.BackupCron))

	return scheduler, nil
}

// ExponentialBackoff doubles the delay per retry, capped at ten minutes
func ExponentialBackoff(n int, _ error, _ *asynq.Task) time.Duration {
	const (
		base    = time.Second
		ceiling = 10 * time.Minute
	)
	if n >= 20 {
		return ceiling
	}
	if delay := base << uint(n); delay < ceiling {
		return delay
	}
	return ceiling
}

func errorHandler(logger *slog.Logger) asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		logger.ErrorContext(ctx, "task processing failed",
			slog.String("type", task.Type()),
			slog.Int("retried", retried),
			slog.Int("max_retry", maxRetry),
			slog.String("error", err.Error()))
	})
}

// AsynqLogger adapts slog for asynq
type AsynqLogger struct {
	logger *slog.Logger
}

// NewAsynqLogger creates an asynq logger backed by logger
func NewAsynqLogger(logger *slog.Logger) *AsynqLogger {
	return &AsynqLogger{logger: logger.With(slog.String("component", "asynq"))}
}

func (l *AsynqLogger) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *AsynqLogger) Info(args ...any)  { l.logger.Info(fmt.Sprint(args...)) }
func (l *AsynqLogger) Warn(args ...any)  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *AsynqLogger) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }

func (l *AsynqLogger) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
