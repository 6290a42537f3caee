// internal/workers/processors.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
	"github.com/ammerola/sweetshop-be/internal/pkg/logger"
)

// AlertSink receives low stock alerts once they leave the queue
type AlertSink interface {
	Notify(ctx context.Context, alert ports.LowStockAlert) error
}

// LogSink reports alerts through the logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs at warn level
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With(slog.String("component", "alerts"))}
}

// Notify logs the alert
func (s *LogSink) Notify(ctx context.Context, alert ports.LowStockAlert) error {
	s.logger.WarnContext(ctx, "item stock is low",
		slog.Int64("item_id", alert.ItemID),
		slog.String("name", alert.Name),
		slog.Int("quantity", alert.Quantity),
		slog.Int("threshold", alert.Threshold))
	return nil
}

// LowStockProcessor handles stock:low tasks
type LowStockProcessor struct {
	sink   AlertSink
	logger *slog.Logger
}

// NewLowStockProcessor creates a new low stock processor
func NewLowStockProcessor(sink AlertSink, logger *slog.Logger) *LowStockProcessor {
	return &LowStockProcessor{
		sink:   sink,
		logger: logger.With(slog.String("processor", "low_stock")),
	}
}

// ProcessTask decodes the alert and hands it to the sink. Malformed
// payloads are not retried.
func (p *LowStockProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var alert ports.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", TypeLowStock, err, asynq.SkipRetry)
	}
	if alert.ItemID == 0 {
		return fmt.Errorf("invalid %s payload: missing item_id: %w", TypeLowStock, asynq.SkipRetry)
	}

	ctx = withTask(ctx, t)
	if err := p.sink.Notify(ctx, alert); err != nil {
		return fmt.Errorf("failed to deliver low stock alert for item %d: %w", alert.ItemID, err)
	}
	return nil
}

// BackupWriter stores a catalog copy and returns where it went
type BackupWriter interface {
	Write(ctx context.Context, records []domain.Record) (string, error)
}

// BackupProcessor copies the primary catalog snapshot into backup storage.
// It reads the store directly and never mutates the catalog.
type BackupProcessor struct {
	source  ports.SnapshotStore
	backups BackupWriter
	logger  *slog.Logger
}

// NewBackupProcessor creates a new backup processor
func NewBackupProcessor(source ports.SnapshotStore, backups BackupWriter, logger *slog.Logger) *BackupProcessor {
	return &BackupProcessor{
		source:  source,
		backups: backups,
		logger:  logger.With(slog.String("processor", "backup")),
	}
}

// ProcessTask writes one backup
func (p *BackupProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	ctx = withTask(ctx, t)

	records, err := p.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog for backup: %w", err)
	}

	key, err := p.backups.Write(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to write catalog backup: %w", err)
	}

	p.logger.InfoContext(ctx, "catalog backed up",
		slog.String("key", key),
		slog.Int("items", len(records)))
	return nil
}

func withTask(ctx context.Context, t *asynq.Task) context.Context {
	ctx = logger.WithValue(ctx, logger.ContextKeyTaskType, t.Type())
	if id, ok := asynq.GetTaskID(ctx); ok {
		ctx = logger.WithValue(ctx, logger.ContextKeyTaskID, id)
	}
	return ctx
}
