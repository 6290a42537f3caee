// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// Task types
const (
	TypeLowStock      = "stock:low"
	TypeCatalogBackup = "catalog:backup"
)

// Queue names, matching the ASYNQ_QUEUES defaults
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// lowStockDedupWindow is how long a handled alert keeps its task id, so
// later alerts for the same item are dropped as conflicts
const lowStockDedupWindow = 10 * time.Minute

// LowStockTaskID is the task id shared by every alert for one item. The
// payload carries the changing quantity and cannot be the dedup key.
func LowStockTaskID(itemID int64) string {
	return fmt.Sprintf("%s:%d", TypeLowStock, itemID)
}

// NewLowStockTask builds the task raised when a purchase drains an item
func NewLowStockTask(alert ports.LowStockAlert, maxRetry int) (*asynq.Task, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to encode low stock alert: %w", err)
	}
	return asynq.NewTask(TypeLowStock, payload,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(LowStockTaskID(alert.ItemID)),
		asynq.Retention(lowStockDedupWindow),
	), nil
}

// NewBackupTask builds a catalog backup task
func NewBackupTask(maxRetry int) *asynq.Task {
	return asynq.NewTask(TypeCatalogBackup, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(5*time.Minute),
	)
}

type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer publishes tasks to asynq
type Enqueuer struct {
	client   taskClient
	maxRetry int
	logger   *slog.Logger
}

// Statically assert that *Enqueuer implements the TaskEnqueuer interface.
var _ ports.TaskEnqueuer = (*Enqueuer)(nil)

// NewEnqueuer wraps an asynq client
func NewEnqueuer(client *asynq.Client, maxRetry int, logger *slog.Logger) *Enqueuer {
	return newEnqueuer(client, maxRetry, logger)
}

func newEnqueuer(client taskClient, maxRetry int, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client:   client,
		maxRetry: maxRetry,
		logger:   logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueLowStock publishes a low stock alert. A duplicate within the
// dedup window is not an error.
func (e *Enqueuer) EnqueueLowStock(ctx context.Context, alert ports.LowStockAlert) error {
	task, err := NewLowStockTask(alert, e.maxRetry)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		if isDuplicate(err) {
			e.logger.DebugContext(ctx, "low stock alert already queued", slog.Int64("item_id", alert.ItemID))
			return nil
		}
		return fmt.Errorf("failed to enqueue %s: %w", TypeLowStock, err)
	}

	e.logger.InfoContext(ctx, "enqueued low stock alert",
		slog.String("task_id", info.ID),
		slog.Int64("item_id", alert.ItemID),
		slog.Int("quantity", alert.Quantity))
	return nil
}

// EnqueueBackup requests an immediate catalog backup
func (e *Enqueuer) EnqueueBackup(ctx context.Context) error {
	info, err := e.client.EnqueueContext(ctx, NewBackupTask(e.maxRetry))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeCatalogBackup, err)
	}

	e.logger.InfoContext(ctx, "enqueued catalog backup", slog.String("task_id", info.ID))
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict)
}
