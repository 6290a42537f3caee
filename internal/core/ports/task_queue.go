// internal/core/ports/task_queue.go
package ports

import (
	"context"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

// LowStockAlert describes an item whose stock fell to or below the threshold
type LowStockAlert struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// NewLowStockAlert builds an alert for item
func NewLowStockAlert(item *domain.Item, threshold int) LowStockAlert {
	return LowStockAlert{
		ItemID:    item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Threshold: threshold,
	}
}

// TaskEnqueuer hands background work to the worker process
type TaskEnqueuer interface {
	EnqueueLowStock(ctx context.Context, alert LowStockAlert) error
	EnqueueBackup(ctx context.Context) error
}
