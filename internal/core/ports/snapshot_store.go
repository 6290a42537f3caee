// internal/core/ports/snapshot_store.go
package ports

import (
	"context"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

// SnapshotStore defines the persistence port for the catalog.
// The whole collection is read and written as one ordered snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, records []domain.Record) error
	Ping(ctx context.Context) error
	Close() error
}
