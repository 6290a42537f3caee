// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// memoryStore keeps the last saved snapshot in memory so benchmarks
// measure the catalog rather than disk I/O
type memoryStore struct {
	mu      sync.Mutex
	records []domain.Record
}

var _ ports.SnapshotStore = (*memoryStore)(nil)

func newMemoryStore(records []domain.Record) *memoryStore {
	return &memoryStore{records: records}
}

func (m *memoryStore) Load(context.Context) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Record(nil), m.records...), nil
}

func (m *memoryStore) Save(_ context.Context, records []domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	return nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }

func (m *memoryStore) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
