// internal/adapters/badgerstore/store.go
package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

var itemPrefix = []byte("catalog:item:")

// Store keeps the catalog in an embedded badger database, one key per item.
// Keys carry the catalog position so iteration returns catalog order.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Statically assert that *Store implements the SnapshotStore interface.
var _ ports.SnapshotStore = (*Store)(nil)

// Open opens (or creates) the database in dir
func Open(dir string, logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a database that lives only as long as the process
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	logger = logger.With(slog.String("repository", "badger"))

	db, err := badger.Open(opts.WithLogger(&badgerLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Load returns every stored item in catalog order
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	records := make([]domain.Record, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         itemPrefix,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var r domain.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", item.Key(), err)
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.logger.DebugContext(ctx, "catalog loaded", slog.Int("count", len(records)))
	return records, nil
}

// Save replaces the stored catalog in a single transaction
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte

		it := txn.NewIterator(badger.IteratorOptions{Prefix: itemPrefix})
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for i, r := range records {
			val, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode item %d: %w", r.ID, err)
			}
			if err := txn.Set(itemKey(i), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	s.logger.DebugContext(ctx, "catalog saved", slog.Int("count", len(records)))
	return nil
}

// Ping reports whether the database is still open
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return nil
}

// Close flushes and closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func itemKey(position int) []byte {
	return fmt.Appendf(append([]byte(nil), itemPrefix...), "%08d", position)
}

// badgerLogger routes badger's internal logging into slog
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
