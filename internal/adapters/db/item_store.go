// internal/adapters/db/item_store.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

const itemsTable = "items"

var itemColumns = []string{"id", "name", "category", "price", "quantity", "position"}

// ItemStore keeps the catalog snapshot in the items table. Every Save
// replaces the table contents inside one transaction.
type ItemStore struct {
	db     *sql.DB
	psql   squirrel.StatementBuilderType
	logger *slog.Logger
}

// Statically assert that *ItemStore implements the SnapshotStore interface.
var _ ports.SnapshotStore = (*ItemStore)(nil)

// NewItemStore creates a snapshot store over db. The caller owns db.
func NewItemStore(db *sql.DB, logger *slog.Logger) *ItemStore {
	return &ItemStore{
		db:     db,
		psql:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger.With(slog.String("repository", "items")),
	}
}

// Load returns every stored item in catalog order
func (s *ItemStore) Load(ctx context.Context) ([]domain.Record, error) {
	query, args, err := s.psql.
		Select("id", "name", "category", "price", "quantity").
		From(itemsTable).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Price, &r.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	s.logger.DebugContext(ctx, "items loaded", slog.Int("count", len(records)))

	return records, nil
}

// Save replaces the stored catalog with records
func (s *ItemStore) Save(ctx context.Context, records []domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.replace(ctx, tx, records); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "items saved", slog.Int("count", len(records)))

	return nil
}

func (s *ItemStore) replace(ctx context.Context, tx *sql.Tx, records []domain.Record) error {
	query, args, err := s.psql.Delete(itemsTable).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	insert := s.psql.Insert(itemsTable).Columns(itemColumns...)
	for i, r := range records {
		insert = insert.Values(r.ID, r.Name, r.Category, r.Price, r.Quantity, i)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}

	return nil
}

// Ping verifies database connectivity
func (s *ItemStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the connection belongs to the caller
func (s *ItemStore) Close() error {
	return nil
}
