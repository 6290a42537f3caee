// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

// InventoryService defines the application service port for the catalog.
// This interface is implemented by the application service.
type InventoryService interface {
	AddItem(ctx context.Context, item domain.NewItem) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	ListItems(ctx context.Context) ([]*domain.Item, error)
	Search(ctx context.Context, params SearchParams) ([]*domain.Item, error)
	Purchase(ctx context.Context, id int64, qty int) (*domain.Item, error)
	Restock(ctx context.Context, id int64, qty int) (*domain.Item, error)
	ImportItems(ctx context.Context, items []domain.NewItem) (*ImportResult, error)
	Snapshot(ctx context.Context) ([]domain.Record, error)
}

// SearchBy selects which field a search runs against
type SearchBy string

const (
	SearchByName       SearchBy = "name"
	SearchByCategory   SearchBy = "category"
	SearchByPriceRange SearchBy = "price"
)

// SearchParams holds parameters for searching the catalog
type SearchParams struct {
	By       SearchBy
	Term     string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// ImportResult summarises a bulk import
type ImportResult struct {
	Imported []*domain.Item `json:"imported"`
	Skipped  []ImportSkip   `json:"skipped"`
}

// ImportSkip records a row that was not imported and why
type ImportSkip struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
