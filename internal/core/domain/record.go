// internal/core/domain/record.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is the flat persisted form of an Item. Field names match the
// catalog document written by earlier versions of the shop.
type Record struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ToRecord converts the item to its persisted form
func (i *Item) ToRecord() Record {
	return Record{
		ID:       i.ID,
		Name:     i.Name,
		Category: string(i.Category),
		Price:    i.Price,
		Quantity: i.Quantity,
	}
}

// ItemFromRecord builds an item field for field
func ItemFromRecord(r Record) *Item {
	return &Item{
		ID:       r.ID,
		Name:     r.Name,
		Category: ItemCategory(r.Category),
		Price:    r.Price,
		Quantity: r.Quantity,
	}
}

// NewItem holds the caller-supplied fields of an item to be created
type NewItem struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Normalize trims whitespace from the text fields
func (n *NewItem) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	n.Category = strings.TrimSpace(n.Category)
}

// Validate checks the field rules the shop front enforces before adding.
// Name uniqueness needs the catalog and is checked by the service.
func (n *NewItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !n.Price.IsPositive() {
		return NewValidationError("price", "must be greater than 0")
	}
	if n.Quantity <= 0 {
		return NewValidationError("quantity", "must be greater than 0")
	}
	return nil
}

// ValidateAmount checks a purchase or restock quantity
func ValidateAmount(qty int) error {
	if qty <= 0 {
		return NewValidationError("quantity", "must be greater than 0")
	}
	return nil
}
