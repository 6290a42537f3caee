// internal/core/domain/inventory.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ItemCategory is a free-form category label
type ItemCategory string

// Categories offered by the shop front. Any other label is accepted.
const (
	CategoryNutBased       ItemCategory = "Nut-Based"
	CategoryVegetableBased ItemCategory = "Vegetable-Based"
	CategoryMilkBased      ItemCategory = "Milk-Based"
	CategoryChocolate      ItemCategory = "Chocolate"
	CategorySugarBased     ItemCategory = "Sugar-Based"
)

// FirstItemID is the identifier given to the first item of an empty catalog.
const FirstItemID int64 = 1001

// KnownCategories returns the shop's predefined categories in display order
func KnownCategories() []ItemCategory {
	return []ItemCategory{
		CategoryNutBased,
		CategoryVegetableBased,
		CategoryMilkBased,
		CategoryChocolate,
		CategorySugarBased,
	}
}

// Item represents a single catalog entry
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category ItemCategory    `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Clone returns a detached copy of the item
func (i *Item) Clone() *Item {
	c := *i
	return &c
}

// InStock reports whether at least one unit is available
func (i *Item) InStock() bool {
	return i.Quantity > 0
}

// NameMatches reports whether sub occurs in the item name, ignoring case
func (i *Item) NameMatches(sub string) bool {
	return containsFold(i.Name, sub)
}

// CategoryMatches reports whether sub occurs in the category, ignoring case
func (i *Item) CategoryMatches(sub string) bool {
	return containsFold(string(i.Category), sub)
}

// PriceWithin reports whether min <= price <= max
func (i *Item) PriceWithin(min, max decimal.Decimal) bool {
	return i.Price.GreaterThanOrEqual(min) && i.Price.LessThanOrEqual(max)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
