// internal/core/services/manager.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

// InventoryManager owns the item collection and applies every mutation to it.
// It performs no locking; a concurrent host must serialize calls.
type InventoryManager struct {
	items []*domain.Item
}

// NewInventoryManager creates an empty manager
func NewInventoryManager() *InventoryManager {
	return &InventoryManager{}
}

// Add appends a new item and returns it. The id is 1001 for an empty catalog
// and one past the current maximum otherwise, so deleting the highest id and
// adding again reuses it. Inputs are not validated here.
func (m *InventoryManager) Add(name string, category domain.ItemCategory, price decimal.Decimal, quantity int) *domain.Item {
	item := &domain.Item{
		ID:       m.nextID(),
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	}
	m.items = append(m.items, item)
	return item
}

// nextID scans the collection for the maximum id.
func (m *InventoryManager) nextID() int64 {
	if len(m.items) == 0 {
		return domain.FirstItemID
	}
	max := m.items[0].ID
	for _, item := range m.items[1:] {
		if item.ID > max {
			max = item.ID
		}
	}
	return max + 1
}

// Delete removes the item with the given id
func (m *InventoryManager) Delete(id int64) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return &domain.NotFoundError{ID: id}
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	return nil
}

// Get returns the item with the given id
func (m *InventoryManager) Get(id int64) (*domain.Item, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, &domain.NotFoundError{ID: id}
	}
	return m.items[idx], nil
}

// ViewAll returns every item in insertion order
func (m *InventoryManager) ViewAll() []*domain.Item {
	out := make([]*domain.Item, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of items
func (m *InventoryManager) Len() int {
	return len(m.items)
}

// SearchByName returns items whose name contains sub, ignoring case
func (m *InventoryManager) SearchByName(sub string) []*domain.Item {
	return m.filter(func(i *domain.Item) bool { return i.NameMatches(sub) })
}

// SearchByCategory returns items whose category contains sub, ignoring case
func (m *InventoryManager) SearchByCategory(sub string) []*domain.Item {
	return m.filter(func(i *domain.Item) bool { return i.CategoryMatches(sub) })
}

// SearchByPriceRange returns items priced within [min, max]. An inverted
// range matches nothing.
func (m *InventoryManager) SearchByPriceRange(min, max decimal.Decimal) []*domain.Item {
	return m.filter(func(i *domain.Item) bool { return i.PriceWithin(min, max) })
}

// Purchase takes qty units out of stock. The quantity is left untouched when
// fewer than qty units are available; an item that reaches zero stays listed.
func (m *InventoryManager) Purchase(id int64, qty int) error {
	item, err := m.Get(id)
	if err != nil {
		return err
	}
	if item.Quantity < qty {
		return &domain.InsufficientStockError{
			ID:        id,
			Requested: qty,
			Available: item.Quantity,
		}
	}
	item.Quantity -= qty
	return nil
}

// Restock adds qty units to stock
func (m *InventoryManager) Restock(id int64, qty int) error {
	item, err := m.Get(id)
	if err != nil {
		return err
	}
	item.Quantity += qty
	return nil
}

// Load replaces the collection with items built from records
func (m *InventoryManager) Load(records []domain.Record) {
	items := make([]*domain.Item, 0, len(records))
	for _, r := range records {
		items = append(items, domain.ItemFromRecord(r))
	}
	m.items = items
}

// Export returns the collection as records, in order
func (m *InventoryManager) Export() []domain.Record {
	records := make([]domain.Record, 0, len(m.items))
	for _, item := range m.items {
		records = append(records, item.ToRecord())
	}
	return records
}

func (m *InventoryManager) indexOf(id int64) int {
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (m *InventoryManager) filter(match func(*domain.Item) bool) []*domain.Item {
	out := make([]*domain.Item, 0)
	for _, item := range m.items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}
