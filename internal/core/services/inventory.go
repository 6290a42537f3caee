// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// DefaultLowStockThreshold is the quantity at or below which a purchase raises an alert
const DefaultLowStockThreshold = 5

// ExportCachePattern matches every cached export rendering
const ExportCachePattern = "export:*"

// InventoryService handles catalog business logic. It is the only caller of
// its InventoryManager and serializes every operation with one mutex.
type InventoryService struct {
	mu        sync.Mutex
	manager   *InventoryManager
	store     ports.SnapshotStore
	cache     ports.CacheRepository
	tasks     ports.TaskEnqueuer
	threshold int
	logger    *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// Option configures optional collaborators of the service
type Option func(*InventoryService)

// WithCache invalidates cached exports after each mutation
func WithCache(cache ports.CacheRepository) Option {
	return func(s *InventoryService) { s.cache = cache }
}

// WithTaskEnqueuer enables low-stock alerts
func WithTaskEnqueuer(tasks ports.TaskEnqueuer) Option {
	return func(s *InventoryService) { s.tasks = tasks }
}

// WithLowStockThreshold overrides DefaultLowStockThreshold
func WithLowStockThreshold(threshold int) Option {
	return func(s *InventoryService) { s.threshold = threshold }
}

// NewInventoryService creates a new inventory service
func NewInventoryService(manager *InventoryManager, store ports.SnapshotStore, logger *slog.Logger, opts ...Option) *InventoryService {
	s := &InventoryService{
		manager:   manager,
		store:     store,
		threshold: DefaultLowStockThreshold,
		logger:    logger.With(slog.String("service", "inventory")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory catalog with the stored snapshot
func (s *InventoryService) Load(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("failed to load catalog: duplicate item id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.Load(records)

	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("count", len(records)))

	return nil
}

// AddItem validates and adds a new item
func (s *InventoryService) AddItem(ctx context.Context, in domain.NewItem) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.manager.Export()

	item, err := s.addLocked(in)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected new item",
			slog.String("name", in.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.commit(ctx, previous); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "added item",
		slog.Int64("id", item.ID),
		slog.String("name", item.Name),
		slog.String("category", string(item.Category)))

	return item.Clone(), nil
}

func (s *InventoryService) addLocked(in domain.NewItem) (*domain.Item, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.nameTakenLocked(in.Name) {
		return nil, domain.NewValidationError("name", "already exists")
	}
	return s.manager.Add(in.Name, domain.ItemCategory(in.Category), in.Price, in.Quantity), nil
}

func (s *InventoryService) nameTakenLocked(name string) bool {
	for _, item := range s.manager.ViewAll() {
		if strings.EqualFold(item.Name, name) {
			return true
		}
	}
	return false
}

// DeleteItem removes an item permanently
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.manager.Export()

	if err := s.manager.Delete(id); err != nil {
		return err
	}

	if err := s.commit(ctx, previous); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleted item", slog.Int64("id", id))
	return nil
}

// GetItem retrieves an item by id
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// ListItems returns the whole catalog in insertion order
func (s *InventoryService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneItems(s.manager.ViewAll()), nil
}

// Search runs a single-criterion search
func (s *InventoryService) Search(ctx context.Context, params ports.SearchParams) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*domain.Item
	switch params.By {
	case ports.SearchByName:
		items = s.manager.SearchByName(params.Term)
	case ports.SearchByCategory:
		items = s.manager.SearchByCategory(params.Term)
	case ports.SearchByPriceRange:
		items = s.manager.SearchByPriceRange(params.MinPrice, params.MaxPrice)
	default:
		return nil, domain.NewValidationError("search", "must be one of name, category, price")
	}

	s.logger.DebugContext(ctx, "searched catalog",
		slog.String("by", string(params.By)),
		slog.Int("results", len(items)))

	return cloneItems(items), nil
}

// Purchase takes qty units of an item out of stock
func (s *InventoryService) Purchase(ctx context.Context, id int64, qty int) (*domain.Item, error) {
	if err := domain.ValidateAmount(qty); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.manager.Export()

	if err := s.manager.Purchase(id, qty); err != nil {
		s.logger.WarnContext(ctx, "purchase rejected",
			slog.Int64("id", id),
			slog.Int("quantity", qty),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.commit(ctx, previous); err != nil {
		return nil, err
	}

	item, _ := s.manager.Get(id)

	s.logger.InfoContext(ctx, "purchased item",
		slog.Int64("id", id),
		slog.Int("quantity", qty),
		slog.Int("remaining", item.Quantity))

	if s.tasks != nil && item.Quantity <= s.threshold {
		alert := ports.NewLowStockAlert(item, s.threshold)
		if err := s.tasks.EnqueueLowStock(ctx, alert); err != nil {
			s.logger.WarnContext(ctx, "failed to enqueue low stock alert",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
		}
	}

	return item.Clone(), nil
}

// Restock adds qty units of an item to stock
func (s *InventoryService) Restock(ctx context.Context, id int64, qty int) (*domain.Item, error) {
	if err := domain.ValidateAmount(qty); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.manager.Export()

	if err := s.manager.Restock(id, qty); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, previous); err != nil {
		return nil, err
	}

	item, _ := s.manager.Get(id)

	s.logger.InfoContext(ctx, "restocked item",
		slog.Int64("id", id),
		slog.Int("quantity", qty),
		slog.Int("stock", item.Quantity))

	return item.Clone(), nil
}

// ImportItems adds every valid row and reports the rest. Rows are checked
// against the catalog and against earlier rows of the same import.
func (s *InventoryService) ImportItems(ctx context.Context, rows []domain.NewItem) (*ports.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ports.ImportResult{
		Imported: make([]*domain.Item, 0, len(rows)),
		Skipped:  make([]ports.ImportSkip, 0),
	}
	if len(rows) == 0 {
		s.logger.InfoContext(ctx, "no items to import")
		return result, nil
	}

	previous := s.manager.Export()

	for i, row := range rows {
		item, err := s.addLocked(row)
		if err != nil {
			result.Skipped = append(result.Skipped, ports.ImportSkip{
				Row:    i + 1,
				Name:   strings.TrimSpace(row.Name),
				Reason: err.Error(),
			})
			continue
		}
		result.Imported = append(result.Imported, item.Clone())
	}

	if len(result.Imported) > 0 {
		if err := s.commit(ctx, previous); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "imported items",
		slog.Int("imported", len(result.Imported)),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

// Snapshot returns the catalog as records
func (s *InventoryService) Snapshot(ctx context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.manager.Export(), nil
}

// commit persists the current catalog. When the store rejects it, the
// manager is reset to previous so the failed call leaves no trace.
func (s *InventoryService) commit(ctx context.Context, previous []domain.Record) error {
	if err := s.store.Save(ctx, s.manager.Export()); err != nil {
		s.manager.Load(previous)
		s.logger.ErrorContext(ctx, "failed to persist catalog",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to persist catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, ExportCachePattern); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate export cache",
				slog.String("error", err.Error()))
		}
	}

	return nil
}

func cloneItems(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
