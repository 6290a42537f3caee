// internal/handlers/inventory.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// InventoryHandler handles catalog HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// CreateItemRequest is the body of POST /api/v1/items
type CreateItemRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// QuantityRequest is the body of purchase and restock requests
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ItemsResponse wraps a list of items
type ItemsResponse struct {
	Items []*domain.Item `json:"items"`
	Total int            `json:"total"`
}

// ListItems handles GET /api/v1/items. At most one of name, category or
// the price bounds may be given; with none the whole catalog is returned.
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, search, err := parseSearch(r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	var items []*domain.Item
	if search {
		items, err = h.service.Search(ctx, params)
	} else {
		items, err = h.service.ListItems(ctx)
	}
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, ItemsResponse{Items: items, Total: len(items)})
}

func parseSearch(r *http.Request) (ports.SearchParams, bool, error) {
	q := r.URL.Query()

	var chosen []ports.SearchParams
	if q.Has("name") {
		chosen = append(chosen, ports.SearchParams{By: ports.SearchByName, Term: q.Get("name")})
	}
	if q.Has("category") {
		chosen = append(chosen, ports.SearchParams{By: ports.SearchByCategory, Term: q.Get("category")})
	}
	if q.Has("min_price") || q.Has("max_price") {
		minPrice, err := decimal.NewFromString(q.Get("min_price"))
		if err != nil {
			return ports.SearchParams{}, false, domain.NewValidationError("min_price", "must be a number")
		}
		maxPrice, err := decimal.NewFromString(q.Get("max_price"))
		if err != nil {
			return ports.SearchParams{}, false, domain.NewValidationError("max_price", "must be a number")
		}
		chosen = append(chosen, ports.SearchParams{By: ports.SearchByPriceRange, MinPrice: minPrice, MaxPrice: maxPrice})
	}

	switch len(chosen) {
	case 0:
		return ports.SearchParams{}, false, nil
	case 1:
		return chosen[0], true, nil
	default:
		return ports.SearchParams{}, false, domain.NewValidationError("search", "only one of name, category or price range may be given")
	}
}

// GetItem handles GET /api/v1/items/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/v1/items
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.AddItem(r.Context(), domain.NewItem{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/items/"+strconv.FormatInt(item.ID, 10))
	respondJSON(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PurchaseItem handles POST /api/v1/items/{id}/purchase
func (h *InventoryHandler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.service.Purchase)
}

// RestockItem handles POST /api/v1/items/{id}/restock
func (h *InventoryHandler) RestockItem(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.service.Restock)
}

type stockFunc func(ctx context.Context, id int64, qty int) (*domain.Item, error)

func (h *InventoryHandler) adjustStock(w http.ResponseWriter, r *http.Request, apply stockFunc) {
	id, err := parseID(r)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	var req QuantityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := apply(r.Context(), id, req.Quantity)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// ListCategories handles GET /api/v1/categories
func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"categories": domain.KnownCategories()})
}
