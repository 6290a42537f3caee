package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
	"github.com/ammerola/sweetshop-be/internal/handlers"
	"github.com/ammerola/sweetshop-be/test/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kaju() *domain.Item {
	return &domain.Item{ID: 1001, Name: "Kaju Katli", Category: domain.CategoryNutBased, Price: decimal.NewFromInt(50), Quantity: 20}
}

// newServer routes requests through the real mux so path values resolve
func newServer(t *testing.T, service ports.InventoryService, cache ports.CacheRepository) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	rt := &handlers.Router{
		Inventory: handlers.NewInventoryHandler(service, testLogger()),
		Export:    handlers.NewExportHandler(service, cache, testLogger()),
		Import:    handlers.NewImportHandler(service, 1<<20, testLogger()),
	}
	rt.Register(mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestInventoryHandler_ListItems(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(*mocks.MockInventoryService)
		wantStatus int
		wantTotal  int
	}{
		{
			name:  "whole_catalog",
			query: "",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().ListItems(gomock.Any()).Return([]*domain.Item{kaju()}, nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  1,
		},
		{
			name:  "search_by_name",
			query: "?name=kaju",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Search(gomock.Any(), ports.SearchParams{By: ports.SearchByName, Term: "kaju"}).
					Return([]*domain.Item{kaju()}, nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  1,
		},
		{
			name:  "search_by_category",
			query: "?category=milk",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Search(gomock.Any(), ports.SearchParams{By: ports.SearchByCategory, Term: "milk"}).
					Return([]*domain.Item{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "search_by_price_range",
			query: "?min_price=10&max_price=50.5",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, p ports.SearchParams) ([]*domain.Item, error) {
						assert.Equal(t, ports.SearchByPriceRange, p.By)
						assert.True(t, p.MinPrice.Equal(decimal.NewFromInt(10)))
						assert.True(t, p.MaxPrice.Equal(decimal.RequireFromString("50.5")))
						return []*domain.Item{kaju()}, nil
					})
			},
			wantStatus: http.StatusOK,
			wantTotal:  1,
		},
		{
			name:       "price_range_needs_both_bounds",
			query:      "?min_price=10",
			setup:      func(*mocks.MockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "two_criteria_rejected",
			query:      "?name=a&category=b",
			setup:      func(*mocks.MockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockInventoryService(ctrl)
			tt.setup(service)

			w := do(newServer(t, service, nil), http.MethodGet, "/api/v1/items"+tt.query, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				var resp handlers.ItemsResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantTotal, resp.Total)
				assert.Len(t, resp.Items, tt.wantTotal)
			}
		})
	}
}

func TestInventoryHandler_GetItem(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		setup      func(*mocks.MockInventoryService)
		wantStatus int
	}{
		{
			name: "found",
			id:   "1001",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().GetItem(gomock.Any(), int64(1001)).Return(kaju(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not_found",
			id:   "42",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().GetItem(gomock.Any(), int64(42)).Return(nil, &domain.NotFoundError{ID: 42})
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed_id",
			id:         "abc",
			setup:      func(*mocks.MockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store_failure_hides_detail",
			id:   "1001",
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().GetItem(gomock.Any(), int64(1001)).Return(nil, errors.New("pq: connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockInventoryService(ctrl)
			tt.setup(service)

			w := do(newServer(t, service, nil), http.MethodGet, "/api/v1/items/"+tt.id, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestInventoryHandler_CreateItem(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockInventoryService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"name":"Kaju Katli","category":"Nut-Based","price":50,"quantity":20}`,
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().AddItem(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, in domain.NewItem) (*domain.Item, error) {
						assert.Equal(t, "Kaju Katli", in.Name)
						assert.True(t, in.Price.Equal(decimal.NewFromInt(50)))
						return kaju(), nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "validation_error",
			body: `{"name":"","category":"x","price":"1","quantity":1}`,
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil, domain.NewValidationError("name", "is required"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed_json",
			body:       `{"name":`,
			setup:      func(*mocks.MockInventoryService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockInventoryService(ctrl)
			tt.setup(service)

			w := do(newServer(t, service, nil), http.MethodPost, "/api/v1/items", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "/api/v1/items/1001", w.Header().Get("Location"))
			}
		})
	}
}

func TestInventoryHandler_DeleteItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)
	gomock.InOrder(
		service.EXPECT().DeleteItem(gomock.Any(), int64(1001)).Return(nil),
		service.EXPECT().DeleteItem(gomock.Any(), int64(1001)).Return(&domain.NotFoundError{ID: 1001}),
	)
	mux := newServer(t, service, nil)

	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/api/v1/items/1001", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodDelete, "/api/v1/items/1001", "").Code)
}

func TestInventoryHandler_PurchaseItem(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockInventoryService)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name: "purchased",
			body: `{"quantity":5}`,
			setup: func(s *mocks.MockInventoryService) {
				item := kaju()
				item.Quantity = 15
				s.EXPECT().Purchase(gomock.Any(), int64(1001), 5).Return(item, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var item domain.Item
				require.NoError(t, json.Unmarshal(body, &item))
				assert.Equal(t, 15, item.Quantity)
			},
		},
		{
			name: "insufficient_stock",
			body: `{"quantity":25}`,
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Purchase(gomock.Any(), int64(1001), 25).
					Return(nil, &domain.InsufficientStockError{ID: 1001, Requested: 25, Available: 20})
			},
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, body []byte) {
				var resp handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, int64(1001), resp.ID)
				assert.Equal(t, 25, resp.Requested)
				require.NotNil(t, resp.Available)
				assert.Equal(t, 20, *resp.Available)
			},
		},
		{
			name: "sold_out_reports_zero_available",
			body: `{"quantity":1}`,
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Purchase(gomock.Any(), int64(1001), 1).
					Return(nil, &domain.InsufficientStockError{ID: 1001, Requested: 1, Available: 0})
			},
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `"available":0`)
			},
		},
		{
			name: "unknown_item",
			body: `{"quantity":1}`,
			setup: func(s *mocks.MockInventoryService) {
				s.EXPECT().Purchase(gomock.Any(), int64(1001), 1).Return(nil, &domain.NotFoundError{ID: 1001})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockInventoryService(ctrl)
			tt.setup(service)

			w := do(newServer(t, service, nil), http.MethodPost, "/api/v1/items/1001/purchase", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_RestockItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)

	item := kaju()
	item.Quantity = 30
	service.EXPECT().Restock(gomock.Any(), int64(1001), 10).Return(item, nil)
	service.EXPECT().Restock(gomock.Any(), int64(1001), 0).Return(nil, domain.NewValidationError("quantity", "must be greater than 0"))

	mux := newServer(t, service, nil)

	w := do(mux, http.MethodPost, "/api/v1/items/1001/restock", `{"quantity":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":30`)

	w = do(mux, http.MethodPost, "/api/v1/items/1001/restock", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_ListCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := do(newServer(t, mocks.NewMockInventoryService(ctrl), nil), http.MethodGet, "/api/v1/categories", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Milk-Based")
}
