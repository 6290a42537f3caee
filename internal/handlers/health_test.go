package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/sweetshop-be/internal/handlers"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name        string
		deps        []handlers.Dependency
		wantHealth  int
		wantReady   int
		wantOverall string
	}{
		{
			name: "all_up",
			deps: []handlers.Dependency{
				{Name: "store", Check: handlers.PingFunc(up)},
				{Name: "redis", Check: handlers.PingFunc(up), Optional: true},
			},
			wantHealth:  http.StatusOK,
			wantReady:   http.StatusOK,
			wantOverall: "healthy",
		},
		{
			name: "optional_down_degrades_but_stays_ready",
			deps: []handlers.Dependency{
				{Name: "store", Check: handlers.PingFunc(up)},
				{Name: "redis", Check: handlers.PingFunc(down), Optional: true},
			},
			wantHealth:  http.StatusServiceUnavailable,
			wantReady:   http.StatusOK,
			wantOverall: "degraded",
		},
		{
			name: "store_down",
			deps: []handlers.Dependency{
				{Name: "store", Check: handlers.PingFunc(down)},
			},
			wantHealth:  http.StatusServiceUnavailable,
			wantReady:   http.StatusServiceUnavailable,
			wantOverall: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.deps, nil, "1.2.3", "test", testLogger())

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.wantHealth, w.Code)

			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.wantOverall, status.Status)
			assert.Equal(t, "1.2.3", status.Version)
			assert.Len(t, status.Services, len(tt.deps))

			w = httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantReady, w.Code)
		})
	}
}
