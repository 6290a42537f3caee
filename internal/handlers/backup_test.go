package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/sweetshop-be/internal/handlers"
	"github.com/ammerola/sweetshop-be/test/mocks"
)

func TestBackupHandler_RequestBackup(t *testing.T) {
	tests := []struct {
		name       string
		enqueueErr error
		wantStatus int
	}{
		{name: "queued", wantStatus: http.StatusAccepted},
		{name: "queue_down", enqueueErr: errors.New("dial tcp: connection refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tasks := mocks.NewMockTaskEnqueuer(ctrl)
			tasks.EXPECT().EnqueueBackup(gomock.Any()).Return(tt.enqueueErr)

			mux := http.NewServeMux()
			rt := &handlers.Router{
				Inventory: handlers.NewInventoryHandler(mocks.NewMockInventoryService(ctrl), testLogger()),
				Export:    handlers.NewExportHandler(mocks.NewMockInventoryService(ctrl), nil, testLogger()),
				Backup:    handlers.NewBackupHandler(tasks, testLogger()),
			}
			rt.Register(mux)

			w := do(mux, http.MethodPost, "/api/v1/backups", "")
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusAccepted {
				var resp handlers.BackupResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "queued", resp.Status)
			}
		})
	}
}

func TestRouter_BackupRouteOnlyWhenConfigured(t *testing.T) {
	mux := newServer(t, mocks.NewMockInventoryService(gomock.NewController(t)), nil)

	w := do(mux, http.MethodPost, "/api/v1/backups", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
