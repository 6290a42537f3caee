// internal/handlers/backup.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// BackupHandler lets operators request a catalog backup outside the
// worker's schedule
type BackupHandler struct {
	tasks  ports.TaskEnqueuer
	logger *slog.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(tasks ports.TaskEnqueuer, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("handler", "backup")),
	}
}

// BackupResponse acknowledges a queued backup
type BackupResponse struct {
	Status string `json:"status"`
}

// RequestBackup handles POST /api/v1/backups. The worker writes the
// backup; the response only confirms it was queued.
func (h *BackupHandler) RequestBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.tasks.EnqueueBackup(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to queue backup", slog.String("error", err.Error()))
		respondError(w, http.StatusServiceUnavailable, "backup queue unavailable")
		return
	}

	h.logger.InfoContext(ctx, "backup requested")
	respondJSON(w, http.StatusAccepted, BackupResponse{Status: "queued"})
}
