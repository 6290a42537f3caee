// internal/handlers/export.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/sweetshop-be/internal/adapters/filestore"
	"github.com/ammerola/sweetshop-be/internal/adapters/rediscache"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportJSONCacheKey holds the rendered JSON export
var ExportJSONCacheKey = rediscache.BuildKey(rediscache.PrefixExport, "json")

// ExportHandler serves catalog downloads
type ExportHandler struct {
	service ports.InventoryService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler. cache may be nil.
func NewExportHandler(service ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportJSON handles GET /api/v1/export/json. The body is the same
// {"sweets": [...]} document the file store writes.
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := h.cached(r); ok {
		h.writeJSONDocument(w, data, "HIT")
		return
	}

	records, err := h.service.Snapshot(ctx)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	data, err := filestore.Encode(records)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, ExportJSONCacheKey, data); err != nil {
			h.logger.WarnContext(ctx, "failed to cache JSON export", slog.String("error", err.Error()))
		}
	}

	h.logger.InfoContext(ctx, "JSON export rendered", slog.Int("items", len(records)))
	h.writeJSONDocument(w, data, "MISS")
}

func (h *ExportHandler) cached(r *http.Request) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	ctx := r.Context()

	var data []byte
	err := h.cache.Get(ctx, ExportJSONCacheKey, &data)
	switch {
	case err == nil:
		return data, true
	case errors.Is(err, rediscache.ErrCacheMiss):
	default:
		h.logger.WarnContext(ctx, "discarding unreadable export cache entry", slog.String("error", err.Error()))
		if err := h.cache.Delete(ctx, ExportJSONCacheKey); err != nil {
			h.logger.WarnContext(ctx, "failed to delete export cache entry", slog.String("error", err.Error()))
		}
	}
	return nil, false
}

func (h *ExportHandler) writeJSONDocument(w http.ResponseWriter, data []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.Snapshot(ctx)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	data, err := EncodeWorkbook(records)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("sweets_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write workbook", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("items", len(records)),
		slog.String("filename", filename))
}
