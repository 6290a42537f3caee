// internal/handlers/import.go
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// ImportHandler accepts catalog uploads
type ImportHandler struct {
	service     ports.InventoryService
	maxFileSize int64
	logger      *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(service ports.InventoryService, maxFileSize int64, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("handler", "import")),
	}
}

// ImportExcel handles POST /api/v1/import/excel. The workbook arrives in
// the "file" form field. Rows that fail parsing or validation are reported
// as skipped; the rest are added.
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		respondError(w, http.StatusBadRequest, "only .xlsx files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	rows, err := DecodeWorkbook(data)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondServiceError(w, r, h.logger, err)
			return
		}
		h.logger.WarnContext(ctx, "unreadable workbook",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		respondError(w, http.StatusBadRequest, "file is not a readable xlsx workbook")
		return
	}

	var (
		items   []domain.NewItem
		lines   []int
		skipped []ports.ImportSkip
	)
	for _, row := range rows {
		if row.Err != nil {
			skipped = append(skipped, ports.ImportSkip{Row: row.Line, Name: row.Item.Name, Reason: row.Err.Error()})
			continue
		}
		items = append(items, row.Item)
		lines = append(lines, row.Line)
	}

	result, err := h.service.ImportItems(ctx, items)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	// the service numbers rows within what it was given
	for i := range result.Skipped {
		if n := result.Skipped[i].Row; n >= 1 && n <= len(lines) {
			result.Skipped[i].Row = lines[n-1]
		}
	}
	result.Skipped = append(skipped, result.Skipped...)
	sort.Slice(result.Skipped, func(i, j int) bool { return result.Skipped[i].Row < result.Skipped[j].Row })

	h.logger.InfoContext(ctx, "workbook imported",
		slog.String("filename", header.Filename),
		slog.Int("imported", len(result.Imported)),
		slog.Int("skipped", len(result.Skipped)))

	respondJSON(w, http.StatusOK, result)
}
