// internal/adapters/filestore/store.go
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// Document is the on-disk layout of the catalog file
type Document struct {
	Sweets []domain.Record `json:"sweets"`
}

// Store persists the catalog as a single JSON document
type Store struct {
	path   string
	logger *slog.Logger
}

// Statically assert that *Store implements the SnapshotStore interface.
var _ ports.SnapshotStore = (*Store)(nil)

// New creates a file-backed snapshot store. The file need not exist yet.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With(slog.String("repository", "file"), slog.String("path", path)),
	}
}

// Path returns the catalog file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog. A missing or empty file is an empty catalog.
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.InfoContext(ctx, "catalog file not found, starting empty")
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if len(data) == 0 {
		return []domain.Record{}, nil
	}

	records, err := Decode(data)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "catalog file read", slog.Int("count", len(records)))
	return records, nil
}

// Save writes records to a temporary file and renames it over the catalog,
// so readers never observe a partial document.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}

	s.logger.DebugContext(ctx, "catalog file written", slog.Int("count", len(records)))
	return nil
}

// Ping checks that the catalog directory is reachable
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("catalog directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog directory unavailable: %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// Encode renders records as an indented catalog document
func Encode(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}
	data, err := json.MarshalIndent(Document{Sweets: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// Decode parses a catalog document
func Decode(data []byte) ([]domain.Record, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Sweets == nil {
		doc.Sweets = []domain.Record{}
	}
	return doc.Sweets, nil
}
