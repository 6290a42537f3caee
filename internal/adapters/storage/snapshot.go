// internal/adapters/storage/snapshot.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/sweetshop-be/internal/adapters/filestore"
	"github.com/ammerola/sweetshop-be/internal/core/domain"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

const jsonContentType = "application/json"

// SnapshotStore keeps the catalog document as a single object
type SnapshotStore struct {
	objects ObjectStorage
	key     string
	logger  *slog.Logger
}

// Statically assert that *SnapshotStore implements the SnapshotStore interface.
var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore stores the catalog under key
func NewSnapshotStore(objects ObjectStorage, key string, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{
		objects: objects,
		key:     key,
		logger:  logger.With(slog.String("repository", "object"), slog.String("key", key)),
	}
}

// Load downloads the catalog. A missing object is an empty catalog.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := s.objects.Download(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			s.logger.InfoContext(ctx, "catalog object not found, starting empty")
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}
	if len(data) == 0 {
		return []domain.Record{}, nil
	}
	return filestore.Decode(data)
}

// Save uploads the catalog, replacing the previous object
func (s *SnapshotStore) Save(ctx context.Context, records []domain.Record) error {
	data, err := filestore.Encode(records)
	if err != nil {
		return err
	}
	if err := s.objects.Upload(ctx, s.key, data, jsonContentType); err != nil {
		return fmt.Errorf("failed to upload catalog: %w", err)
	}
	return nil
}

// Ping checks the backing storage
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.objects.Ping(ctx)
}

// Close is a no-op
func (s *SnapshotStore) Close() error {
	return nil
}

// Backups writes timestamped catalog copies under a prefix
type Backups struct {
	objects ObjectStorage
	prefix  string
	keep    int
	now     func() time.Time
	logger  *slog.Logger
}

// BackupOption configures Backups
type BackupOption func(*Backups)

// WithRetention keeps only the newest n backups; zero keeps everything
func WithRetention(n int) BackupOption {
	return func(b *Backups) { b.keep = n }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) BackupOption {
	return func(b *Backups) { b.now = now }
}

// NewBackups creates a backup writer
func NewBackups(objects ObjectStorage, prefix string, logger *slog.Logger, opts ...BackupOption) *Backups {
	b := &Backups{
		objects: objects,
		prefix:  strings.Trim(prefix, "/"),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "backups")),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Write stores records as a new backup and returns its key
func (b *Backups) Write(ctx context.Context, records []domain.Record) (string, error) {
	data, err := filestore.Encode(records)
	if err != nil {
		return "", err
	}

	key := path.Join(b.prefix, "sweets-"+b.now().UTC().Format("20060102T150405.000Z")+".json")
	if err := b.objects.Upload(ctx, key, data, jsonContentType); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	b.logger.InfoContext(ctx, "catalog backup written",
		slog.String("key", key),
		slog.Int("items", len(records)))

	if b.keep > 0 {
		if err := b.prune(ctx); err != nil {
			b.logger.WarnContext(ctx, "failed to prune backups", slog.String("error", err.Error()))
		}
	}

	return key, nil
}

// List returns backup keys, oldest first
func (b *Backups) List(ctx context.Context) ([]string, error) {
	keys, err := b.objects.List(ctx, b.prefix+"/")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Latest reads the newest backup
func (b *Backups) Latest(ctx context.Context) ([]domain.Record, error) {
	keys, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no backups under %s", ErrObjectNotFound, b.prefix)
	}

	data, err := b.objects.Download(ctx, keys[len(keys)-1])
	if err != nil {
		return nil, err
	}
	return filestore.Decode(data)
}

func (b *Backups) prune(ctx context.Context) error {
	keys, err := b.List(ctx)
	if err != nil {
		return err
	}
	for len(keys) > b.keep {
		if err := b.objects.Delete(ctx, keys[0]); err != nil {
			return err
		}
		keys = keys[1:]
	}
	return nil
}
