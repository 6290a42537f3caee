// internal/adapters/catalog/backend.go
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/sweetshop-be/internal/adapters/badgerstore"
	"github.com/ammerola/sweetshop-be/internal/adapters/db"
	"github.com/ammerola/sweetshop-be/internal/adapters/filestore"
	"github.com/ammerola/sweetshop-be/internal/adapters/storage"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
	"github.com/ammerola/sweetshop-be/internal/pkg/config"
)

// Backend is the snapshot store selected by STORE_DRIVER together with
// the resources it holds open
type Backend struct {
	Driver string
	Store  ports.SnapshotStore

	closers []func()
	logger  *slog.Logger
}

// Open builds the configured snapshot store
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{
		Driver: cfg.Store.Driver,
		logger: logger.With(slog.String("component", "catalog_backend")),
	}

	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		b.Store = filestore.New(cfg.Store.FilePath, logger)

	case config.StoreDriverBadger:
		store, err := badgerstore.Open(cfg.Store.BadgerDir, logger)
		if err != nil {
			return nil, err
		}
		b.Store = store

	case config.StoreDriverPostgres:
		database, err := db.NewDatabase(ctx, DatabaseConfig(cfg), logger)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, database.Close)

		if cfg.Database.MigrationsEnabled {
			if err := db.RunMigrationsWithRetry(ctx, database.SQL(), logger, 3); err != nil {
				b.Close()
				return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
			}
		}
		b.Store = db.NewItemStore(database.SQL(), logger)

	case config.StoreDriverS3:
		objects, err := NewS3Objects(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.Store = storage.NewSnapshotStore(objects, cfg.AWS.SnapshotKey, logger)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	b.logger.InfoContext(ctx, "catalog store ready", slog.String("driver", b.Driver))
	return b, nil
}

// Close releases the store and whatever it was built on, newest first
func (b *Backend) Close() {
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			b.logger.Error("failed to close catalog store", slog.String("error", err.Error()))
		}
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// DatabaseConfig maps application settings onto the pool config
func DatabaseConfig(cfg *config.Config) *db.Config {
	dbCfg := db.DefaultConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.Database = cfg.Database.Name
	dbCfg.SSLMode = cfg.Database.SSLMode
	if cfg.Database.MaxOpenConns > 0 {
		dbCfg.MaxConnections = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		dbCfg.MinConnections = int32(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	}
	if cfg.Database.ConnectTimeout > 0 {
		dbCfg.ConnectTimeout = cfg.Database.ConnectTimeout
	}
	dbCfg.EnableQueryLogging = cfg.App.Debug
	return dbCfg
}

// NewS3Objects connects to the configured bucket
func NewS3Objects(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.S3Storage, error) {
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}
