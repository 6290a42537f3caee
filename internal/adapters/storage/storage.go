// internal/adapters/storage/storage.go
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Download when no object has the key
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage is a flat key/value blob store
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
