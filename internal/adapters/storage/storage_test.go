package storage_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/sweetshop-be/internal/adapters/storage"
	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func catalog() []domain.Record {
	return []domain.Record{
		{ID: 1001, Name: "Kaju Katli", Category: "Nut-Based", Price: decimal.NewFromInt(50), Quantity: 20},
		{ID: 1002, Name: "Gulab Jamun", Category: "Milk-Based", Price: decimal.NewFromInt(10), Quantity: 50},
	}
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewLocalStorage(t.TempDir(), testLogger())

	t.Run("missing_object", func(t *testing.T) {
		_, err := objects.Download(ctx, "nope.json")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)

		exists, err := objects.Exists(ctx, "nope.json")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("upload_download_delete", func(t *testing.T) {
		require.NoError(t, objects.Upload(ctx, "a/b.json", []byte(`{}`), "application/json"))

		data, err := objects.Download(ctx, "a/b.json")
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))

		exists, err := objects.Exists(ctx, "a/b.json")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, objects.Delete(ctx, "a/b.json"))
		exists, err = objects.Exists(ctx, "a/b.json")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list_by_prefix", func(t *testing.T) {
		require.NoError(t, objects.Upload(ctx, "backups/2.json", []byte("2"), ""))
		require.NoError(t, objects.Upload(ctx, "backups/1.json", []byte("1"), ""))
		require.NoError(t, objects.Upload(ctx, "other.json", []byte("x"), ""))

		keys, err := objects.List(ctx, "backups/")
		require.NoError(t, err)
		assert.Equal(t, []string{"backups/1.json", "backups/2.json"}, keys)
	})

	t.Run("rejects_escaping_keys", func(t *testing.T) {
		err := objects.Upload(ctx, "../outside.json", []byte("x"), "")
		assert.Error(t, err)
	})

	t.Run("list_on_missing_base", func(t *testing.T) {
		empty := storage.NewLocalStorage(filepath.Join(t.TempDir(), "missing"), testLogger())
		keys, err := empty.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewLocalStorage(t.TempDir(), testLogger())
	store := storage.NewSnapshotStore(objects, "catalog/sweets.json", testLogger())

	records, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Save(ctx, catalog()))

	records, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Gulab Jamun", records[1].Name)

	data, err := objects.Download(ctx, "catalog/sweets.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sweets"`)

	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}

func TestBackups(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewLocalStorage(t.TempDir(), testLogger())

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	backups := storage.NewBackups(objects, "/backups/", testLogger(),
		storage.WithRetention(2),
		storage.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)

	_, err := backups.Latest(ctx)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	first, err := backups.Write(ctx, catalog())
	require.NoError(t, err)
	assert.Equal(t, "backups/sweets-20260102T030505.000Z.json", first)

	_, err = backups.Write(ctx, catalog()[:1])
	require.NoError(t, err)
	_, err = backups.Write(ctx, catalog())
	require.NoError(t, err)

	keys, err := backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.NotContains(t, keys, first)

	latest, err := backups.Latest(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}
