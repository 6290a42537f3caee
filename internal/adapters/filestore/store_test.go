package filestore_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/sweetshop-be/internal/adapters/filestore"
	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{ID: 1001, Name: "Kaju Katli", Category: "Nut-Based", Price: decimal.NewFromInt(50), Quantity: 20},
		{ID: 1002, Name: "Gulab Jamun", Category: "Milk-Based", Price: decimal.RequireFromString("10.5"), Quantity: 0},
	}
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		content   *string
		wantIDs   []int64
		wantError string
	}{
		{
			name:    "missing_file_is_empty",
			content: nil,
			wantIDs: []int64{},
		},
		{
			name:    "empty_file_is_empty",
			content: ptr(""),
			wantIDs: []int64{},
		},
		{
			name:    "document_without_sweets_key",
			content: ptr(`{}`),
			wantIDs: []int64{},
		},
		{
			name:    "numeric_prices",
			content: ptr(`{"sweets": [{"id": 1005, "name": "Peda", "category": "Milk-Based", "price": 8.5, "quantity": 4}]}`),
			wantIDs: []int64{1005},
		},
		{
			name:      "malformed_json",
			content:   ptr(`{"sweets": [`),
			wantError: "failed to decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sweets.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			records, err := filestore.New(path, testLogger()).Load(context.Background())

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			got := make([]int64, 0, len(records))
			for _, r := range records {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sweets.json")
	store := filestore.New(path, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecords()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Kaju Katli", loaded[0].Name)
	assert.True(t, decimal.RequireFromString("10.5").Equal(loaded[1].Price))
	assert.Equal(t, 0, loaded[1].Quantity)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweets.json")
	store := filestore.New(path, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecords()))
	require.NoError(t, store.Save(ctx, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sweets": []}`, string(data))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_Ping(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, filestore.New(filepath.Join(dir, "sweets.json"), testLogger()).Ping(context.Background()))
	assert.Error(t, filestore.New(filepath.Join(dir, "missing", "sweets.json"), testLogger()).Ping(context.Background()))
}

func TestEncodeDecode(t *testing.T) {
	data, err := filestore.Encode(sampleRecords())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sweets"`)

	records, err := filestore.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int64(1002), records[1].ID)
}

func ptr(s string) *string { return &s }
