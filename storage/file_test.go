package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/D-Sketon/warehouse/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDriverPersistsAcrossReconnect(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	first := storage.NewFileDriver(path)
	require.NoError(t, first.Connect(ctx))
	require.NoError(t, first.Insert(ctx, "widgets", map[string]any{"name": "sprocket"}))

	second := storage.NewFileDriver(path)
	require.NoError(t, second.Connect(ctx))

	rows, err := second.FindMany(ctx, "widgets", func(map[string]any) bool { return true })
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sprocket", rows[0]["name"])
}

func TestFileDriverConnectMissingFileIsNotError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	d := storage.NewFileDriver(path)
	assert.NoError(t, d.Connect(ctx))
}
