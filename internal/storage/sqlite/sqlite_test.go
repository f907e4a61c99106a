package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshelf/appshelf/internal/storage"
)

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(filepath.Join(t.TempDir(), "data", "shelf.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, "appshelf:todos")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "appshelf:todos", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "appshelf:todos", []byte(`[{"id":"1"}]`)))

	got, err := kv.Get(ctx, "appshelf:todos")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

func TestKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shelf.db")

	kv, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	require.NoError(t, kv.Close())

	kv, err = Open(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
