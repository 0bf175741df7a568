package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *LocalStore {
		t.Helper()
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)
		return store
	}

	t.Run("PutOpenRoundTrip", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "snap/scan.fgs", []byte("payload")))

		blob, err := store.Open(ctx, "snap/scan.fgs")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(7), blob.Size())

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("MappableFastPath", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "k", []byte("mapped")))

		blob, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer blob.Close()

		m, ok := blob.(Mappable)
		require.True(t, ok)

		data, err := m.Bytes()
		require.NoError(t, err)
		assert.Equal(t, []byte("mapped"), data)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Open(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "k", []byte("one")))
		require.NoError(t, store.Put(ctx, "k", []byte("twotwo")))

		blob, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("twotwo"), data)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "k", []byte("v")))
		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Open(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Delete(ctx, "k"))
	})

	t.Run("List", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "scans/2026/a.fgs", []byte("a")))
		require.NoError(t, store.Put(ctx, "scans/2026/b.fgs", []byte("b")))
		require.NoError(t, store.Put(ctx, "tmp/c.fgs", []byte("c")))

		names, err := store.List(ctx, "scans/")
		require.NoError(t, err)
		assert.Equal(t, []string{"scans/2026/a.fgs", "scans/2026/b.fgs"}, names)
	})
}
