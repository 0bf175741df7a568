package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutOpenRoundTrip", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "a/b.bin", []byte("payload")))

		blob, err := store.Open(ctx, "a/b.bin")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(7), blob.Size())

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Open(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutCopiesData", func(t *testing.T) {
		store := NewMemoryStore()
		src := []byte("abc")
		require.NoError(t, store.Put(ctx, "k", src))
		src[0] = 'x'

		blob, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("Overwrite", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "k", []byte("one")))
		require.NoError(t, store.Put(ctx, "k", []byte("two")))

		blob, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), data)
	})

	t.Run("Delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "k", []byte("v")))
		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Open(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing name is not an error.
		require.NoError(t, store.Delete(ctx, "k"))
	})

	t.Run("List", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "scans/a", nil))
		require.NoError(t, store.Put(ctx, "scans/b", nil))
		require.NoError(t, store.Put(ctx, "other/c", nil))

		names, err := store.List(ctx, "scans/")
		require.NoError(t, err)
		assert.Equal(t, []string{"scans/a", "scans/b"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("ReadAt", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "k", []byte("0123456789")))

		blob, err := store.Open(ctx, "k")
		require.NoError(t, err)
		defer blob.Close()

		p := make([]byte, 4)
		n, err := blob.ReadAt(p, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte("3456"), p)
	})
}
