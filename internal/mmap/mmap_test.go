package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	t.Run("ReadBack", func(t *testing.T) {
		path := writeFile(t, []byte("hello mmap"))

		m, err := Open(path)
		require.NoError(t, err)
		defer m.Close()

		assert.Equal(t, int64(10), m.Size())
		assert.Equal(t, []byte("hello mmap"), m.Bytes())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("Advise", func(t *testing.T) {
		path := writeFile(t, []byte("advised"))

		m, err := Open(path)
		require.NoError(t, err)
		defer m.Close()

		require.NoError(t, m.Advise(AccessSequential))
		require.NoError(t, m.Advise(AccessRandom))
	})
}

func TestReadAt(t *testing.T) {
	path := writeFile(t, []byte("0123456789"))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	t.Run("Middle", func(t *testing.T) {
		p := make([]byte, 4)
		n, err := m.ReadAt(p, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte("3456"), p)
	})

	t.Run("PastEnd", func(t *testing.T) {
		p := make([]byte, 4)
		_, err := m.ReadAt(p, 100)
		assert.Error(t, err)
	})
}

func TestClose(t *testing.T) {
	path := writeFile(t, []byte("x"))

	m, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}
