package fuzzygo

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fuzzygo/alignment"
	"github.com/hupe1980/fuzzygo/blobstore"
)

// scanAndSave runs a lazy search to completion and snapshots it.
func scanAndSave(t *testing.T, pattern, text []byte, maxDist int, optFns ...func(*SnapshotOptions)) []byte {
	t.Helper()
	ctx := context.Background()

	m, err := New64(pattern)
	require.NoError(t, err)

	lm, err := m.FindAllLazy(text, maxDist)
	require.NoError(t, err)
	defer lm.Close()

	for range lm.Seq() {
	}

	var buf bytes.Buffer
	n, err := lm.SaveTo(ctx, &buf, optFns...)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	return buf.Bytes()
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()

	pattern := []byte("GATTACA")
	text := []byte("XGATTACAYGATTTACAZGTTACAGATTACA")
	maxDist := 1

	m, err := New64(pattern)
	require.NoError(t, err)

	lm, err := m.FindAllLazy(text, maxDist)
	require.NoError(t, err)
	defer lm.Close()

	var liveEnds []int
	for end := range lm.Seq() {
		liveEnds = append(liveEnds, end)
	}
	require.NotEmpty(t, liveEnds)

	var buf bytes.Buffer
	_, err = lm.SaveTo(ctx, &buf)
	require.NoError(t, err)

	snap, err := LoadScan[uint64, uint32](ctx, &buf)
	require.NoError(t, err)

	t.Run("Header", func(t *testing.T) {
		assert.Equal(t, pattern, snap.Pattern())
		assert.Equal(t, len(text), snap.TextLen())
		assert.Equal(t, uint32(maxDist), snap.MaxDist())
		assert.Equal(t, len(text), snap.Columns())
	})

	t.Run("Hits", func(t *testing.T) {
		hits := snap.Hits()
		assert.Equal(t, uint64(len(liveEnds)), hits.GetCardinality())
		for _, end := range liveEnds {
			assert.True(t, hits.Contains(uint32(end)), "end %d", end)
		}
	})

	t.Run("QueriesMatchLive", func(t *testing.T) {
		var snapOps, liveOps []alignment.Operation
		for end := 0; end < len(text); end++ {
			liveDist, liveOK := lm.DistAt(end)
			snapDist, snapOK := snap.DistAt(end)
			require.Equal(t, liveOK, snapOK, "end %d", end)
			assert.Equal(t, liveDist, snapDist, "end %d", end)

			liveStart, _, liveOK := lm.PathAt(end, &liveOps)
			snapStart, _, snapOK := snap.PathAt(end, &snapOps)
			require.Equal(t, liveOK, snapOK, "end %d", end)
			assert.Equal(t, liveStart, snapStart, "end %d", end)
			assert.Equal(t, liveOps, snapOps, "end %d", end)
		}
	})

	t.Run("AlignmentAt", func(t *testing.T) {
		var live, loaded alignment.Alignment
		require.True(t, lm.AlignmentAt(liveEnds[0], &live))
		require.True(t, snap.AlignmentAt(liveEnds[0], &loaded))
		assert.Equal(t, live, loaded)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, ok := snap.DistAt(-1)
		assert.False(t, ok)
		_, ok = snap.DistAt(len(text))
		assert.False(t, ok)
	})
}

func TestSnapshotCompressions(t *testing.T) {
	ctx := context.Background()

	pattern := []byte("ACGT")
	text := bytes.Repeat([]byte("ACGTAC"), 40)

	for _, tt := range []struct {
		name        string
		compression SnapshotCompression
	}{
		{"None", SnapshotCompressionNone},
		{"LZ4", SnapshotCompressionLZ4},
		{"Zstd", SnapshotCompressionZstd},
	} {
		t.Run(tt.name, func(t *testing.T) {
			data := scanAndSave(t, pattern, text, 1, func(o *SnapshotOptions) {
				o.Compression = tt.compression
			})

			snap, err := LoadScan[uint64, uint32](ctx, bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, len(text), snap.Columns())

			dist, ok := snap.DistAt(3)
			require.True(t, ok)
			assert.Equal(t, uint32(0), dist)
		})
	}
}

func TestSnapshotValidation(t *testing.T) {
	ctx := context.Background()

	data := scanAndSave(t, []byte("ACGT"), []byte("XXACGTXX"), 1)

	t.Run("Truncated", func(t *testing.T) {
		_, err := LoadScan[uint64, uint32](ctx, bytes.NewReader(data[:10]))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("CorruptedPayload", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)/2] ^= 0xFF

		_, err := LoadScan[uint64, uint32](ctx, bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("BadMagic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] ^= 0xFF

		_, err := LoadScan[uint64, uint32](ctx, bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		_, err := LoadScan[uint32, uint16](ctx, bytes.NewReader(data))
		require.Error(t, err)

		var mismatch *ErrSnapshotTypeMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 32, mismatch.WantWordBits)
		assert.Equal(t, 64, mismatch.GotWordBits)
	})

	t.Run("ClosedSearchCannotSave", func(t *testing.T) {
		m, err := New64([]byte("ACGT"))
		require.NoError(t, err)

		lm, err := m.FindAllLazy([]byte("ACGT"), 0)
		require.NoError(t, err)
		require.NoError(t, lm.Close())

		var buf bytes.Buffer
		_, err = lm.SaveTo(ctx, &buf)
		assert.ErrorIs(t, err, ErrSearchActive)
	})
}

func TestSnapshotFile(t *testing.T) {
	ctx := context.Background()

	m, err := New64([]byte("GATTACA"))
	require.NoError(t, err)

	text := []byte("XGATTACAYGATTTACAZ")
	lm, err := m.FindAllLazy(text, 1)
	require.NoError(t, err)
	defer lm.Close()

	for range lm.Seq() {
	}

	path := filepath.Join(t.TempDir(), "scan.fgs")
	require.NoError(t, lm.SaveToFile(ctx, path))

	snap, err := LoadScanFromFile[uint64, uint32](ctx, path)
	require.NoError(t, err)

	assert.Equal(t, []byte("GATTACA"), snap.Pattern())
	assert.Equal(t, len(text), snap.Columns())

	start, dist, ok := snap.HitAt(7)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, uint32(0), dist)
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	m, err := New64([]byte("ACGT"))
	require.NoError(t, err)

	lm, err := m.FindAllLazy([]byte("ACGTXACXT"), 1)
	require.NoError(t, err)
	defer lm.Close()

	for range lm.Seq() {
	}

	store := blobstore.NewMemoryStore()
	require.NoError(t, lm.SaveToStore(ctx, store, "scans/demo.fgs"))

	names, err := store.List(ctx, "scans/")
	require.NoError(t, err)
	assert.Equal(t, []string{"scans/demo.fgs"}, names)

	snap, err := LoadScanFromStore[uint64, uint32](ctx, store, "scans/demo.fgs")
	require.NoError(t, err)

	hits := snap.Hits()
	assert.True(t, hits.Contains(3))
	assert.True(t, hits.Contains(8))

	_, err = LoadScanFromStore[uint64, uint32](ctx, store, "scans/missing.fgs")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
