package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("abcdefgh"), 512)

	for _, tt := range []struct {
		name string
		typ  Type
		data []byte
	}{
		{"NoneEmpty", None, nil},
		{"None", None, compressible},
		{"LZ4", LZ4, compressible},
		{"Zstd", Zstd, compressible},
		{"LZ4Small", LZ4, []byte("x")},
		{"ZstdSmall", Zstd, []byte("x")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			blk, err := Block(tt.data, tt.typ)
			require.NoError(t, err)

			got, err := Unblock(blk, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestBlockCompresses(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 4096)

	for _, typ := range []Type{LZ4, Zstd} {
		blk, err := Block(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(blk), len(data))
	}
}

func TestBlockStoresIncompressible(t *testing.T) {
	// A short high-entropy payload that no codec shrinks must round-trip
	// through the stored path.
	data := []byte{0x3f, 0x91, 0xc4, 0x07, 0xee, 0x5a, 0x12, 0xb8}

	for _, typ := range []Type{LZ4, Zstd} {
		blk, err := Block(data, typ)
		require.NoError(t, err)

		got, err := Unblock(blk, typ)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestUnblockCorrupt(t *testing.T) {
	t.Run("TooShort", func(t *testing.T) {
		_, err := Unblock([]byte{1, 2, 3}, Zstd)
		assert.Error(t, err)
	})

	t.Run("GarbagePayload", func(t *testing.T) {
		blk, err := Block(bytes.Repeat([]byte("abc"), 100), Zstd)
		require.NoError(t, err)

		for i := headerSize; i < len(blk); i++ {
			blk[i] ^= 0xA5
		}
		_, err = Unblock(blk, Zstd)
		assert.Error(t, err)
	})
}
