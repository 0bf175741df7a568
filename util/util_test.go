package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomText(t *testing.T) {
	alphabet := []byte("ACGT")

	rng := NewRNG(42)
	text := rng.RandomText(alphabet, 100)
	require.Len(t, text, 100)
	for _, c := range text {
		assert.Contains(t, alphabet, c)
	}

	// Same seed, same sequence.
	again := NewRNG(42).RandomText(alphabet, 100)
	assert.Equal(t, text, again)
}

func TestMutate(t *testing.T) {
	alphabet := []byte("AB")
	rng := NewRNG(7)

	t.Run("ZeroEdits", func(t *testing.T) {
		s := []byte("ABAB")
		out := rng.Mutate(s, alphabet, 0)
		assert.Equal(t, s, out)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		s := []byte("ABABABAB")
		orig := append([]byte(nil), s...)
		rng.Mutate(s, alphabet, 4)
		assert.Equal(t, orig, s)
	})

	t.Run("BoundedLengthChange", func(t *testing.T) {
		s := []byte("ABABABAB")
		for i := 0; i < 50; i++ {
			out := rng.Mutate(s, alphabet, 3)
			assert.GreaterOrEqual(t, len(out), len(s)-3)
			assert.LessOrEqual(t, len(out), len(s)+3)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		out := rng.Mutate(nil, alphabet, 2)
		assert.LessOrEqual(t, len(out), 2)
	})
}
