package automaton

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dpMatrix computes the semi-global DP matrix the automaton encodes:
// row 0 is all zeros (a match may start anywhere), column 0 counts
// pattern prefixes.
func dpMatrix(pattern, text []byte) [][]int {
	m, n := len(pattern), len(text)
	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
		d[i][0] = i
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			best := d[i-1][j-1] + cost
			if v := d[i-1][j] + 1; v < best {
				best = v
			}
			if v := d[i][j-1] + 1; v < best {
				best = v
			}
			d[i][j] = best
		}
	}
	return d
}

func scanColumns(pattern, text []byte) []State[uint64, uint32] {
	peq := NewPeq[uint64](pattern)
	lastBit := uint64(1) << (len(pattern) - 1)

	st := Init[uint64, uint32](uint32(len(pattern)))
	cols := []State[uint64, uint32]{st}
	for _, a := range text {
		st.Step(peq[a], lastBit)
		cols = append(cols, st)
	}
	return cols
}

func TestStep(t *testing.T) {
	t.Run("BottomRowMatchesOracle", func(t *testing.T) {
		cases := []struct {
			pattern string
			text    string
		}{
			{"ACGT", "ACGT"},
			{"ACGT", "ACXT"},
			{"AAAA", "AAA"},
			{"ABC", "XXABCXX"},
			{"A", "BBBABBB"},
			{"HELLO", "HEWLLLO"},
		}

		for _, tc := range cases {
			t.Run(tc.pattern+"/"+tc.text, func(t *testing.T) {
				d := dpMatrix([]byte(tc.pattern), []byte(tc.text))
				cols := scanColumns([]byte(tc.pattern), []byte(tc.text))

				for j, st := range cols {
					assert.Equal(t, uint32(d[len(tc.pattern)][j]), st.Dist, "column %d", j)
				}
			})
		}
	})

	t.Run("RandomAgainstOracle", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4711))
		alphabet := []byte("ACGT")

		for trial := 0; trial < 200; trial++ {
			m := 1 + rng.Intn(32)
			n := rng.Intn(64)

			pattern := make([]byte, m)
			for i := range pattern {
				pattern[i] = alphabet[rng.Intn(len(alphabet))]
			}
			text := make([]byte, n)
			for i := range text {
				text[i] = alphabet[rng.Intn(len(alphabet))]
			}

			d := dpMatrix(pattern, text)
			cols := scanColumns(pattern, text)

			for j, st := range cols {
				require.Equal(t, uint32(d[m][j]), st.Dist,
					"pattern %q text %q column %d", pattern, text, j)
			}
		}
	})
}

func TestRollback(t *testing.T) {
	pattern := []byte("GATTACA")
	text := []byte("GCATGCATTACAG")
	m := len(pattern)

	d := dpMatrix(pattern, text)
	cols := scanColumns(pattern, text)

	t.Run("AdjustUpByReachesEveryRow", func(t *testing.T) {
		for j, st := range cols {
			for i := 0; i <= m; i++ {
				rolled := st
				rolled.AdjustUpBy(RangeMask[uint64](i, m))
				assert.Equal(t, uint32(d[i][j]), rolled.Dist, "row %d column %d", i, j)
			}
		}
	})

	t.Run("AdjustOneUpStepwise", func(t *testing.T) {
		for j, st := range cols {
			rolled := st
			for i := m; i > 0; i-- {
				rolled.AdjustOneUp(RangeMask[uint64](i-1, i))
				assert.Equal(t, uint32(d[i-1][j]), rolled.Dist, "row %d column %d", i-1, j)
			}
		}
	})

	t.Run("PeekUpDoesNotMutate", func(t *testing.T) {
		st := cols[len(cols)-1]
		before := st
		got := st.PeekUp(RangeMask[uint64](m-1, m))

		assert.Equal(t, before, st)
		assert.Equal(t, uint32(d[m-1][len(text)]), got)
	})
}

func TestRangeMask(t *testing.T) {
	assert.Equal(t, uint64(0), RangeMask[uint64](3, 3))
	assert.Equal(t, uint64(0), RangeMask[uint64](5, 3))
	assert.Equal(t, uint64(0b1), RangeMask[uint64](0, 1))
	assert.Equal(t, uint64(0b0110), RangeMask[uint64](1, 3))
	assert.Equal(t, ^uint64(0), RangeMask[uint64](0, 64))
	assert.Equal(t, uint8(0b11110000), RangeMask[uint8](4, 8))
}

func TestWidths(t *testing.T) {
	assert.Equal(t, 8, WordBits[uint8]())
	assert.Equal(t, 16, WordBits[uint16]())
	assert.Equal(t, 32, WordBits[uint32]())
	assert.Equal(t, 64, WordBits[uint64]())

	assert.Equal(t, 8, DistBits[uint8]())
	assert.Equal(t, 32, DistBits[uint32]())

	assert.Equal(t, uint8(255), MaxValue[uint8]())
	assert.Equal(t, uint32(1<<32-1), MaxValue[uint32]())
}

func TestInit(t *testing.T) {
	st := Init[uint64, uint32](7)
	assert.Equal(t, ^uint64(0), st.Pv)
	assert.Equal(t, uint64(0), st.Mv)
	assert.Equal(t, uint32(7), st.Dist)

	dist, ok := st.KnownDist()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), dist)

	maxSt := InitMaxDist[uint64, uint32]()
	assert.True(t, maxSt.IsMax())
	assert.False(t, st.IsMax())
}
