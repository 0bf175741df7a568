package util

import "math/rand"

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// RandomText generates n random symbols drawn from alphabet.
func (r *RNG) RandomText(alphabet []byte, n int) []byte {
	text := make([]byte, n)
	for i := range text {
		text[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return text
}

// Mutate applies up to edits random single-symbol edits (substitution,
// deletion or insertion) to s and returns the mutated copy.
func (r *RNG) Mutate(s []byte, alphabet []byte, edits int) []byte {
	out := append([]byte(nil), s...)
	for i := 0; i < edits; i++ {
		if len(out) == 0 {
			out = append(out, alphabet[r.rand.Intn(len(alphabet))])
			continue
		}
		pos := r.rand.Intn(len(out))
		switch r.rand.Intn(3) {
		case 0: // substitution
			out[pos] = alphabet[r.rand.Intn(len(alphabet))]
		case 1: // deletion
			out = append(out[:pos], out[pos+1:]...)
		default: // insertion
			out = append(out[:pos], append([]byte{alphabet[r.rand.Intn(len(alphabet))]}, out[pos:]...)...)
		}
	}
	return out
}

// Intn exposes the underlying generator for ad-hoc draws.
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}
