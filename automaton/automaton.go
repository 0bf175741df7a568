// Package automaton implements the bit-parallel edit-distance column
// automaton used by fuzzygo.
//
// One DP-matrix column (all pattern rows at one text position) is packed
// into two bit vectors plus a scalar distance. Advancing the column by one
// text symbol costs a constant number of word operations, independent of
// the pattern length, as long as the pattern fits into a single word.
package automaton

import "math/bits"

// Word is the set of fixed-width unsigned integers usable as column bit
// vectors. The bit width of the chosen type caps the supported pattern
// length.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Dist is the set of unsigned integers usable as the distance scalar.
// The chosen type must be wide enough to hold m + maxDist.
type Dist interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// WordBits returns the bit width of T.
func WordBits[T Word]() int {
	return bits.OnesCount64(uint64(^T(0)))
}

// DistBits returns the bit width of D.
func DistBits[D Dist]() int {
	return bits.OnesCount64(uint64(^D(0)))
}

// MaxValue returns the largest value representable in D.
func MaxValue[D Dist]() D {
	return ^D(0)
}

// NewPeq builds the per-symbol equality table for pattern: bit i of
// peq[a] is set iff pattern[i] == a. The pattern must not be longer than
// the bit width of T; the caller validates this.
func NewPeq[T Word](pattern []byte) [256]T {
	var peq [256]T
	for i, a := range pattern {
		peq[a] |= T(1) << i
	}
	return peq
}

// State is one DP column: Pv bit i set means the distance grows by one
// from row i to row i+1, Mv bit i set means it shrinks by one. The two
// vectors are mutually exclusive per bit. Dist is the distance at the
// bottom row (the full-pattern row).
type State[T Word, D Dist] struct {
	Pv   T
	Mv   T
	Dist D
}

// Init returns the column before any text symbol was consumed: every
// vertical delta is +1 and the bottom-row distance equals the pattern
// length.
func Init[T Word, D Dist](m D) State[T, D] {
	return State[T, D]{Pv: ^T(0), Mv: 0, Dist: m}
}

// InitMaxDist returns the distinguished unknown/maximum state used for
// cells that were never reached.
func InitMaxDist[T Word, D Dist]() State[T, D] {
	return Init[T, D](MaxValue[D]())
}

// IsMax reports whether s is the unknown/maximum state.
func (s *State[T, D]) IsMax() bool {
	return s.Dist == MaxValue[D]() && s.Mv == 0
}

// KnownDist returns the bottom-row distance. For the single-word
// automaton the distance is always known after a Step; the bool mirrors
// the multi-word variant where it may not be.
func (s *State[T, D]) KnownDist() (D, bool) {
	return s.Dist, true
}

// Step advances the column to the next text symbol. eq is the equality
// mask of the symbol and lastBit selects the bottom pattern row (bit
// m-1). The carry propagation of the unsigned addition in Xh resolves
// the horizontal DP dependency across all rows at once.
func (s *State[T, D]) Step(eq, lastBit T) {
	xv := eq | s.Mv
	xh := (((eq & s.Pv) + s.Pv) ^ s.Pv) | eq

	ph := s.Mv | ^(xh | s.Pv)
	mh := s.Pv & xh

	if ph&lastBit != 0 {
		if s.Dist != MaxValue[D]() {
			s.Dist++
		}
	} else if mh&lastBit != 0 {
		s.Dist--
	}

	// Bit m-1 carries out of the column; row 0 has no vertical delta
	// from above (text may start anywhere, so the top row stays zero).
	ph <<= 1
	mh <<= 1

	s.Pv = mh | ^(xv | ph)
	s.Mv = ph & xv
}

// AdjustUpBy moves the distance score from row j up to row j-n within
// the same column. rangeMask must have exactly the bits of rows j-n to
// j-1 set. A malformed mask is a programming error; no validation is
// performed.
func (s *State[T, D]) AdjustUpBy(rangeMask T) {
	p := bits.OnesCount64(uint64(s.Pv & rangeMask))
	m := bits.OnesCount64(uint64(s.Mv & rangeMask))
	s.Dist += D(m)
	s.Dist -= D(p)
}

// AdjustOneUp moves the distance score one row up. posMask must have a
// single bit set, at row j-1. The single bit test avoids the population
// count of AdjustUpBy for the common one-row traceback walk.
func (s *State[T, D]) AdjustOneUp(posMask T) {
	if s.Pv&posMask != 0 {
		s.Dist--
	} else if s.Mv&posMask != 0 {
		s.Dist++
	}
}

// PeekUp returns the distance one row up without modifying the state.
func (s *State[T, D]) PeekUp(posMask T) D {
	if s.Pv&posMask != 0 {
		return s.Dist - 1
	}
	if s.Mv&posMask != 0 {
		return s.Dist + 1
	}
	return s.Dist
}

// RangeMask returns a mask with the bits lo (inclusive) to hi
// (exclusive) set.
func RangeMask[T Word](lo, hi int) T {
	if hi <= lo {
		return 0
	}
	w := WordBits[T]()
	return ^T(0) >> (w - (hi - lo)) << lo
}
