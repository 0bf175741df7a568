// Package traceback retains column history during a scan and
// reconstructs alignment length, distance and edit operations for
// queried end positions.
//
// The store consumes the engine-owned history buffer: columns are
// appended once per transition into a ring buffer, so retention is
// bounded by the configured window. Reconstruction walks the DP matrix
// backwards using only the retained bit vectors; no text symbols are
// needed. The walk answers "distance n rows above, same column" via the
// incremental rollback of the automaton package instead of replaying
// columns.
package traceback

import (
	"github.com/hupe1980/fuzzygo/alignment"
	"github.com/hupe1980/fuzzygo/automaton"
)

// Policy selects how much column history a store retains.
type Policy int

const (
	// PolicyWindow retains only the trailing window needed to trace the
	// most recently added column (m + min(maxDist, m) columns).
	PolicyWindow Policy = iota
	// PolicyAll retains every column of the scan, enabling traceback at
	// arbitrary previously visited end positions.
	PolicyAll
)

// Store retains per-column automaton states for traceback.
type Store[T automaton.Word, D automaton.Dist] struct {
	states   []automaton.State[T, D]
	capacity int
	cols     int // columns added so far, including the initial column
	m        int
	policy   Policy
}

// NewStore creates a store over the engine's reusable history buffer.
// sink is grown (never shrunk) to the required capacity and re-sliced,
// so repeated searches on one engine reuse the same allocation. capacity
// is the number of text columns the store must retain; one extra slot
// holds the initial column.
func NewStore[T automaton.Word, D automaton.Dist](sink *[]automaton.State[T, D], initial automaton.State[T, D], capacity, m int, policy Policy) *Store[T, D] {
	if capacity < 1 {
		capacity = 1
	}
	capacity++ // initial column

	buf := *sink
	if cap(buf) < capacity {
		buf = make([]automaton.State[T, D], capacity)
	} else {
		buf = buf[:capacity]
	}
	*sink = buf

	s := &Store[T, D]{
		states:   buf,
		capacity: capacity,
		m:        m,
		policy:   policy,
	}
	s.AddState(initial)
	return s
}

// Policy returns the retention policy of the store.
func (s *Store[T, D]) Policy() Policy { return s.policy }

// Columns returns the number of text columns added so far.
func (s *Store[T, D]) Columns() int { return s.cols - 1 }

// AddState appends the column produced by one transition. Older columns
// beyond the retention window are evicted.
func (s *Store[T, D]) AddState(st automaton.State[T, D]) {
	s.states[s.cols%s.capacity] = st
	s.cols++
}

// column fetches the retained state of absolute DP column c (column 0 is
// the initial state). The second result is false if c was evicted or
// never added.
func (s *Store[T, D]) column(c int) (automaton.State[T, D], bool) {
	if c < 0 || c >= s.cols || c < s.cols-s.capacity {
		return automaton.State[T, D]{}, false
	}
	return s.states[c%s.capacity], true
}

// DistAt returns the bottom-row distance at end position endPos, or
// false if that column is not retained.
func (s *Store[T, D]) DistAt(endPos int) (D, bool) {
	st, ok := s.column(endPos + 1)
	if !ok {
		return 0, false
	}
	return st.Dist, true
}

// Traceback reconstructs the most recently added column. See
// TracebackAt.
func (s *Store[T, D]) Traceback(ops *[]alignment.Operation) (int, D, bool) {
	return s.TracebackAt(s.cols-2, ops)
}

// TracebackAt reconstructs the match ending at endPos. It returns the
// length of the aligned text segment and the edit distance at that end
// position. If ops is non-nil it is reset and filled with the edit
// operations in reverse (end-to-start) order. The result is absent if
// the column, or any column the walk needs, is no longer retained.
func (s *Store[T, D]) TracebackAt(endPos int, ops *[]alignment.Operation) (int, D, bool) {
	col := endPos + 1
	cur, ok := s.column(col)
	if !ok {
		return 0, 0, false
	}
	if ops != nil {
		*ops = (*ops)[:0]
	}

	var left automaton.State[T, D]
	haveLeft := false
	if col > 0 {
		if left, ok = s.column(col - 1); !ok {
			return 0, 0, false
		}
		haveLeft = true
	}

	// Invariant: cur.Dist is the distance at row i of column col and
	// left.Dist the distance at row i of column col-1.
	d := cur.Dist
	dist := d
	i := s.m

	for i > 0 {
		posMask := automaton.RangeMask[T](i-1, i)
		dUp := cur.PeekUp(posMask)

		if !haveLeft {
			// Column 0: only the pattern remains, delete it.
			if ops != nil {
				*ops = append(*ops, alignment.Del)
			}
			cur.AdjustOneUp(posMask)
			d = cur.Dist
			i--
			continue
		}

		dDiag := left.PeekUp(posMask)
		dLeft := left.Dist

		// Tie-break order: diagonal substitution, vertical deletion,
		// horizontal insertion; a diagonal match is taken when no
		// neighbor is one cheaper. Decided from distances alone: a
		// mismatching diagonal always leaves some neighbor one cheaper,
		// so the final case implies matching symbols.
		switch {
		case dDiag+1 == d:
			if ops != nil {
				*ops = append(*ops, alignment.Subst)
			}
			d = dDiag
			i--
			col--
			if !s.moveDiag(&cur, &left, &haveLeft, posMask, col, i) {
				return 0, 0, false
			}
		case dUp+1 == d:
			if ops != nil {
				*ops = append(*ops, alignment.Del)
			}
			cur.AdjustOneUp(posMask)
			left.AdjustOneUp(posMask)
			d = dUp
			i--
		case dLeft+1 == d:
			if ops != nil {
				*ops = append(*ops, alignment.Ins)
			}
			d = dLeft
			col--
			cur = left
			if !s.reloadLeft(&left, &haveLeft, col, i) {
				return 0, 0, false
			}
		default:
			if ops != nil {
				*ops = append(*ops, alignment.Match)
			}
			d = dDiag
			i--
			col--
			if !s.moveDiag(&cur, &left, &haveLeft, posMask, col, i) {
				return 0, 0, false
			}
		}
	}

	return endPos + 1 - col, dist, true
}

// moveDiag shifts the cursor pair one column left and one row up: the
// old left column becomes the current one (rolled one row up) and the
// next retained column is loaded and rolled from the bottom row to row
// i in one popcount step.
func (s *Store[T, D]) moveDiag(cur, left *automaton.State[T, D], haveLeft *bool, posMask T, col, i int) bool {
	*cur = *left
	cur.AdjustOneUp(posMask)
	return s.reloadLeft(left, haveLeft, col, i)
}

func (s *Store[T, D]) reloadLeft(left *automaton.State[T, D], haveLeft *bool, col, i int) bool {
	if col == 0 {
		*haveLeft = false
		return true
	}
	if i == 0 {
		// The walk has reached row 0 and terminates; the left column
		// is never read. Skipping the load keeps a window-policy walk
		// within its retained span: a hit touches at most capacity
		// columns, one fewer than the walk would otherwise load.
		return true
	}
	st, ok := s.column(col - 1)
	if !ok {
		return false
	}
	st.AdjustUpBy(automaton.RangeMask[T](i, s.m))
	*left = st
	*haveLeft = true
	return true
}

// History returns the retained column states in column order together
// with the absolute index of the first retained column. The slice is a
// copy and stays valid across further AddState calls.
func (s *Store[T, D]) History() ([]automaton.State[T, D], int) {
	first := s.cols - s.capacity
	if first < 0 {
		first = 0
	}
	out := make([]automaton.State[T, D], 0, s.cols-first)
	for c := first; c < s.cols; c++ {
		out = append(out, s.states[c%s.capacity])
	}
	return out, first
}

// NewStoreFromHistory rebuilds a store from previously retained column
// states, e.g. when loading a persisted scan. first is the absolute
// column index of history[0]. The rebuilt store answers DistAt and
// TracebackAt exactly like the store History was taken from.
func NewStoreFromHistory[T automaton.Word, D automaton.Dist](history []automaton.State[T, D], first, m int, policy Policy) *Store[T, D] {
	capacity := len(history)
	if capacity < 1 {
		capacity = 1
	}

	s := &Store[T, D]{
		states:   make([]automaton.State[T, D], capacity),
		capacity: capacity,
		cols:     first + len(history),
		m:        m,
		policy:   policy,
	}
	for idx, st := range history {
		s.states[(first+idx)%capacity] = st
	}
	return s
}
