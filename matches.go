package fuzzygo

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fuzzygo/alignment"
	"github.com/hupe1980/fuzzygo/automaton"
	"github.com/hupe1980/fuzzygo/traceback"
)

// Hit is a full match record. End is exclusive: the matched text
// segment is text[Start:End].
type Hit[D automaton.Dist] struct {
	Start    int
	End      int
	Distance D
}

// EndMatch is an end-only match record. End is the inclusive index of
// the last matched text symbol.
type EndMatch[D automaton.Dist] struct {
	End      int
	Distance D
}

// Matches is the eager end-only iterator. It records no history and
// needs O(1) memory beyond the column state.
type Matches[T automaton.Word, D automaton.Dist] struct {
	m       *Matcher[T, D]
	state   automaton.State[T, D]
	text    []byte
	cursor  int
	maxDist D
}

// Next scans forward until the next end position with distance <=
// maxDist, or until the text is exhausted.
func (it *Matches[T, D]) Next() (end int, dist D, ok bool) {
	for it.cursor < len(it.text) {
		i := it.cursor
		it.cursor++
		it.m.step(&it.state, it.text[i])
		if d, known := it.state.KnownDist(); known && d <= it.maxDist {
			return i, d, true
		}
	}
	return 0, 0, false
}

// Seq exposes the remaining matches as an iterator over (end,
// distance) pairs.
func (it *Matches[T, D]) Seq() iter.Seq2[int, D] {
	return func(yield func(int, D) bool) {
		for {
			end, dist, ok := it.Next()
			if !ok {
				return
			}
			if !yield(end, dist) {
				return
			}
		}
	}
}

// FullMatches is the stateful start+end iterator. It holds the Matcher
// exclusively; reconstruction queries refer to the most recently
// yielded match only.
type FullMatches[T automaton.Word, D automaton.Dist] struct {
	m       *Matcher[T, D]
	tb      *traceback.Store[T, D]
	state   automaton.State[T, D]
	text    []byte
	cursor  int
	pos     int // end position of the current hit
	maxDist D

	hasHit   bool
	finished bool
	closed   bool
}

// NextEnd advances to the next match and returns its end position
// (inclusive) and distance. It involves no start-position search and is
// therefore cheaper than Next.
func (fm *FullMatches[T, D]) NextEnd() (end int, dist D, ok bool) {
	if fm.closed || fm.finished {
		return 0, 0, false
	}
	for fm.cursor < len(fm.text) {
		i := fm.cursor
		fm.cursor++
		fm.pos = i
		fm.m.step(&fm.state, fm.text[i])
		fm.tb.AddState(fm.state)
		if d, known := fm.state.KnownDist(); known && d <= fm.maxDist {
			fm.hasHit = true
			return i, d, true
		}
	}
	fm.finished = true
	return 0, 0, false
}

// Next advances to the next match and reconstructs its start position.
// This always pays for a traceback; use NextEnd when the start is not
// needed.
func (fm *FullMatches[T, D]) Next() (Hit[D], bool) {
	end, dist, ok := fm.NextEnd()
	if !ok {
		return Hit[D]{}, false
	}
	start, ok := fm.Start()
	if !ok {
		panic("fuzzygo: history window lost the current hit")
	}
	return Hit[D]{Start: start, End: end + 1, Distance: dist}, true
}

// Seq exposes the remaining matches as an iterator over Hits.
func (fm *FullMatches[T, D]) Seq() iter.Seq[Hit[D]] {
	return func(yield func(Hit[D]) bool) {
		for {
			h, ok := fm.Next()
			if !ok {
				return
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Start returns the start position of the current hit. The result is
// absent before the first match and after the scan ended without one.
func (fm *FullMatches[T, D]) Start() (int, bool) {
	if !fm.hasHit || fm.finished || fm.closed {
		return 0, false
	}
	length, _, ok := fm.tb.Traceback(nil)
	if !ok {
		return 0, false
	}
	return fm.pos + 1 - length, true
}

// Path fills ops with the edit operations of the current hit in
// forward order and returns its start position.
func (fm *FullMatches[T, D]) Path(ops *[]alignment.Operation) (int, bool) {
	start, ok := fm.PathReverse(ops)
	if ok {
		alignment.Reverse(*ops)
	}
	return start, ok
}

// PathReverse is like Path with the operations in reverse order. This
// is slightly faster, as the traceback produces them in reverse order
// and Path reverses them.
func (fm *FullMatches[T, D]) PathReverse(ops *[]alignment.Operation) (int, bool) {
	if !fm.hasHit || fm.finished || fm.closed {
		return 0, false
	}
	length, _, ok := fm.tb.Traceback(ops)
	if !ok {
		return 0, false
	}
	return fm.pos + 1 - length, true
}

// NextPath advances to the next match and fills ops with its forward
// path. It returns (start, end, distance); end is exclusive.
func (fm *FullMatches[T, D]) NextPath(ops *[]alignment.Operation) (start, end int, dist D, ok bool) {
	e, d, found := fm.NextEnd()
	if !found {
		return 0, 0, 0, false
	}
	s, ok := fm.Path(ops)
	if !ok {
		panic("fuzzygo: history window lost the current hit")
	}
	return s, e + 1, d, true
}

// NextPathReverse is NextPath with reverse-order operations.
func (fm *FullMatches[T, D]) NextPathReverse(ops *[]alignment.Operation) (start, end int, dist D, ok bool) {
	e, d, found := fm.NextEnd()
	if !found {
		return 0, 0, 0, false
	}
	s, ok := fm.PathReverse(ops)
	if !ok {
		panic("fuzzygo: history window lost the current hit")
	}
	return s, e + 1, d, true
}

// Alignment populates aln with the position, forward path and distance
// (stored in Score) of the current hit. It reports false if there is no
// current hit.
func (fm *FullMatches[T, D]) Alignment(aln *alignment.Alignment) bool {
	if !fm.hasHit || fm.finished || fm.closed {
		return false
	}
	length, dist, ok := fm.tb.Traceback(&aln.Operations)
	if !ok {
		return false
	}
	alignment.Reverse(aln.Operations)
	alignment.Update(aln, fm.pos, length, len(fm.text), int(dist), fm.m.m)
	return true
}

// NextAlignment advances to the next match and populates aln. If no
// further match exists, aln is left unchanged and false is returned.
func (fm *FullMatches[T, D]) NextAlignment(aln *alignment.Alignment) bool {
	if _, _, ok := fm.NextEnd(); !ok {
		return false
	}
	return fm.Alignment(aln)
}

// Close releases the exclusive hold on the Matcher. The iterator must
// not be used afterwards.
func (fm *FullMatches[T, D]) Close() error {
	if !fm.closed {
		fm.closed = true
		fm.m.release()
	}
	return nil
}

// LazyMatches is the stateful iterator with random-access
// reconstruction: scanning yields only (end, distance), and any end
// position visited so far may be reconstructed afterwards. The full
// scan history is retained, trading memory for the ability to filter
// or rank matches before paying reconstruction cost.
type LazyMatches[T automaton.Word, D automaton.Dist] struct {
	m       *Matcher[T, D]
	tb      *traceback.Store[T, D]
	state   automaton.State[T, D]
	text    []byte
	cursor  int
	maxDist D
	hits    *roaring.Bitmap
	closed  bool
}

// Next advances to the next match and returns its end position
// (inclusive) and distance.
func (lm *LazyMatches[T, D]) Next() (end int, dist D, ok bool) {
	if lm.closed {
		return 0, 0, false
	}
	for lm.cursor < len(lm.text) {
		i := lm.cursor
		lm.cursor++
		lm.m.step(&lm.state, lm.text[i])
		lm.tb.AddState(lm.state)
		if d, known := lm.state.KnownDist(); known && d <= lm.maxDist {
			if lm.hits == nil {
				lm.hits = roaring.New()
			}
			lm.hits.Add(uint32(i))
			return i, d, true
		}
	}
	return 0, 0, false
}

// Seq exposes the remaining matches as an iterator over (end,
// distance) pairs.
func (lm *LazyMatches[T, D]) Seq() iter.Seq2[int, D] {
	return func(yield func(int, D) bool) {
		for {
			end, dist, ok := lm.Next()
			if !ok {
				return
			}
			if !yield(end, dist) {
				return
			}
		}
	}
}

// Hits returns the set of end positions yielded so far as a roaring
// bitmap. The returned bitmap is a copy.
func (lm *LazyMatches[T, D]) Hits() *roaring.Bitmap {
	if lm.hits == nil {
		return roaring.New()
	}
	return lm.hits.Clone()
}

// DistAt returns the edit distance at end position endPos, or false if
// that position has not been visited yet.
func (lm *LazyMatches[T, D]) DistAt(endPos int) (D, bool) {
	if lm.closed || endPos < 0 {
		return 0, false
	}
	return lm.tb.DistAt(endPos)
}

// HitAt returns the start position and distance of the match ending at
// endPos. This computes the traceback walk but discards the
// operations.
func (lm *LazyMatches[T, D]) HitAt(endPos int) (start int, dist D, ok bool) {
	if lm.closed || endPos < 0 {
		return 0, 0, false
	}
	length, dist, ok := lm.tb.TracebackAt(endPos, nil)
	if !ok {
		return 0, 0, false
	}
	return endPos + 1 - length, dist, true
}

// PathAt fills ops with the forward-order edit operations of the match
// ending at endPos and returns its start position and distance.
func (lm *LazyMatches[T, D]) PathAt(endPos int, ops *[]alignment.Operation) (start int, dist D, ok bool) {
	start, dist, ok = lm.PathAtReverse(endPos, ops)
	if ok {
		alignment.Reverse(*ops)
	}
	return start, dist, ok
}

// PathAtReverse is PathAt with reverse-order operations.
func (lm *LazyMatches[T, D]) PathAtReverse(endPos int, ops *[]alignment.Operation) (start int, dist D, ok bool) {
	if lm.closed || endPos < 0 {
		return 0, 0, false
	}
	length, dist, ok := lm.tb.TracebackAt(endPos, ops)
	if !ok {
		return 0, 0, false
	}
	return endPos + 1 - length, dist, true
}

// AlignmentAt populates aln for the match ending at endPos. It reports
// false if that position has not been visited. With the single-word
// automaton every visited position can be reconstructed, not only
// those within maxDist.
func (lm *LazyMatches[T, D]) AlignmentAt(endPos int, aln *alignment.Alignment) bool {
	if lm.closed || endPos < 0 {
		return false
	}
	length, dist, ok := lm.tb.TracebackAt(endPos, &aln.Operations)
	if !ok {
		return false
	}
	alignment.Reverse(aln.Operations)
	alignment.Update(aln, endPos, length, len(lm.text), int(dist), lm.m.m)
	return true
}

// Close releases the exclusive hold on the Matcher. The iterator must
// not be used afterwards.
func (lm *LazyMatches[T, D]) Close() error {
	if !lm.closed {
		lm.closed = true
		lm.m.release()
	}
	return nil
}
