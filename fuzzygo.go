package fuzzygo

import (
	"sync/atomic"

	"github.com/hupe1980/fuzzygo/automaton"
	"github.com/hupe1980/fuzzygo/traceback"
)

// Matcher is a bit-parallel approximate matcher for one pattern. T is
// the bit-vector word type (its width caps the pattern length) and D
// the distance integer type (must hold m + maxDist).
//
// The equality table is immutable after construction, so a Matcher may
// be shared between goroutines for end-only scans. The full and lazy
// protocols mutate the internal history buffer and take exclusive
// ownership for the duration of the search.
type Matcher[T automaton.Word, D automaton.Dist] struct {
	peq     [256]T
	m       int
	lastBit T
	pattern []byte

	logger  *Logger
	metrics MetricsCollector

	// statesBuf is the reusable traceback history buffer. searching
	// guards it: at most one stateful search per Matcher.
	statesBuf []automaton.State[T, D]
	searching atomic.Bool
}

// New creates a Matcher for pattern. The pattern must be non-empty and
// no longer than the bit width of T.
func New[T automaton.Word, D automaton.Dist](pattern []byte, optFns ...Option) (*Matcher[T, D], error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if w := automaton.WordBits[T](); len(pattern) > w {
		return nil, &ErrPatternTooLong{Len: len(pattern), Max: w}
	}

	opts := applyOptions(optFns)

	m := &Matcher[T, D]{
		peq:     automaton.NewPeq[T](pattern),
		m:       len(pattern),
		lastBit: T(1) << (len(pattern) - 1),
		pattern: append([]byte(nil), pattern...),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
	return m, nil
}

// New64 creates a Matcher with 64-bit words and 32-bit distances, the
// right default for patterns up to 64 symbols.
func New64(pattern []byte, optFns ...Option) (*Matcher[uint64, uint32], error) {
	return New[uint64, uint32](pattern, optFns...)
}

// New32 creates a Matcher with 32-bit words and 16-bit distances for
// patterns up to 32 symbols.
func New32(pattern []byte, optFns ...Option) (*Matcher[uint32, uint16], error) {
	return New[uint32, uint16](pattern, optFns...)
}

// PatternLen returns the pattern length m.
func (m *Matcher[T, D]) PatternLen() int { return m.m }

// Pattern returns a copy of the pattern.
func (m *Matcher[T, D]) Pattern() []byte {
	return append([]byte(nil), m.pattern...)
}

func (m *Matcher[T, D]) initialState() automaton.State[T, D] {
	return automaton.Init[T, D](D(m.m))
}

func (m *Matcher[T, D]) step(st *automaton.State[T, D], a byte) {
	st.Step(m.peq[a], m.lastBit)
}

// clampDist caps a requested maximum distance to D's representable
// range. Out-of-range values are capped silently, never an error.
func clampDist[D automaton.Dist](maxDist int) D {
	if maxDist <= 0 {
		return 0
	}
	if uint64(maxDist) > uint64(automaton.MaxValue[D]()) {
		return automaton.MaxValue[D]()
	}
	return D(maxDist)
}

// Distance returns the minimum edit distance of the pattern to any
// text segment ending anywhere in text (semi-global). For an empty text
// the capped maximum of D is returned.
func (m *Matcher[T, D]) Distance(text []byte) D {
	dist := automaton.MaxValue[D]()
	st := m.initialState()
	for _, a := range text {
		m.step(&st, a)
		if d, ok := st.KnownDist(); ok && d < dist {
			dist = d
		}
	}
	return dist
}

// FindAllEnd returns an eager end-only iterator over all end positions
// where the pattern matches within maxDist. The iterator holds only a
// shared view of the Matcher; any number of them may run concurrently
// over distinct texts.
func (m *Matcher[T, D]) FindAllEnd(text []byte, maxDist int) *Matches[T, D] {
	return &Matches[T, D]{
		m:       m,
		state:   m.initialState(),
		text:    text,
		maxDist: clampDist[D](maxDist),
	}
}

// FindBestEnd returns the end position with the smallest edit distance,
// ties broken by the earliest occurrence.
//
// Calling FindBestEnd on an empty text is a precondition violation and
// panics.
func (m *Matcher[T, D]) FindBestEnd(text []byte) (int, D) {
	if len(text) == 0 {
		panic("fuzzygo: FindBestEnd on empty text")
	}
	bestEnd := -1
	bestDist := automaton.MaxValue[D]()
	it := &Matches[T, D]{
		m:       m,
		state:   m.initialState(),
		text:    text,
		maxDist: automaton.MaxValue[D](),
	}
	for {
		end, dist, ok := it.Next()
		if !ok {
			break
		}
		if dist < bestDist {
			bestEnd, bestDist = end, dist
		}
	}
	return bestEnd, bestDist
}

// FindAll starts a full search yielding (start, end, distance) ranges.
// The text length must be known up front to size the traceback window,
// hence the slice input. The search holds the Matcher exclusively until
// Close is called on the returned iterator.
func (m *Matcher[T, D]) FindAll(text []byte, maxDist int) (*FullMatches[T, D], error) {
	if !m.searching.CompareAndSwap(false, true) {
		return nil, ErrSearchActive
	}
	md := clampDist[D](maxDist)
	st := m.initialState()

	// A hit spans at most m + maxDist text columns, and never more
	// than 2m since the bottom-row distance cannot exceed m.
	window := uint64(md)
	if window > uint64(m.m) {
		window = uint64(m.m)
	}
	tb := traceback.NewStore(&m.statesBuf, st, m.m+int(window), m.m, traceback.PolicyWindow)

	return &FullMatches[T, D]{
		m:       m,
		tb:      tb,
		state:   st,
		text:    text,
		maxDist: md,
	}, nil
}

// FindAllLazy starts a lazy search: scanning yields only (end,
// distance), while reconstruction may be requested afterwards for any
// end position visited so far. The whole scan history is retained, so
// memory grows with the text length. The search holds the Matcher
// exclusively until Close is called.
func (m *Matcher[T, D]) FindAllLazy(text []byte, maxDist int) (*LazyMatches[T, D], error) {
	if !m.searching.CompareAndSwap(false, true) {
		return nil, ErrSearchActive
	}
	md := clampDist[D](maxDist)
	st := m.initialState()
	tb := traceback.NewStore(&m.statesBuf, st, len(text), m.m, traceback.PolicyAll)

	return &LazyMatches[T, D]{
		m:       m,
		tb:      tb,
		state:   st,
		text:    text,
		maxDist: md,
	}, nil
}

func (m *Matcher[T, D]) release() {
	m.searching.Store(false)
}
