// Package fuzzygo provides bit-parallel approximate string matching.
//
// This file implements a fluent search API on top of the iterator protocols.
package fuzzygo

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/fuzzygo/automaton"
)

// Search creates a new fluent search builder for the given text.
//
// Example:
//
//	hits, err := m.Search(text).
//	    MaxDist(2).
//	    Limit(10).
//	    Execute(ctx)
//
//	// Or with streaming:
//	for hit, err := range m.Search(text).MaxDist(2).Stream(ctx) {
//	    if err != nil { break }
//	    process(hit)
//	}
func (m *Matcher[T, D]) Search(text []byte) *SearchBuilder[T, D] {
	return &SearchBuilder[T, D]{
		m:       m,
		text:    text,
		maxDist: 0,
		limit:   -1,
	}
}

// SearchBuilder is a fluent builder for constructing search queries.
type SearchBuilder[T automaton.Word, D automaton.Dist] struct {
	m       *Matcher[T, D]
	text    []byte
	maxDist int
	limit   int
}

// MaxDist sets the maximum edit distance for a position to count as a match.
// Values beyond the range of D are capped, never an error.
func (sb *SearchBuilder[T, D]) MaxDist(maxDist int) *SearchBuilder[T, D] {
	sb.maxDist = maxDist
	return sb
}

// Limit caps the number of matches returned. Negative means unlimited.
func (sb *SearchBuilder[T, D]) Limit(n int) *SearchBuilder[T, D] {
	sb.limit = n
	return sb
}

// Execute runs the search and returns all matches with start positions.
func (sb *SearchBuilder[T, D]) Execute(ctx context.Context) ([]Hit[D], error) {
	start := time.Now()

	fm, err := sb.m.FindAll(sb.text, sb.maxDist)
	if err != nil {
		sb.m.logger.LogScan(ctx, len(sb.text), 0, err)
		sb.m.metrics.RecordScan(len(sb.text), 0, time.Since(start), err)
		return nil, err
	}
	defer fm.Close()

	var hits []Hit[D]
	for {
		if sb.limit >= 0 && len(hits) >= sb.limit {
			break
		}
		if err := ctx.Err(); err != nil {
			sb.m.logger.LogScan(ctx, len(sb.text), len(hits), err)
			sb.m.metrics.RecordScan(len(sb.text), len(hits), time.Since(start), err)
			return hits, err
		}
		h, ok := fm.Next()
		if !ok {
			break
		}
		hits = append(hits, h)
	}

	sb.m.logger.LogScan(ctx, len(sb.text), len(hits), nil)
	sb.m.metrics.RecordScan(len(sb.text), len(hits), time.Since(start), nil)
	return hits, nil
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the Matcher is free.
func (sb *SearchBuilder[T, D]) MustExecute(ctx context.Context) []Hit[D] {
	hits, err := sb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return hits
}

// Stream returns an iterator over matches for memory-efficient processing.
// Matches are yielded in end-position order. The iterator supports early
// termination by breaking from the loop; the search is released when the
// loop ends.
//
// Example:
//
//	for hit, err := range m.Search(text).MaxDist(2).Stream(ctx) {
//	    if err != nil { break }
//	    process(hit)
//	}
func (sb *SearchBuilder[T, D]) Stream(ctx context.Context) iter.Seq2[Hit[D], error] {
	return func(yield func(Hit[D], error) bool) {
		start := time.Now()

		fm, err := sb.m.FindAll(sb.text, sb.maxDist)
		if err != nil {
			sb.m.metrics.RecordScan(len(sb.text), 0, time.Since(start), err)
			yield(Hit[D]{}, err)
			return
		}
		defer fm.Close()

		n := 0
		for {
			if sb.limit >= 0 && n >= sb.limit {
				break
			}
			if err := ctx.Err(); err != nil {
				yield(Hit[D]{}, err)
				return
			}
			h, ok := fm.Next()
			if !ok {
				break
			}
			n++
			if !yield(h, nil) {
				break
			}
		}

		sb.m.logger.LogScan(ctx, len(sb.text), n, nil)
		sb.m.metrics.RecordScan(len(sb.text), n, time.Since(start), nil)
	}
}

// Best returns the single match with the smallest distance, ties broken
// by the earliest end position. ErrNoMatch is returned when nothing
// matches within MaxDist.
func (sb *SearchBuilder[T, D]) Best(ctx context.Context) (Hit[D], error) {
	start := time.Now()

	lm, err := sb.m.FindAllLazy(sb.text, sb.maxDist)
	if err != nil {
		sb.m.metrics.RecordScan(len(sb.text), 0, time.Since(start), err)
		return Hit[D]{}, err
	}
	defer lm.Close()

	bestEnd := -1
	var bestDist D
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return Hit[D]{}, err
		}
		end, dist, ok := lm.Next()
		if !ok {
			break
		}
		n++
		if bestEnd < 0 || dist < bestDist {
			bestEnd, bestDist = end, dist
		}
	}

	sb.m.logger.LogScan(ctx, len(sb.text), n, nil)
	sb.m.metrics.RecordScan(len(sb.text), n, time.Since(start), nil)

	if bestEnd < 0 {
		return Hit[D]{}, ErrNoMatch
	}
	hitStart, dist, ok := lm.HitAt(bestEnd)
	if !ok {
		return Hit[D]{}, ErrNoMatch
	}
	return Hit[D]{Start: hitStart, End: bestEnd + 1, Distance: dist}, nil
}

// Count executes the search and returns the number of matching end positions.
// It uses the end-only protocol and never holds the Matcher exclusively.
func (sb *SearchBuilder[T, D]) Count(ctx context.Context) (int, error) {
	start := time.Now()

	it := sb.m.FindAllEnd(sb.text, sb.maxDist)
	n := 0
	for {
		if sb.limit >= 0 && n >= sb.limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, _, ok := it.Next(); !ok {
			break
		}
		n++
	}

	sb.m.logger.LogScan(ctx, len(sb.text), n, nil)
	sb.m.metrics.RecordScan(len(sb.text), n, time.Since(start), nil)
	return n, nil
}

// Exists checks if at least one position matches the search.
func (sb *SearchBuilder[T, D]) Exists(ctx context.Context) (bool, error) {
	it := sb.m.FindAllEnd(sb.text, sb.maxDist)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, _, ok := it.Next()
	return ok, nil
}
