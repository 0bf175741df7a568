package fuzzygo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fuzzygo/resource"
)

// BatchOptions configures batch scans.
type BatchOptions struct {
	// Controller applies shared concurrency and throughput limits.
	// Nil means no limits beyond MaxConcurrency.
	Controller *resource.Controller

	// MaxConcurrency caps the number of texts scanned in parallel.
	// If 0, runtime.NumCPU-style default of the errgroup (unlimited)
	// is replaced with 1 goroutine per text.
	MaxConcurrency int
}

// BatchDistance computes the semi-global edit distance for each text in
// parallel. Results are positionally aligned with texts.
//
// Distance scans share no state, so the Matcher needs no exclusive
// hold; any number of batches may run concurrently.
func (m *Matcher[T, D]) BatchDistance(ctx context.Context, texts [][]byte, optFns ...func(*BatchOptions)) ([]D, error) {
	var opts BatchOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	start := time.Now()
	results := make([]D, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}

	for i, text := range texts {
		g.Go(func() error {
			if err := opts.Controller.AcquireScan(ctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseScan()
			if err := opts.Controller.AcquireScanBytes(ctx, len(text)); err != nil {
				return err
			}

			results[i] = m.Distance(text)
			return nil
		})
	}

	err := g.Wait()

	failed := 0
	if err != nil {
		failed = 1
	}
	m.logger.LogBatchScan(ctx, len(texts), failed)
	m.metrics.RecordBatchScan(len(texts), failed, time.Since(start))

	if err != nil {
		return nil, err
	}
	return results, nil
}

// BatchFindAllEnd scans each text in parallel with the eager end-only
// protocol and collects the matching end positions per text. Results
// are positionally aligned with texts.
func (m *Matcher[T, D]) BatchFindAllEnd(ctx context.Context, texts [][]byte, maxDist int, optFns ...func(*BatchOptions)) ([][]EndMatch[D], error) {
	var opts BatchOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	start := time.Now()
	results := make([][]EndMatch[D], len(texts))

	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}

	for i, text := range texts {
		g.Go(func() error {
			if err := opts.Controller.AcquireScan(ctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseScan()
			if err := opts.Controller.AcquireScanBytes(ctx, len(text)); err != nil {
				return err
			}

			it := m.FindAllEnd(text, maxDist)
			for {
				end, dist, ok := it.Next()
				if !ok {
					break
				}
				results[i] = append(results[i], EndMatch[D]{End: end, Distance: dist})
			}
			return nil
		})
	}

	err := g.Wait()

	failed := 0
	if err != nil {
		failed = 1
	}
	m.logger.LogBatchScan(ctx, len(texts), failed)
	m.metrics.RecordBatchScan(len(texts), failed, time.Since(start))

	if err != nil {
		return nil, err
	}
	return results, nil
}
