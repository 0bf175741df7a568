package fuzzygo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    scanCounter   prometheus.Counter
//	    scanHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordScan(textLen, hits int, duration time.Duration, err error) {
//	    p.scanCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordScan is called after each completed text scan.
	// textLen is the number of text symbols processed, hits the number
	// of matching end positions, err is nil if successful.
	RecordScan(textLen, hits int, duration time.Duration, err error)

	// RecordBatchScan is called after each batch scan.
	// texts is the number of texts attempted, failed the number that
	// failed, duration is the total time taken.
	RecordBatchScan(texts, failed int, duration time.Duration)

	// RecordTraceback is called after each traceback walk.
	RecordTraceback(duration time.Duration, ok bool)

	// RecordSnapshotSave is called after each snapshot save.
	RecordSnapshotSave(bytes int, duration time.Duration, err error)

	// RecordSnapshotLoad is called after each snapshot load.
	RecordSnapshotLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordBatchScan(int, int, time.Duration)     {}
func (NoopMetricsCollector) RecordTraceback(time.Duration, bool)         {}
func (NoopMetricsCollector) RecordSnapshotSave(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshotLoad(time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ScanCount         atomic.Int64
	ScanErrors        atomic.Int64
	ScanTotalNanos    atomic.Int64
	ScanSymbols       atomic.Int64
	ScanHits          atomic.Int64
	BatchScanCount    atomic.Int64
	BatchScanTexts    atomic.Int64
	BatchScanFailed   atomic.Int64
	TracebackCount    atomic.Int64
	TracebackMisses   atomic.Int64
	SnapshotSaveCount atomic.Int64
	SnapshotSaveBytes atomic.Int64
	SnapshotLoadCount atomic.Int64
	SnapshotErrors    atomic.Int64
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(textLen, hits int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	b.ScanSymbols.Add(int64(textLen))
	b.ScanHits.Add(int64(hits))
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// RecordBatchScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchScan(texts, failed int, duration time.Duration) {
	b.BatchScanCount.Add(1)
	b.BatchScanTexts.Add(int64(texts))
	b.BatchScanFailed.Add(int64(failed))
}

// RecordTraceback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraceback(duration time.Duration, ok bool) {
	b.TracebackCount.Add(1)
	if !ok {
		b.TracebackMisses.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(bytes int, duration time.Duration, err error) {
	b.SnapshotSaveCount.Add(1)
	b.SnapshotSaveBytes.Add(int64(bytes))
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(duration time.Duration, err error) {
	b.SnapshotLoadCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ScanCount:         b.ScanCount.Load(),
		ScanErrors:        b.ScanErrors.Load(),
		ScanAvgNanos:      b.getAvgScanNanos(),
		ScanSymbols:       b.ScanSymbols.Load(),
		ScanHits:          b.ScanHits.Load(),
		BatchScanCount:    b.BatchScanCount.Load(),
		BatchScanTexts:    b.BatchScanTexts.Load(),
		BatchScanFailed:   b.BatchScanFailed.Load(),
		TracebackCount:    b.TracebackCount.Load(),
		TracebackMisses:   b.TracebackMisses.Load(),
		SnapshotSaveCount: b.SnapshotSaveCount.Load(),
		SnapshotSaveBytes: b.SnapshotSaveBytes.Load(),
		SnapshotLoadCount: b.SnapshotLoadCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgScanNanos() int64 {
	count := b.ScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.ScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ScanCount         int64
	ScanErrors        int64
	ScanAvgNanos      int64
	ScanSymbols       int64
	ScanHits          int64
	BatchScanCount    int64
	BatchScanTexts    int64
	BatchScanFailed   int64
	TracebackCount    int64
	TracebackMisses   int64
	SnapshotSaveCount int64
	SnapshotSaveBytes int64
	SnapshotLoadCount int64
	SnapshotErrors    int64
}
