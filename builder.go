// Package fuzzygo provides bit-parallel approximate string matching.
//
// This file implements the immutable fluent builder API for creating Matcher instances.
// Builders are immutable - each method returns a new builder with the updated configuration.
package fuzzygo

import (
	"github.com/hupe1980/fuzzygo/automaton"
)

// Pattern creates a new Matcher builder for the given pattern.
//
// The builder is immutable - each method returns a new builder with the updated
// configuration. This ensures thread-safety and prevents accidental state sharing.
//
// Example:
//
//	m, err := fuzzygo.Pattern[uint64, uint32]([]byte("annual")).
//	    Logger(fuzzygo.NewTextLogger(slog.LevelDebug)).
//	    Build()
func Pattern[T automaton.Word, D automaton.Dist](pattern []byte) PatternBuilder[T, D] {
	return PatternBuilder[T, D]{
		pattern: pattern,
	}
}

// PatternBuilder is an immutable fluent builder for creating Matcher instances.
// Each method returns a new builder with the updated configuration.
type PatternBuilder[T automaton.Word, D automaton.Dist] struct {
	pattern []byte
	logger  *Logger
	metrics MetricsCollector
}

// Logger sets the structured logger for operation tracing.
func (b PatternBuilder[T, D]) Logger(l *Logger) PatternBuilder[T, D] {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b PatternBuilder[T, D]) Metrics(mc MetricsCollector) PatternBuilder[T, D] {
	b.metrics = mc
	return b
}

// Build creates the Matcher.
func (b PatternBuilder[T, D]) Build() (*Matcher[T, D], error) {
	var optFns []Option
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}
	return New[T, D](b.pattern, optFns...)
}

// MustBuild creates the Matcher, panicking on error.
func (b PatternBuilder[T, D]) MustBuild() *Matcher[T, D] {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
