package fuzzygo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is returned when the pattern has no symbols.
	ErrEmptyPattern = errors.New("pattern must not be empty")

	// ErrSearchActive is returned when a stateful search is started
	// while another one still holds the Matcher.
	ErrSearchActive = errors.New("a stateful search is already active; close it first")

	// ErrNoMatch is returned by search helpers when no position
	// matches within the requested distance.
	ErrNoMatch = errors.New("no match within the requested distance")

	// ErrBadSnapshot is returned when a snapshot file is truncated,
	// corrupt, or carries an unknown format version.
	ErrBadSnapshot = errors.New("bad snapshot")
)

// ErrPatternTooLong indicates a pattern longer than the word width of
// the chosen bit-vector type.
type ErrPatternTooLong struct {
	Len int
	Max int
}

func (e *ErrPatternTooLong) Error() string {
	return fmt.Sprintf("pattern too long: %d symbols, word width allows %d", e.Len, e.Max)
}

// ErrSnapshotTypeMismatch indicates a snapshot saved with different
// word or distance bit widths than the types it is loaded into.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrSnapshotTypeMismatch struct {
	WantWordBits, GotWordBits int
	WantDistBits, GotDistBits int
	cause                     error
}

func (e *ErrSnapshotTypeMismatch) Error() string {
	return fmt.Sprintf("snapshot type mismatch: word bits %d (snapshot has %d), dist bits %d (snapshot has %d)",
		e.WantWordBits, e.GotWordBits, e.WantDistBits, e.GotDistBits)
}

func (e *ErrSnapshotTypeMismatch) Unwrap() error { return e.cause }
