// Package alignment defines the edit-operation vocabulary and the
// alignment value populated by fuzzygo's traceback.
//
// Throughout the package the pattern is the x sequence and the text is
// the y sequence. A Del consumes a pattern symbol without a text symbol
// (gap in the text); an Ins consumes a text symbol without a pattern
// symbol (gap in the pattern).
package alignment

// Operation is a single edit operation of an alignment path.
type Operation uint8

const (
	// Match aligns equal pattern and text symbols.
	Match Operation = iota
	// Subst aligns unequal pattern and text symbols.
	Subst
	// Del consumes a pattern symbol only (gap in the text).
	Del
	// Ins consumes a text symbol only (gap in the pattern).
	Ins
)

// String returns the single-letter code of the operation (M, S, D, I).
func (op Operation) String() string {
	switch op {
	case Match:
		return "M"
	case Subst:
		return "S"
	case Del:
		return "D"
	case Ins:
		return "I"
	default:
		return "?"
	}
}

// ConsumesPattern reports whether op advances the pattern cursor.
func (op Operation) ConsumesPattern() bool { return op != Ins }

// ConsumesText reports whether op advances the text cursor.
func (op Operation) ConsumesText() bool { return op != Del }

// IsEdit reports whether op counts towards the edit distance.
func (op Operation) IsEdit() bool { return op != Match }

// Mode describes how sequence boundaries are scored.
type Mode uint8

const (
	// ModeGlobal penalizes gaps at all boundaries.
	ModeGlobal Mode = iota
	// ModeSemiglobal leaves gaps at the text boundaries free: the
	// pattern aligns somewhere inside the text.
	ModeSemiglobal
	// ModeLocal leaves gaps at all boundaries free.
	ModeLocal
)

// Alignment is an externally owned alignment value. It is populated only
// on request, never on every match.
type Alignment struct {
	// Score holds the edit distance of the match.
	Score int

	// Pattern (x) coordinates. XEnd is exclusive.
	XStart, XEnd, XLen int

	// Text (y) coordinates. YEnd is exclusive; text outside
	// [YStart, YEnd) is unaligned free boundary.
	YStart, YEnd, YLen int

	Mode Mode

	// Operations in forward (start-to-end) order.
	Operations []Operation
}

// Update fills aln for a semi-global match ending at endPos (inclusive)
// whose aligned text segment spans alnLen symbols. The pattern of length
// m is consumed completely; leading and trailing text outside the
// segment is flagged as free boundary via the y coordinates rather than
// emitted as gap operations. aln.Operations must already hold the
// forward-order path.
func Update(aln *Alignment, endPos, alnLen, textLen, dist, m int) {
	aln.Score = dist
	aln.XStart = 0
	aln.XEnd = m
	aln.XLen = m
	aln.YStart = endPos + 1 - alnLen
	aln.YEnd = endPos + 1
	aln.YLen = textLen
	aln.Mode = ModeSemiglobal
}

// NumEdits counts the non-match operations of a path.
func NumEdits(ops []Operation) int {
	n := 0
	for _, op := range ops {
		if op.IsEdit() {
			n++
		}
	}
	return n
}

// Reverse reverses ops in place. The traceback emits operations
// end-to-start; callers wanting forward order reverse once.
func Reverse(ops []Operation) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}
