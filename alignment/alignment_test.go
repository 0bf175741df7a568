package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "M", Match.String())
		assert.Equal(t, "S", Subst.String())
		assert.Equal(t, "D", Del.String())
		assert.Equal(t, "I", Ins.String())
		assert.Equal(t, "?", Operation(42).String())
	})

	t.Run("Consumes", func(t *testing.T) {
		assert.True(t, Match.ConsumesPattern())
		assert.True(t, Match.ConsumesText())
		assert.True(t, Subst.ConsumesPattern())
		assert.True(t, Subst.ConsumesText())
		assert.True(t, Del.ConsumesPattern())
		assert.False(t, Del.ConsumesText())
		assert.False(t, Ins.ConsumesPattern())
		assert.True(t, Ins.ConsumesText())
	})

	t.Run("IsEdit", func(t *testing.T) {
		assert.False(t, Match.IsEdit())
		assert.True(t, Subst.IsEdit())
		assert.True(t, Del.IsEdit())
		assert.True(t, Ins.IsEdit())
	})
}

func TestNumEdits(t *testing.T) {
	assert.Equal(t, 0, NumEdits(nil))
	assert.Equal(t, 0, NumEdits([]Operation{Match, Match}))
	assert.Equal(t, 3, NumEdits([]Operation{Subst, Match, Del, Ins}))
}

func TestReverse(t *testing.T) {
	ops := []Operation{Match, Subst, Del, Ins}
	Reverse(ops)
	assert.Equal(t, []Operation{Ins, Del, Subst, Match}, ops)

	single := []Operation{Del}
	Reverse(single)
	assert.Equal(t, []Operation{Del}, single)

	Reverse(nil)
}

func TestUpdate(t *testing.T) {
	var aln Alignment
	aln.Operations = []Operation{Match, Subst, Match, Match}

	Update(&aln, 7, 4, 20, 1, 4)

	assert.Equal(t, 1, aln.Score)
	assert.Equal(t, 0, aln.XStart)
	assert.Equal(t, 4, aln.XEnd)
	assert.Equal(t, 4, aln.XLen)
	assert.Equal(t, 4, aln.YStart)
	assert.Equal(t, 8, aln.YEnd)
	assert.Equal(t, 20, aln.YLen)
	assert.Equal(t, ModeSemiglobal, aln.Mode)
}
