package imageutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellState_String(t *testing.T) {
	tests := []struct {
		state CellState
		want  string
	}{
		{Unmarked, "Unmarked"},
		{Marked, "Marked"},
		{Visited, "Visited"},
		{CellState(5), "CellState(?)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestDiffMask(t *testing.T) {
	mask := NewDiffMask(4, 3)

	assert.Equal(t, 4, mask.Width())
	assert.Equal(t, 3, mask.Height())
	assert.False(t, mask.HasMarked())
	assert.Equal(t, 12, mask.Count(Unmarked))

	mask.Mark(1, 2)
	mask.Mark(1, 2) // 2回マークしても変化しない
	assert.Equal(t, Marked, mask.At(1, 2))
	assert.True(t, mask.HasMarked())
	assert.Equal(t, 1, mask.Count(Marked))

	// Visited のセルはマークで Marked に戻らない
	mask.cells[2*4+1] = Visited
	mask.Mark(1, 2)
	assert.Equal(t, Visited, mask.At(1, 2))
	assert.False(t, mask.HasMarked())
}

func TestDiffMask_InBounds(t *testing.T) {
	mask := NewDiffMask(3, 2)

	assert.True(t, mask.InBounds(0, 0))
	assert.True(t, mask.InBounds(2, 1))
	assert.False(t, mask.InBounds(3, 1))
	assert.False(t, mask.InBounds(2, 2))
	assert.False(t, mask.InBounds(-1, 0))
	assert.False(t, mask.InBounds(0, -1))
}
