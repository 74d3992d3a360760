package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// syntheticGrid draws a 450x450 white image with 10 two-pixel separator
// lines per axis at 50px spacing. The caller closes it.
func syntheticGrid() gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 450, 450, gocv.MatTypeCV8UC1)
	black := gocv.NewScalar(0, 0, 0, 0)
	for k := 0; k < 10; k++ {
		pos := k * 49 // 0, 49, ..., 441 keeps the last line inside the image
		rows := img.RowRange(pos, pos+2)
		rows.SetTo(black)
		rows.Close()
		cols := img.ColRange(pos, pos+2)
		cols.SetTo(black)
		cols.Close()
	}
	return img
}

func TestAnalyzeStructureFindsSeparators(t *testing.T) {
	img := syntheticGrid()
	defer img.Close()

	s := AnalyzeStructure(img, DefaultParams())

	require.Len(t, s.Horizontal, 10)
	require.Len(t, s.Vertical, 10)
	assert.True(t, s.Reliable(DefaultParams().MinLineGroups))

	for k, g := range s.Horizontal {
		assert.InDelta(t, k*49, g.Center, 1, "horizontal line %d", k)
		assert.Equal(t, 2, g.Thickness)
	}
	assert.Equal(t, 2, s.LineThickness())
}

func TestAnalyzeStructureBlankImage(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 450, 450, gocv.MatTypeCV8UC1)
	defer img.Close()

	s := AnalyzeStructure(img, DefaultParams())

	assert.Empty(t, s.Horizontal)
	assert.Empty(t, s.Vertical)
	assert.False(t, s.Reliable(DefaultParams().MinLineGroups))
}

func TestGroupingMergesAdjacentPositions(t *testing.T) {
	// Lines thicker than one flagged position must merge into a single
	// group with a mean center.
	groups := groupFlagged([]int{10, 11, 12, 40, 44, 45}, 3)

	require.Len(t, groups, 3)
	assert.Equal(t, LineGroup{Center: 11, Thickness: 3}, groups[0])
	// 40 and 44 are 4 apart, beyond the merge gap, so they split.
	assert.Equal(t, LineGroup{Center: 40, Thickness: 1}, groups[1])
	assert.Equal(t, LineGroup{Center: 44, Thickness: 2}, groups[2])
}
