package vision

import (
	"image"
	"testing"

	"sudoku-reader/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func countDark(cell gocv.Mat) int {
	return cell.Rows()*cell.Cols() - gocv.CountNonZero(cell)
}

func TestExtractCellsUniformFallback(t *testing.T) {
	p := DefaultParams()

	grid := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0),
		p.CanonicalSize, p.CanonicalSize, gocv.MatTypeCV8UC1)
	defer grid.Close()

	// No detected lines forces the uniform-division strategy.
	cells := ExtractCells(grid, Structure{}, p)
	defer CloseCells(&cells)

	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			require.Equal(t, p.CellSize, cells[i][j].Rows(), "cell %d,%d", i, j)
			require.Equal(t, p.CellSize, cells[i][j].Cols(), "cell %d,%d", i, j)
			assert.Zero(t, countDark(cells[i][j]), "cell %d,%d should be blank", i, j)
		}
	}
}

func TestExtractCellsLineBased(t *testing.T) {
	p := DefaultParams()

	grid := syntheticGrid()
	defer grid.Close()

	// A dark blob inside cell (4,4), clear of the separator lines.
	blob := grid.Region(image.Rect(210, 210, 230, 230))
	blob.SetTo(gocv.NewScalar(0, 0, 0, 0))
	blob.Close()

	s := AnalyzeStructure(grid, p)
	require.True(t, s.Reliable(p.MinLineGroups))

	cells := ExtractCells(grid, s, p)
	defer CloseCells(&cells)

	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			require.Equal(t, p.CellSize, cells[i][j].Rows(), "cell %d,%d", i, j)
			if i == 4 && j == 4 {
				assert.Greater(t, countDark(cells[i][j]), 0, "blob cell should keep its content")
				continue
			}
			// Insetting past the separator lines leaves every other
			// cell clean.
			assert.Zero(t, countDark(cells[i][j]), "cell %d,%d picked up line residue", i, j)
		}
	}
}

func TestNormalizeCropEmptyBounds(t *testing.T) {
	p := DefaultParams()

	grid := gocv.NewMatWithSize(p.CanonicalSize, p.CanonicalSize, gocv.MatTypeCV8UC1)
	defer grid.Close()

	cell := normalizeCrop(grid, geometry.RectInt{}, p)
	defer cell.Close()

	assert.Equal(t, p.CellSize, cell.Rows())
	assert.Equal(t, p.CellSize, cell.Cols())
	assert.Zero(t, countDark(cell))
}

func TestNormalizeCropInvertsDarkCrop(t *testing.T) {
	p := DefaultParams()

	// An all-black source region must come out light-background.
	grid := gocv.NewMatWithSize(p.CanonicalSize, p.CanonicalSize, gocv.MatTypeCV8UC1)
	defer grid.Close()

	cell := normalizeCrop(grid, geometry.RectInt{X: 100, Y: 100, Width: 50, Height: 50}, p)
	defer cell.Close()

	light := gocv.CountNonZero(cell)
	assert.Greater(t, light, cell.Rows()*cell.Cols()/2)
}

func TestEnsureEdges(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      []int
	}{
		{"no lines", nil, []int{0, 449}},
		{"missing both edges", []int{10, 440}, []int{0, 10, 440, 449}},
		{"edges already present", []int{2, 447}, []int{2, 447}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ensureEdges(tt.positions, 450, 5))
		})
	}
}

func TestEdgeBias(t *testing.T) {
	assert.Equal(t, 6, edgeBias(0, 6))
	assert.Equal(t, 6, edgeBias(1, 6))
	assert.Equal(t, 0, edgeBias(2, 6))
	assert.Equal(t, 0, edgeBias(6, 6))
	assert.Equal(t, -6, edgeBias(7, 6))
	assert.Equal(t, -6, edgeBias(8, 6))
}
