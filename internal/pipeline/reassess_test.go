package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"sudoku-reader/internal/recognize"
	"sudoku-reader/internal/sudoku"
)

// fixedRecognizer returns the same glyph reading on every call, or
// nothing when glyphs is empty.
type fixedRecognizer struct {
	glyphs []recognize.Glyph
}

func (f *fixedRecognizer) RecognizeGlyphs(gocv.Mat, string, recognize.SensitivityProfile) ([]recognize.Glyph, error) {
	return f.glyphs, nil
}

// scatterCell builds a cell with sparse dark pixels: enough content to
// not read as empty, too little structure to template-match.
func scatterCell() gocv.Mat {
	cell := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	for k := 0; k < 10000; k += 137 {
		cell.SetUCharAt(k/100, k%100, 0)
	}
	return cell
}

func conflictPair() (sudoku.Grid, [9][9]recognize.Detection) {
	var grid sudoku.Grid
	grid[0][0] = 5
	grid[0][3] = 5

	var detections [9][9]recognize.Detection
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			detections[i][j] = recognize.Detection{Sources: []string{recognize.SourceEmpty}, Row: i, Col: j}
		}
	}
	detections[0][0] = recognize.Detection{Digit: 5, Confidence: 0.92,
		Sources: []string{recognize.SourceTesseract}, Row: 0, Col: 0}
	detections[0][3] = recognize.Detection{Digit: 5, Confidence: 0.4,
		Sources: []string{recognize.SourceTesseract}, Row: 0, Col: 3}
	return grid, detections
}

func TestReassessReplacesLowConfidenceConflict(t *testing.T) {
	grid, detections := conflictPair()

	var cells [9][9]gocv.Mat
	cells[0][3] = scatterCell()
	defer cells[0][3].Close()

	// The re-read yields a 6, which no rule forbids at (0,3).
	ens := recognize.NewEnsemble(&fixedRecognizer{
		glyphs: []recognize.Glyph{{Digit: 6, Confidence: 0.75}},
	}, nil)
	defer ens.Close()

	conflicts := reassess(&detections, &cells, &grid, ens, zap.NewNop())

	// The report covers the state before correction.
	require.Len(t, conflicts, 2)
	assert.Equal(t, sudoku.ConflictRow, conflicts[0].Type)

	// The trusted cell keeps its reading, the weak one is replaced.
	assert.Equal(t, 5, grid[0][0])
	assert.Equal(t, 6, grid[0][3])
	assert.Equal(t, 6, detections[0][3].Digit)
	assert.InDelta(t, 0.75, detections[0][3].Confidence, 1e-9)
	assert.Equal(t, []string{recognize.SourceTesseract}, detections[0][3].Sources)
	assert.Empty(t, sudoku.Conflicts(grid))
}

func TestReassessClearsUnrecoverableCell(t *testing.T) {
	grid, detections := conflictPair()

	var cells [9][9]gocv.Mat
	cells[0][3] = scatterCell()
	defer cells[0][3].Close()

	// Every re-read repeats the conflicting digit, so no candidate
	// survives rule filtering and the cell defers to the solver.
	ens := recognize.NewEnsemble(&fixedRecognizer{
		glyphs: []recognize.Glyph{{Digit: 5, Confidence: 0.75}},
	}, nil)
	defer ens.Close()

	reassess(&detections, &cells, &grid, ens, zap.NewNop())

	assert.Equal(t, 5, grid[0][0])
	assert.Equal(t, 0, grid[0][3])
	assert.Equal(t, 0, detections[0][3].Digit)
	assert.Zero(t, detections[0][3].Confidence)
	assert.Equal(t, []string{recognize.SourceRuleValidation}, detections[0][3].Sources)
}

func TestReassessTrustsHighConfidence(t *testing.T) {
	grid, detections := conflictPair()
	detections[0][3].Confidence = 0.85

	var cells [9][9]gocv.Mat

	ens := recognize.NewEnsemble(&fixedRecognizer{
		glyphs: []recognize.Glyph{{Digit: 6, Confidence: 0.9}},
	}, nil)
	defer ens.Close()

	conflicts := reassess(&detections, &cells, &grid, ens, zap.NewNop())

	// Both cells clear the threshold: the conflict is reported but
	// neither reading changes.
	require.Len(t, conflicts, 2)
	assert.Equal(t, 5, grid[0][0])
	assert.Equal(t, 5, grid[0][3])
	assert.Equal(t, 5, detections[0][3].Digit)
}
