package pipeline

import (
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"sudoku-reader/internal/recognize"
	"sudoku-reader/internal/sudoku"
)

// reassessThreshold: conflicting cells at or above this confidence are
// trusted and left unchanged; below it they are re-derived.
const reassessThreshold = 0.8

// reassess runs the single constraint-driven correction pass over the
// initial recognition output. For each rule conflict, a low-confidence
// cell gets fresh candidates from all three methods, filtered to those
// that would not violate the rules against the current grid (excluding
// the cell itself); the best rule-valid candidate overwrites the
// detection and the working grid, so later conflicts in the same pass
// see the correction. With no rule-valid candidate the cell is cleared
// to empty and deferred to the solver. Returns the pre-reassessment
// conflict list for reporting.
func reassess(detections *[9][9]recognize.Detection, cells *[9][9]gocv.Mat,
	grid *sudoku.Grid, ens *recognize.Ensemble, log *zap.Logger) []sudoku.Conflict {

	conflicts := sudoku.Conflicts(*grid)

	for _, conflict := range conflicts {
		row, col := conflict.Row, conflict.Col
		det := detections[row][col]
		if det.Confidence >= reassessThreshold {
			continue
		}

		log.Info("reassessing low-confidence conflict",
			zap.Int("row", row), zap.Int("col", col),
			zap.Int("digit", conflict.Value),
			zap.Float64("confidence", det.Confidence),
			zap.String("conflict_type", string(conflict.Type)))

		digit, confidence, source := rederive(cells[row][col], *grid, row, col, ens)
		if digit == det.Digit {
			continue
		}

		log.Info("reassessment replaced digit",
			zap.Int("row", row), zap.Int("col", col),
			zap.Int("from", det.Digit), zap.Int("to", digit),
			zap.Float64("confidence", confidence),
			zap.String("source", source))

		detections[row][col] = recognize.Detection{
			Digit:      digit,
			Confidence: confidence,
			Sources:    []string{source},
			Row:        row,
			Col:        col,
		}
		grid[row][col] = digit
	}

	return conflicts
}

// rederive gathers candidates from the learned recognizer, the template
// matcher, and the enhanced-recovery path, filters them against the
// rules, and picks the highest-confidence rule-valid one. Returns the
// empty marker with the rule_validation source when nothing survives.
func rederive(cell gocv.Mat, grid sudoku.Grid, row, col int,
	ens *recognize.Ensemble) (digit int, confidence float64, source string) {

	var candidates []recognize.Candidate
	if c, ok := ens.Primary(cell); ok {
		candidates = append(candidates, c)
	}
	if c, ok := ens.Template(cell); ok {
		candidates = append(candidates, c)
	}
	if c, ok := ens.Enhanced(cell); ok {
		candidates = append(candidates, c)
	}

	best := recognize.Candidate{}
	for _, c := range candidates {
		if !sudoku.ValidPlacement(grid, row, col, c.Digit) {
			continue
		}
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	if best.Digit == 0 {
		return 0, 0, recognize.SourceRuleValidation
	}
	return best.Digit, best.Confidence, best.Source
}
