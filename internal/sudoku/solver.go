package sudoku

import (
	"errors"
	"fmt"
)

const (
	// MaxNodeVisits caps the backtracking search. Exceeding it aborts
	// the solve with ErrSearchBudget instead of running unbounded.
	MaxNodeVisits = 100000

	// MaxDepth bounds the recursion: one frame per empty cell.
	MaxDepth = 81
)

var (
	// ErrNoSolution means the search space was exhausted without
	// completing the grid. A normal negative result, not a caller error.
	ErrNoSolution = errors.New("sudoku: no solution")

	// ErrSearchBudget means the node-visit ceiling was hit before the
	// search could conclude either way.
	ErrSearchBudget = errors.New("sudoku: search budget exhausted")
)

// SolveStats reports how much work a solve performed.
type SolveStats struct {
	NodeVisits int
}

// Solve completes the grid in place by depth-first backtracking: first
// empty cell in row-major order, digits tried 1-9 ascending, placement
// undone on recursive failure. Deterministic: identical input always
// yields the same first solution. On any non-nil error the grid is
// restored to its input state.
func Solve(g *Grid) (SolveStats, error) {
	if err := g.checkValues(); err != nil {
		return SolveStats{}, fmt.Errorf("solve: %w", err)
	}

	var visits int
	err := solveFrom(g, 0, 0, 0, &visits)
	return SolveStats{NodeVisits: visits}, err
}

// Solvable reports whether the grid can be completed. It works on a
// scratch copy; the caller's grid is never touched.
func Solvable(g Grid) bool {
	_, err := Solve(&g)
	return err == nil
}

// solveFrom searches for the first empty cell at or after (row, col).
// The row/col cursor only moves forward, so cells before it are known
// filled and are not rescanned on recursion.
func solveFrom(g *Grid, row, col, depth int, visits *int) error {
	*visits++
	if *visits > MaxNodeVisits {
		return ErrSearchBudget
	}
	if depth > MaxDepth {
		return ErrSearchBudget
	}

	row, col, filled := nextEmpty(g, row, col)
	if filled {
		return nil
	}

	for digit := 1; digit <= 9; digit++ {
		if !ValidPlacement(*g, row, col, digit) {
			continue
		}
		g[row][col] = digit
		err := solveFrom(g, row, col, depth+1, visits)
		if err == nil {
			return nil
		}
		g[row][col] = 0
		if errors.Is(err, ErrSearchBudget) {
			return err
		}
	}
	return ErrNoSolution
}

// nextEmpty returns the first empty cell at or after (row, col) in
// row-major order, or filled=true when none remains.
func nextEmpty(g *Grid, row, col int) (r, c int, filled bool) {
	for ; row < 9; row++ {
		for ; col < 9; col++ {
			if g[row][col] == 0 {
				return row, col, false
			}
		}
		col = 0
	}
	return 0, 0, true
}
