// Package sudoku implements the 9x9 digit grid, rule validation, and the
// backtracking solver.
package sudoku

import (
	"fmt"
	"strings"
)

// Grid is a 9x9 digit grid. Zero marks an empty cell; clues are 1-9.
// It is a value type: assignment copies, so callers keep exclusive
// ownership of their working state.
type Grid [9][9]int

// GridFromRows builds a Grid from a row-major slice, enforcing the caller
// contract: exactly 9 rows of 9 values, each in 0..9.
func GridFromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != 9 {
		return g, fmt.Errorf("grid must have 9 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 9 {
			return g, fmt.Errorf("row %d must have 9 values, got %d", i, len(row))
		}
		for j, v := range row {
			if v < 0 || v > 9 {
				return g, fmt.Errorf("cell (%d,%d) out of range: %d", i, j, v)
			}
			g[i][j] = v
		}
	}
	return g, nil
}

// ParseGrid parses a puzzle from nine rows separated by '/' or newlines,
// with '.' (or '0') for empty cells. Spaces are ignored.
func ParseGrid(s string) (Grid, error) {
	var g Grid
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\n", "/")
	rows := strings.Split(strings.Trim(s, "/"), "/")
	if len(rows) != 9 {
		return g, fmt.Errorf("puzzle must have 9 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 9 {
			return g, fmt.Errorf("row %d must have 9 cells, got %d", i, len(row))
		}
		for j, c := range row {
			switch {
			case c == '.' || c == '0':
				g[i][j] = 0
			case c >= '1' && c <= '9':
				g[i][j] = int(c - '0')
			default:
				return g, fmt.Errorf("row %d: invalid cell %q", i, c)
			}
		}
	}
	return g, nil
}

// checkValues enforces the value-range contract on a grid handed to the
// solver or validator through the typed API.
func (g Grid) checkValues() error {
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			if g[i][j] < 0 || g[i][j] > 9 {
				return fmt.Errorf("cell (%d,%d) out of range: %d", i, j, g[i][j])
			}
		}
	}
	return nil
}

// Clues returns the number of filled cells.
func (g Grid) Clues() int {
	n := 0
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			if g[i][j] != 0 {
				n++
			}
		}
	}
	return n
}

// String renders the grid with '.' for empty cells, one row per line.
func (g Grid) String() string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			if g[i][j] == 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte(byte('0' + g[i][j]))
			}
		}
		if i < 8 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
