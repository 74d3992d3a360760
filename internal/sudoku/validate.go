package sudoku

// ConflictType names which rule a duplicated digit violates.
type ConflictType string

const (
	ConflictRow    ConflictType = "row"
	ConflictColumn ConflictType = "column"
	ConflictBox    ConflictType = "box"
)

// Conflict records a digit duplicated within its row, column, or box.
type Conflict struct {
	Row   int          `json:"row"`
	Col   int          `json:"col"`
	Value int          `json:"value"`
	Type  ConflictType `json:"conflict_type"`
}

// Conflicts reports every nonzero cell whose value duplicates another
// nonzero value in its row, column, or 3x3 box. The scan is read-only
// and row-major; calling it twice on the same grid returns identical
// results.
func Conflicts(g Grid) []Conflict {
	var conflicts []Conflict
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			digit := g[row][col]
			if digit == 0 {
				continue
			}
			if t, ok := conflictAt(g, row, col, digit); ok {
				conflicts = append(conflicts, Conflict{
					Row:   row,
					Col:   col,
					Value: digit,
					Type:  t,
				})
			}
		}
	}
	return conflicts
}

// ValidPlacement reports whether digit could legally occupy (row, col),
// comparing against every other cell of the row, column, and box. The
// cell itself is excluded from the comparison, so the query works both
// for empty cells and for re-checking an already-filled cell.
func ValidPlacement(g Grid, row, col, digit int) bool {
	_, conflicted := conflictAt(g, row, col, digit)
	return !conflicted
}

// Candidates returns the digits 1-9 that could legally fill an empty
// cell. A filled cell has no candidates.
func Candidates(g Grid, row, col int) []int {
	if g[row][col] != 0 {
		return nil
	}
	var out []int
	for d := 1; d <= 9; d++ {
		if ValidPlacement(g, row, col, d) {
			out = append(out, d)
		}
	}
	return out
}

// conflictAt checks digit at (row, col) against the rest of its row,
// column, and box, in that order, skipping the cell itself.
func conflictAt(g Grid, row, col, digit int) (ConflictType, bool) {
	for j := 0; j < 9; j++ {
		if j != col && g[row][j] == digit {
			return ConflictRow, true
		}
	}
	for i := 0; i < 9; i++ {
		if i != row && g[i][col] == digit {
			return ConflictColumn, true
		}
	}
	boxRow, boxCol := row/3*3, col/3*3
	for i := boxRow; i < boxRow+3; i++ {
		for j := boxCol; j < boxCol+3; j++ {
			if (i != row || j != col) && g[i][j] == digit {
				return ConflictBox, true
			}
		}
	}
	return "", false
}
