// Command solvetest validates and solves a puzzle given as text, for
// exercising the constraint validator and solver without an image.
//
// Rows are separated by '/', with '.' or '0' for empty cells:
//
//	solvetest -puzzle "3.5...1.8/.9..5172./.7.23.645/..7.42.81/.8....9../1.9....7./.324.8517/.1...54../6...9.8.."
package main

import (
	"flag"
	"fmt"
	"os"

	"sudoku-reader/internal/sudoku"
)

func main() {
	puzzle := flag.String("puzzle", "", "Puzzle as nine '/'-separated rows, '.' for empty")
	flag.Parse()

	if *puzzle == "" {
		fmt.Println("Usage: solvetest -puzzle <rows>")
		os.Exit(1)
	}

	grid, err := sudoku.ParseGrid(*puzzle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad puzzle: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Puzzle (%d clues):\n%s\n\n", grid.Clues(), grid)

	conflicts := sudoku.Conflicts(grid)
	if len(conflicts) > 0 {
		fmt.Printf("Rule conflicts: %d\n", len(conflicts))
		for _, c := range conflicts {
			fmt.Printf("  (%d,%d) digit %d duplicated in %s\n", c.Row, c.Col, c.Value, c.Type)
		}
		os.Exit(1)
	}
	fmt.Println("No rule conflicts")

	solution := grid
	stats, err := sudoku.Solve(&solution)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Solve failed after %d node visits: %v\n", stats.NodeVisits, err)
		os.Exit(1)
	}

	fmt.Printf("Solved in %d node visits:\n%s\n", stats.NodeVisits, solution)
}
