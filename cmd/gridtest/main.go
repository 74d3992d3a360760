// Command gridtest runs the geometric stages on a puzzle image and
// reports what each one found, for tuning the vision parameters.
package main

import (
	"flag"
	"fmt"
	"os"

	"sudoku-reader/internal/imageio"
	"sudoku-reader/internal/recognize"
	"sudoku-reader/internal/vision"
)

func main() {
	imagePath := flag.String("image", "", "Path to puzzle image (PNG, JPEG, or TIFF)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: gridtest -image <path>")
		os.Exit(1)
	}

	img, err := imageio.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer img.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", img.Cols(), img.Rows())

	params := vision.DefaultParams()

	binary := vision.Preprocess(img)
	defer binary.Close()

	loc := vision.LocalizeGrid(binary, params)
	defer loc.Canonical.Close()
	fmt.Printf("Grid detected: %v\n", loc.GridDetected)
	if loc.GridDetected {
		for i, label := range []string{"TL", "TR", "BR", "BL"} {
			next := loc.Corners[(i+1)%4]
			fmt.Printf("  %s: (%.0f, %.0f)  edge %.0f px\n",
				label, loc.Corners[i].X, loc.Corners[i].Y, loc.Corners[i].Distance(next))
		}
	}
	fmt.Printf("Canonical size: %dx%d\n", loc.Canonical.Cols(), loc.Canonical.Rows())

	structure := vision.AnalyzeStructure(loc.Canonical, params)
	fmt.Printf("\nSeparator lines: %d horizontal, %d vertical (thickness %d)\n",
		len(structure.Horizontal), len(structure.Vertical), structure.LineThickness())
	strategy := "uniform"
	if structure.Reliable(params.MinLineGroups) {
		strategy = "line-based"
	}
	fmt.Printf("Extraction strategy: %s\n", strategy)

	cells := vision.ExtractCells(loc.Canonical, structure, params)
	defer vision.CloseCells(&cells)

	fmt.Println("\nCell dark-pixel ratios (x1000, '.' = empty):")
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			ratio := recognize.DarkRatio(cells[i][j])
			if ratio < recognize.EmptyDarkRatio {
				fmt.Printf("   . ")
			} else {
				fmt.Printf("%4.0f ", ratio*1000)
			}
		}
		fmt.Println()
	}
}
