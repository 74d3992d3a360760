package vision

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// LineGroup is one detected separator line on an axis: the mean position
// of its flagged pixel rows/columns and how many of them merged into it.
type LineGroup struct {
	Center    int
	Thickness int
}

// Structure holds the detected separator lines of a canonical grid image,
// one set per axis. A fully visible 9x9 grid yields 10 groups per axis.
type Structure struct {
	Horizontal []LineGroup
	Vertical   []LineGroup
}

// Reliable reports whether enough separator lines were found on both
// axes for line-based cell extraction.
func (s Structure) Reliable(minGroups int) bool {
	return len(s.Horizontal) >= minGroups && len(s.Vertical) >= minGroups
}

// LineThickness returns the largest group thickness across both axes,
// used as the inset when cropping inside detected lines.
func (s Structure) LineThickness() int {
	thickness := 1
	for _, g := range s.Horizontal {
		if g.Thickness > thickness {
			thickness = g.Thickness
		}
	}
	for _, g := range s.Vertical {
		if g.Thickness > thickness {
			thickness = g.Thickness
		}
	}
	return thickness
}

// AnalyzeStructure locates separator lines from dark-pixel density
// profiles: a row or column whose dark count exceeds LineFlagFactor
// times the axis mean is flagged, and consecutive flagged positions
// (gap <= LineGroupGap) merge into one group.
func AnalyzeStructure(grid gocv.Mat, p Params) Structure {
	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(grid, &dark, p.BinarizeThreshold, 255, gocv.ThresholdBinaryInv)

	rows, cols := dark.Rows(), dark.Cols()

	rowCounts := make([]float64, rows)
	for y := 0; y < rows; y++ {
		strip := dark.RowRange(y, y+1)
		rowCounts[y] = float64(gocv.CountNonZero(strip))
		strip.Close()
	}

	colCounts := make([]float64, cols)
	for x := 0; x < cols; x++ {
		strip := dark.ColRange(x, x+1)
		colCounts[x] = float64(gocv.CountNonZero(strip))
		strip.Close()
	}

	return Structure{
		Horizontal: groupFlagged(flagDense(rowCounts, p.LineFlagFactor), p.LineGroupGap),
		Vertical:   groupFlagged(flagDense(colCounts, p.LineFlagFactor), p.LineGroupGap),
	}
}

// flagDense returns the positions whose count exceeds factor times the
// mean of the profile.
func flagDense(counts []float64, factor float64) []int {
	if len(counts) == 0 {
		return nil
	}
	mean := stat.Mean(counts, nil)
	var flagged []int
	for i, c := range counts {
		if c > mean*factor {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

// groupFlagged merges flagged positions within gap pixels of each other
// into line groups with a mean center and a thickness.
func groupFlagged(flagged []int, gap int) []LineGroup {
	if len(flagged) == 0 {
		return nil
	}

	var groups []LineGroup
	start := 0
	for i := 1; i <= len(flagged); i++ {
		if i < len(flagged) && flagged[i]-flagged[i-1] <= gap {
			continue
		}
		run := flagged[start:i]
		sum := 0
		for _, pos := range run {
			sum += pos
		}
		groups = append(groups, LineGroup{
			Center:    sum / len(run),
			Thickness: len(run),
		})
		start = i
	}
	return groups
}
