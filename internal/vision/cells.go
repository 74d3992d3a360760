package vision

import (
	"image"
	"sort"

	"sudoku-reader/pkg/geometry"

	"gocv.io/x/gocv"
)

// ExtractCells crops and normalizes the 81 cells of a canonical grid
// image. It picks the line-based strategy when the detected structure is
// reliable and falls back to uniform division otherwise. Every returned
// cell is a CellSize×CellSize single-channel image with dark digits on a
// light background; an empty or invalid crop becomes a blank placeholder.
// The caller closes the cells (see CloseCells).
func ExtractCells(grid gocv.Mat, s Structure, p Params) [9][9]gocv.Mat {
	if s.Reliable(p.MinLineGroups) {
		return extractLineBased(grid, s, p)
	}
	return extractUniform(grid, p)
}

// CloseCells releases all 81 cell Mats.
func CloseCells(cells *[9][9]gocv.Mat) {
	for i := range cells {
		for j := range cells[i] {
			cells[i][j].Close()
		}
	}
}

// extractLineBased derives cell boundaries from the detected separator
// lines, inset by half the line thickness plus a fixed margin.
func extractLineBased(grid gocv.Mat, s Structure, p Params) [9][9]gocv.Mat {
	height, width := grid.Rows(), grid.Cols()

	hPos := groupCenters(s.Horizontal)
	vPos := groupCenters(s.Vertical)

	// Synthesize boundary lines at the image edges if the outermost
	// detected lines sit too far from the true edges.
	hPos = ensureEdges(hPos, height, p.EdgeSlack)
	vPos = ensureEdges(vPos, width, p.EdgeSlack)

	inset := s.LineThickness()/2 + p.CellMargin

	var cells [9][9]gocv.Mat
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			if i+1 >= len(hPos) || j+1 >= len(vPos) {
				cells[i][j] = blankCell(p)
				continue
			}
			bounds := geometry.RectInt{
				X:      vPos[j] + inset,
				Y:      hPos[i] + inset,
				Width:  vPos[j+1] - vPos[j] - 2*inset,
				Height: hPos[i+1] - hPos[i] - 2*inset,
			}.Clamp(width, height)
			cells[i][j] = normalizeCrop(grid, bounds, p)
		}
	}
	return cells
}

// extractUniform divides the image into 9 equal bands per axis and crops
// a CropFraction window around each cell center. Centers of the two
// outermost rows and columns on each side are biased inward to dodge
// residual border contamination.
func extractUniform(grid gocv.Mat, p Params) [9][9]gocv.Mat {
	height, width := grid.Rows(), grid.Cols()
	cellH := height / 9
	cellW := width / 9

	cropH := int(float64(cellH) * p.CropFraction)
	cropW := int(float64(cellW) * p.CropFraction)

	var cells [9][9]gocv.Mat
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			cy := i*cellH + cellH/2 + edgeBias(i, p.CenterBias)
			cx := j*cellW + cellW/2 + edgeBias(j, p.CenterBias)

			bounds := geometry.RectInt{
				X:      cx - cropW/2,
				Y:      cy - cropH/2,
				Width:  cropW,
				Height: cropH,
			}.Clamp(width, height)
			cells[i][j] = normalizeCrop(grid, bounds, p)
		}
	}
	return cells
}

// edgeBias biases the crop center of the two outermost rows/columns on
// each side inward, away from the grid border.
func edgeBias(index, bias int) int {
	switch {
	case index <= 1:
		return bias
	case index >= 7:
		return -bias
	default:
		return 0
	}
}

// groupCenters returns the sorted line centers of one axis.
func groupCenters(groups []LineGroup) []int {
	centers := make([]int, len(groups))
	for i, g := range groups {
		centers[i] = g.Center
	}
	sort.Ints(centers)
	return centers
}

// ensureEdges prepends/appends boundary positions when the outermost
// detected lines are more than slack pixels from the image edges.
func ensureEdges(positions []int, extent, slack int) []int {
	if len(positions) == 0 {
		return []int{0, extent - 1}
	}
	if positions[0] > slack {
		positions = append([]int{0}, positions...)
	}
	if positions[len(positions)-1] < extent-slack {
		positions = append(positions, extent-1)
	}
	return positions
}

// normalizeCrop extracts bounds from the grid and normalizes the crop to
// a fixed-size binary cell with dark digits on a light background.
func normalizeCrop(grid gocv.Mat, bounds geometry.RectInt, p Params) gocv.Mat {
	if bounds.Empty() {
		return blankCell(p)
	}

	region := grid.Region(image.Rect(bounds.X, bounds.Y, bounds.X+bounds.Width, bounds.Y+bounds.Height))
	defer region.Close()

	work := region.Clone()
	defer work.Close()
	scrubBorders(work)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(work, &resized, image.Point{X: p.CellSize, Y: p.CellSize}, 0, 0, gocv.InterpolationCubic)

	cell := gocv.NewMat()
	gocv.Threshold(resized, &cell, p.BinarizeThreshold, 255, gocv.ThresholdBinary)

	// Digits must render dark on light; invert a majority-dark cell.
	light := gocv.CountNonZero(cell)
	total := cell.Rows() * cell.Cols()
	if total-light > light {
		gocv.BitwiseNot(cell, &cell)
	}
	return cell
}

// scrubBorders wipes a one-pixel border strip only when it is a solid
// dark line, so a separator remnant does not read as digit content.
func scrubBorders(cell gocv.Mat) {
	h, w := cell.Rows(), cell.Cols()
	if h < 10 || w < 10 {
		return
	}

	strips := []gocv.Mat{
		cell.RowRange(0, 1),
		cell.RowRange(h-1, h),
		cell.ColRange(0, 1),
		cell.ColRange(w-1, w),
	}
	for _, strip := range strips {
		mean, stddev := strip.MeanStdDev()
		if mean.Val1 < 100 && stddev.Val1 < 50 {
			strip.SetTo(gocv.NewScalar(255, 255, 255, 255))
		}
		strip.Close()
	}
}

// blankCell returns an all-white placeholder cell.
func blankCell(p Params) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0),
		p.CellSize, p.CellSize, gocv.MatTypeCV8UC1)
}
