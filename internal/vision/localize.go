package vision

import (
	"image"

	"sudoku-reader/pkg/geometry"

	"gocv.io/x/gocv"
)

// LocalizeResult holds the perspective-corrected grid image. When no grid
// contour qualifies, Canonical is a copy of the input and GridDetected is
// false; localization never fails.
type LocalizeResult struct {
	Canonical    gocv.Mat
	GridDetected bool
	Corners      []geometry.Point2D // TL, TR, BR, BL when detected
}

// LocalizeGrid finds the puzzle's quadrilateral boundary in a binary
// image and warps it to a canonical square. The caller closes
// result.Canonical.
func LocalizeGrid(binary gocv.Mat, p Params) LocalizeResult {
	corners := findGridQuad(binary, p.MinGridArea)
	if corners == nil {
		return LocalizeResult{Canonical: binary.Clone(), GridDetected: false}
	}

	ordered := orderCorners(corners)
	warped := warpToSquare(binary, ordered, p.CanonicalSize)
	return LocalizeResult{Canonical: warped, GridDetected: true, Corners: ordered}
}

// findGridQuad returns the vertices of the largest external contour that
// approximates to a 4-vertex polygon above the area floor, or nil.
func findGridQuad(binary gocv.Mat, minArea float64) []geometry.Point2D {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best []geometry.Point2D
	var bestArea float64

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= bestArea || area < minArea {
			continue
		}

		epsilon := 0.02 * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)
		if approx.Size() == 4 {
			bestArea = area
			best = make([]geometry.Point2D, 4)
			for j := 0; j < 4; j++ {
				pt := approx.At(j)
				best[j] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
			}
		}
		approx.Close()
	}

	return best
}

// orderCorners orders four quadrilateral vertices as TL, TR, BR, BL.
// The top-left corner minimizes x+y, the bottom-right maximizes it; the
// top-right maximizes x-y, the bottom-left minimizes it.
func orderCorners(pts []geometry.Point2D) []geometry.Point2D {
	tl, tr, br, bl := pts[0], pts[0], pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.Sum() < tl.Sum() {
			tl = p
		}
		if p.Sum() > br.Sum() {
			br = p
		}
		if p.Diff() > tr.Diff() {
			tr = p
		}
		if p.Diff() < bl.Diff() {
			bl = p
		}
	}
	return []geometry.Point2D{tl, tr, br, bl}
}

// warpToSquare computes the homography from the ordered corners to a
// size×size square and warps the image. The caller closes the result.
func warpToSquare(img gocv.Mat, corners []geometry.Point2D, size int) gocv.Mat {
	src := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: float32(corners[0].X), Y: float32(corners[0].Y)},
		{X: float32(corners[1].X), Y: float32(corners[1].Y)},
		{X: float32(corners[2].X), Y: float32(corners[2].Y)},
		{X: float32(corners[3].X), Y: float32(corners[3].Y)},
	})
	defer src.Close()

	s := float32(size - 1)
	dst := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	})
	defer dst.Close()

	m := gocv.GetPerspectiveTransform2f(src, dst)
	defer m.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(img, &warped, m, image.Point{X: size, Y: size})
	return warped
}
