// Package vision turns a raw puzzle photograph into 81 normalized cell
// images: preprocessing, grid localization with perspective correction,
// separator-line structure analysis, and cell extraction.
package vision

// Params holds the tunable constants of the geometric pipeline.
type Params struct {
	// CanonicalSize is the side length of the perspective-corrected
	// square grid image.
	CanonicalSize int

	// CellSize is the side length of a normalized cell image.
	CellSize int

	// MinGridArea is the minimum contour area (px^2) for a candidate
	// grid quadrilateral.
	MinGridArea float64

	// LineFlagFactor flags a row/column as a grid-line sample when its
	// dark-pixel count exceeds this multiple of the axis mean.
	LineFlagFactor float64

	// LineGroupGap is the maximum pixel gap between flagged positions
	// merged into one line group.
	LineGroupGap int

	// MinLineGroups is the per-axis line-group count below which the
	// detected structure is considered unreliable.
	MinLineGroups int

	// CellMargin is the fixed inset (px) applied inside detected
	// separator lines when cropping line-based cells.
	CellMargin int

	// EdgeSlack is how close (px) the outermost detected line must sit
	// to the image edge before a boundary line is synthesized there.
	EdgeSlack int

	// CenterBias shifts the crop centers of the two outermost rows and
	// columns inward (px) to dodge residual border contamination.
	CenterBias int

	// CropFraction is the fraction of the cell size cropped around the
	// (possibly biased) center in the uniform strategy.
	CropFraction float64

	// BinarizeThreshold separates dark from light when normalizing cells.
	BinarizeThreshold float32
}

// DefaultParams returns the pipeline constants tuned for typical
// photographed or scanned newspaper-style grids.
func DefaultParams() Params {
	return Params{
		CanonicalSize:     450,
		CellSize:          100,
		MinGridArea:       10000,
		LineFlagFactor:    2.0,
		LineGroupGap:      3,
		MinLineGroups:     8,
		CellMargin:        2,
		EdgeSlack:         5,
		CenterBias:        6,
		CropFraction:      0.8,
		BinarizeThreshold: 127,
	}
}
