package recognize

import (
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"
)

const (
	templateWidth  = 30
	templateHeight = 40

	// matchFloor rejects weak correlations; below it the matcher
	// reports no candidate at all.
	matchFloor = 0.5
)

// TemplateMatcher recognizes digits by normalized cross-correlation
// against nine rendered reference glyphs. The template set is immutable
// after construction and safe to share.
type TemplateMatcher struct {
	templates map[int]gocv.Mat
}

// NewTemplateMatcher renders the reference glyphs. Hershey Duplex is the
// closest built-in face to common printed puzzle fonts.
func NewTemplateMatcher() *TemplateMatcher {
	templates := make(map[int]gocv.Mat, 9)
	for digit := 1; digit <= 9; digit++ {
		templates[digit] = renderGlyph(digit)
	}
	return &TemplateMatcher{templates: templates}
}

// Close releases the template images.
func (m *TemplateMatcher) Close() {
	for _, t := range m.templates {
		t.Close()
	}
	m.templates = nil
}

// Match correlates a normalized cell against the reference glyphs and
// returns the best reading, or ok=false when no score clears the floor.
func (m *TemplateMatcher) Match(cell gocv.Mat) (Glyph, bool) {
	if cell.Empty() {
		return Glyph{}, false
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(cell, &resized, image.Point{X: templateWidth, Y: templateHeight}, 0, 0, gocv.InterpolationCubic)

	// Templates are light-on-dark; flip the cell to match.
	if resized.Mean().Val1 > 127 {
		gocv.BitwiseNot(resized, &resized)
	}

	best := Glyph{}
	for digit, tmpl := range m.templates {
		score := correlate(resized, tmpl)
		if score > best.Confidence {
			best = Glyph{Digit: digit, Confidence: score}
		}
	}

	if best.Confidence <= matchFloor {
		return Glyph{}, false
	}
	return best, true
}

// correlate returns the peak TM_CCOEFF_NORMED score of template against
// the cell.
func correlate(cell, tmpl gocv.Mat) float64 {
	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(cell, tmpl, &result, gocv.TmCcoeffNormed, mask)
	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal)
}

// renderGlyph draws one digit centered on a white canvas and inverts it.
func renderGlyph(digit int) gocv.Mat {
	tmpl := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0),
		templateHeight, templateWidth, gocv.MatTypeCV8UC1)

	text := strconv.Itoa(digit)
	size := gocv.GetTextSize(text, gocv.FontHersheyDuplex, 1.2, 2)
	org := image.Point{
		X: (templateWidth - size.X) / 2,
		Y: (templateHeight + size.Y) / 2,
	}
	gocv.PutText(&tmpl, text, org, gocv.FontHersheyDuplex, 1.2, color.RGBA{}, 2)

	gocv.BitwiseNot(tmpl, &tmpl)
	return tmpl
}
