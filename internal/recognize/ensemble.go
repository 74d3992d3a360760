package recognize

import (
	"image"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const (
	// EmptyDarkRatio classifies a cell as empty when its dark-pixel
	// fraction is below it. The boundary is inclusive on the
	// has-content side: exactly this ratio is not empty.
	EmptyDarkRatio = 0.005

	// recoveryFloor is the minimum confidence accepted from the
	// enhanced-recovery rerun.
	recoveryFloor = 0.3

	// normalizedCellSize is the side length of a normalized cell image,
	// matching the cell extractor's output resolution.
	normalizedCellSize = 100
)

// Ensemble fuses the learned recognizer and the template matcher into a
// per-cell classification, with enhanced recovery as the fallback.
type Ensemble struct {
	recognizer GlyphRecognizer
	matcher    *TemplateMatcher
	log        *zap.Logger
}

// NewEnsemble builds an ensemble around a glyph recognizer. A nil logger
// keeps the ensemble quiet.
func NewEnsemble(recognizer GlyphRecognizer, log *zap.Logger) *Ensemble {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{
		recognizer: recognizer,
		matcher:    NewTemplateMatcher(),
		log:        log,
	}
}

// Close releases the template set. The recognizer is owned by the caller.
func (e *Ensemble) Close() {
	e.matcher.Close()
}

// RecognizeCell classifies one normalized cell image.
func (e *Ensemble) RecognizeCell(cell gocv.Mat, row, col int) Detection {
	ratio := DarkRatio(cell)
	if ratio < EmptyDarkRatio {
		return Detection{Digit: 0, Confidence: 1.0, Sources: []string{SourceEmpty}, Row: row, Col: col}
	}

	var candidates []Candidate
	if c, ok := e.Primary(cell); ok {
		candidates = append(candidates, c)
	}
	if c, ok := e.Template(cell); ok {
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		// Non-trivial dark content but nothing recognized: try the
		// enhanced image before giving up.
		if ratio > EmptyDarkRatio {
			if c, ok := e.Enhanced(cell); ok {
				e.log.Debug("enhanced recovery succeeded",
					zap.Int("row", row), zap.Int("col", col),
					zap.Int("digit", c.Digit), zap.Float64("confidence", c.Confidence))
				return Detection{Digit: c.Digit, Confidence: c.Confidence,
					Sources: []string{SourceEnhanced}, Row: row, Col: col}
			}
		}
		return Detection{Digit: 0, Confidence: 0, Sources: []string{SourceNone}, Row: row, Col: col}
	}

	digit, confidence, sources := Fuse(candidates)
	return Detection{Digit: digit, Confidence: confidence, Sources: sources, Row: row, Col: col}
}

// Primary runs the learned recognizer on a cell, retrying once with the
// relaxed sensitivity profile when the strict pass finds nothing.
func (e *Ensemble) Primary(cell gocv.Mat) (Candidate, bool) {
	glyphs, err := e.recognizer.RecognizeGlyphs(cell, DigitAlphabet, ProfileStrict)
	if err != nil {
		e.log.Warn("glyph recognition failed", zap.Error(err))
		return Candidate{}, false
	}
	if len(glyphs) == 0 {
		glyphs, err = e.recognizer.RecognizeGlyphs(cell, DigitAlphabet, ProfileRelaxed)
		if err != nil || len(glyphs) == 0 {
			return Candidate{}, false
		}
	}
	best := glyphs[0]
	return Candidate{Digit: best.Digit, Confidence: best.Confidence, Source: SourceTesseract}, true
}

// Template runs the template matcher on a cell.
func (e *Ensemble) Template(cell gocv.Mat) (Candidate, bool) {
	g, ok := e.matcher.Match(cell)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{Digit: g.Digit, Confidence: g.Confidence, Source: SourceTemplate}, true
}

// Enhanced reruns both recognizers on a histogram-equalized, re-thresholded
// copy of the cell, preferring the learned recognizer, and accepts the
// first reading above the recovery floor.
func (e *Ensemble) Enhanced(cell gocv.Mat) (Candidate, bool) {
	enhanced := EnhanceCell(cell)
	defer enhanced.Close()

	if c, ok := e.Primary(enhanced); ok && c.Confidence > recoveryFloor {
		return Candidate{Digit: c.Digit, Confidence: c.Confidence, Source: SourceEnhanced}, true
	}
	if c, ok := e.Template(enhanced); ok && c.Confidence > recoveryFloor {
		return Candidate{Digit: c.Digit, Confidence: c.Confidence, Source: SourceEnhanced}, true
	}
	return Candidate{}, false
}

// DarkRatio returns the fraction of pixels darker than mid-gray.
func DarkRatio(cell gocv.Mat) float64 {
	if cell.Empty() {
		return 0
	}
	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(cell, &dark, 127, 255, gocv.ThresholdBinaryInv)
	return float64(gocv.CountNonZero(dark)) / float64(cell.Rows()*cell.Cols())
}

// EnhanceCell histogram-equalizes a cell, re-thresholds it with Otsu's
// method, and renormalizes to the standard resolution and polarity.
// The caller closes the result.
func EnhanceCell(cell gocv.Mat) gocv.Mat {
	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(cell, &equalized)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(equalized, &thresh, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	enhanced := gocv.NewMat()
	gocv.Resize(thresh, &enhanced, image.Point{X: normalizedCellSize, Y: normalizedCellSize}, 0, 0, gocv.InterpolationCubic)

	// Renormalize polarity: digits dark on light.
	if enhanced.Mean().Val1 < 127 {
		gocv.BitwiseNot(enhanced, &enhanced)
	}
	return enhanced
}
