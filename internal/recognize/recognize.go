// Package recognize classifies normalized cell images as empty or as a
// digit 1-9, fusing a learned glyph recognizer with template matching and
// falling back to enhanced recovery for stubborn cells.
package recognize

import (
	"gocv.io/x/gocv"
)

// DigitAlphabet restricts recognition to the nine sudoku digits.
const DigitAlphabet = "123456789"

// SensitivityProfile selects how aggressively the learned recognizer
// segments a cell. The strict profile is tried first; the relaxed one is
// the fallback when it finds nothing.
type SensitivityProfile int

const (
	ProfileStrict SensitivityProfile = iota
	ProfileRelaxed
)

// Glyph is one ranked candidate reading from a recognizer.
type Glyph struct {
	Digit      int
	Confidence float64
}

// GlyphRecognizer is the narrow interface to the learned text-recognition
// capability. Implementations must be reentrant and must support at least
// the two sensitivity profiles above.
type GlyphRecognizer interface {
	RecognizeGlyphs(cell gocv.Mat, alphabet string, profile SensitivityProfile) ([]Glyph, error)
}

// Detection is the final per-cell classification.
type Detection struct {
	Digit      int      `json:"digit"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
	Row        int      `json:"row"`
	Col        int      `json:"col"`
}

// Method tags recorded in Detection.Sources.
const (
	SourceTesseract      = "tesseract"
	SourceTemplate       = "template"
	SourceEmpty          = "empty_detection"
	SourceEnhanced       = "enhanced_recovery"
	SourceNone           = "no_detection"
	SourceRuleValidation = "rule_validation"
)
