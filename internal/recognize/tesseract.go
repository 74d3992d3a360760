package recognize

import (
	"fmt"
	"image"
	"sort"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// ocrUpscaleSize is the strict-profile upscale; Tesseract segments small
// isolated glyphs better above the native cell resolution.
const ocrUpscaleSize = 120

// Engine is the Tesseract-backed GlyphRecognizer. A single Engine is
// safe to share: the underlying client is serialized with a mutex, so
// calls are reentrant even though Tesseract itself is stateful.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates a Tesseract engine configured for isolated digits.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}

	// Digits are not dictionary words; dictionary correction only
	// hurts here.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("classify_bln_numeric_mode", "1")

	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// RecognizeGlyphs runs Tesseract on a normalized cell image, restricted
// to the given alphabet, and returns candidate readings ranked by
// confidence. The strict profile assumes a single isolated character;
// the relaxed profile uses block segmentation with lighter preprocessing
// and picks up digits the strict pass rejects.
func (e *Engine) RecognizeGlyphs(cell gocv.Mat, alphabet string, profile SensitivityProfile) ([]Glyph, error) {
	if cell.Empty() {
		return nil, fmt.Errorf("recognize glyphs: empty image")
	}

	prepared := prepareForOCR(cell, profile)
	defer prepared.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, prepared)
	if err != nil {
		return nil, fmt.Errorf("encode cell: %w", err)
	}
	defer buf.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, fmt.Errorf("recognize glyphs: engine closed")
	}

	psm := gosseract.PSM_SINGLE_CHAR
	if profile == ProfileRelaxed {
		psm = gosseract.PSM_SINGLE_BLOCK
	}
	if err := e.client.SetPageSegMode(psm); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := e.client.SetWhitelist(alphabet); err != nil {
		return nil, fmt.Errorf("set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	var glyphs []Glyph
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if len(word) != 1 || !strings.Contains(alphabet, word) {
			continue
		}
		glyphs = append(glyphs, Glyph{
			Digit:      int(word[0] - '0'),
			Confidence: box.Confidence / 100,
		})
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Confidence > glyphs[j].Confidence
	})
	return glyphs, nil
}

// prepareForOCR upscales a cell for Tesseract and converts it to the BGR
// layout the client expects. The caller closes the result.
func prepareForOCR(cell gocv.Mat, profile SensitivityProfile) gocv.Mat {
	scaled := gocv.NewMat()
	defer scaled.Close()

	if profile == ProfileRelaxed {
		// Lighter preprocessing: native resolution plus a mild blur to
		// soften binarization artifacts.
		gocv.Resize(cell, &scaled, image.Point{X: normalizedCellSize, Y: normalizedCellSize}, 0, 0, gocv.InterpolationCubic)
		gocv.GaussianBlur(scaled, &scaled, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)
	} else {
		gocv.Resize(cell, &scaled, image.Point{X: ocrUpscaleSize, Y: ocrUpscaleSize}, 0, 0, gocv.InterpolationCubic)
	}

	if scaled.Channels() > 1 {
		return scaled.Clone()
	}
	out := gocv.NewMat()
	gocv.CvtColor(scaled, &out, gocv.ColorGrayToBGR)
	return out
}
