package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuseNoCandidates(t *testing.T) {
	digit, confidence, sources := Fuse(nil)

	assert.Equal(t, 0, digit)
	assert.Equal(t, 0.0, confidence)
	assert.Equal(t, []string{SourceNone}, sources)
}

func TestFuseTrustsConfidentPrimary(t *testing.T) {
	digit, confidence, sources := Fuse([]Candidate{
		{Digit: 7, Confidence: 0.8, Source: SourceTesseract},
		{Digit: 2, Confidence: 0.95, Source: SourceTemplate},
	})

	// The learned recognizer above the trust threshold wins outright,
	// even against a higher-confidence template match.
	assert.Equal(t, 7, digit)
	assert.InDelta(t, 0.8*1.1, confidence, 1e-9)
	assert.Equal(t, []string{SourceTesseract}, sources)
}

func TestFusePrimaryBoostIsCapped(t *testing.T) {
	_, confidence, _ := Fuse([]Candidate{
		{Digit: 4, Confidence: 0.97, Source: SourceTesseract},
	})

	assert.Equal(t, 0.99, confidence)
}

func TestFuseAgreementBoost(t *testing.T) {
	digit, confidence, sources := Fuse([]Candidate{
		{Digit: 5, Confidence: 0.5, Source: SourceTesseract},
		{Digit: 5, Confidence: 0.7, Source: SourceTemplate},
	})

	assert.Equal(t, 5, digit)
	assert.InDelta(t, 0.6*1.2, confidence, 1e-9) // average of 0.5/0.7, boosted
	assert.ElementsMatch(t, []string{SourceTesseract, SourceTemplate}, sources)
}

func TestFuseAgreementBoostIsCapped(t *testing.T) {
	// No learned-recognizer candidate, so the vote path runs even at
	// high confidence.
	_, confidence, _ := Fuse([]Candidate{
		{Digit: 5, Confidence: 0.9, Source: SourceTemplate},
		{Digit: 5, Confidence: 0.95, Source: SourceEnhanced},
	})

	assert.Equal(t, 0.99, confidence)
}

func TestFuseSingleMethodPenalty(t *testing.T) {
	digit, confidence, sources := Fuse([]Candidate{
		{Digit: 3, Confidence: 0.5, Source: SourceTemplate},
	})

	assert.Equal(t, 3, digit)
	assert.InDelta(t, 0.5*0.9, confidence, 1e-9)
	assert.Equal(t, []string{SourceTemplate}, sources)
}

func TestFuseWeakPrimaryJoinsTheVote(t *testing.T) {
	digit, _, sources := Fuse([]Candidate{
		{Digit: 6, Confidence: 0.4, Source: SourceTesseract},
		{Digit: 6, Confidence: 0.6, Source: SourceTemplate},
	})

	assert.Equal(t, 6, digit)
	assert.ElementsMatch(t, []string{SourceTesseract, SourceTemplate}, sources)
}

func TestFuseTieBreaksOnSummedConfidence(t *testing.T) {
	digit, _, _ := Fuse([]Candidate{
		{Digit: 2, Confidence: 0.3, Source: SourceTesseract},
		{Digit: 8, Confidence: 0.55, Source: SourceTemplate},
	})

	// One vote each; 8 carries more confidence.
	assert.Equal(t, 8, digit)
}
