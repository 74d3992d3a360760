package recognize

// Candidate is one method's reading of a cell, tagged with its source.
type Candidate struct {
	Digit      int
	Confidence float64
	Source     string
}

// Fusion constants. The learned recognizer is trusted outright above
// primaryTrust; otherwise methods vote and agreement is rewarded.
const (
	primaryTrust        = 0.6
	primaryBoost        = 1.1
	agreementBoost      = 1.2
	singleMethodPenalty = 0.9
	confidenceCap       = 0.99
)

// Fuse reduces ranked candidates from independent methods to a single
// decision. The rules apply in order:
//
//  1. No candidates: empty with zero confidence.
//  2. A learned-recognizer candidate above primaryTrust wins outright,
//     confidence boosted by primaryBoost (capped).
//  3. Otherwise per-digit votes across all candidates decide; ties break
//     on summed confidence. Two or more agreeing methods boost the
//     average confidence by agreementBoost (capped); a lone method takes
//     the singleMethodPenalty.
//
// Pure function: no image access, independently testable.
func Fuse(candidates []Candidate) (digit int, confidence float64, sources []string) {
	if len(candidates) == 0 {
		return 0, 0, []string{SourceNone}
	}

	for _, c := range candidates {
		if c.Source == SourceTesseract && c.Confidence > primaryTrust {
			return c.Digit, capConfidence(c.Confidence * primaryBoost), []string{SourceTesseract}
		}
	}

	type tally struct {
		votes   int
		confSum float64
		sources []string
	}
	tallies := make(map[int]*tally)
	for _, c := range candidates {
		t := tallies[c.Digit]
		if t == nil {
			t = &tally{}
			tallies[c.Digit] = t
		}
		t.votes++
		t.confSum += c.Confidence
		t.sources = append(t.sources, c.Source)
	}

	var winner *tally
	for d := 1; d <= 9; d++ {
		t := tallies[d]
		if t == nil {
			continue
		}
		if winner == nil || t.votes > winner.votes ||
			(t.votes == winner.votes && t.confSum > winner.confSum) {
			winner = t
			digit = d
		}
	}

	avg := winner.confSum / float64(winner.votes)
	if winner.votes >= 2 {
		confidence = capConfidence(avg * agreementBoost)
	} else {
		confidence = avg * singleMethodPenalty
	}
	return digit, confidence, winner.sources
}

func capConfidence(c float64) float64 {
	if c > confidenceCap {
		return confidenceCap
	}
	return c
}
