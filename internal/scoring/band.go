package scoring

// Band is a coarse priority bucket derived from a score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandFor buckets a score: 120 and above is high, 80 and above medium.
func BandFor(score float64) Band {
	switch {
	case score >= 120:
		return BandHigh
	case score >= 80:
		return BandMedium
	default:
		return BandLow
	}
}
