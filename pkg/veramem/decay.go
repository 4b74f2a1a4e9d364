package veramem

import (
	"log/slog"
	"math"
	"time"
)

// applyDecay attenuates a dated chunk's score by exponential age decay:
// score * exp(-ln2/halfLife * ageDays). Undated chunks pass through untouched;
// curated evergreen knowledge must not fade just because it lacks a timestamp.
// A future date clamps to zero age (no decay) with a warning instead of
// producing a boost or an error.
func applyDecay(score float64, date *time.Time, reference time.Time, halfLifeDays float64) float64 {
	if date == nil || halfLifeDays <= 0 {
		return score
	}

	ageDays := reference.Sub(*date).Hours() / 24
	if ageDays < 0 {
		slog.Warn("chunk dated in the future, skipping decay",
			"date", date.Format("2006-01-02"), "reference", reference.Format("2006-01-02"))
		ageDays = 0
	}

	lambda := math.Ln2 / halfLifeDays
	return score * math.Exp(-lambda*ageDays)
}
