// Package risk holds the scoring formulas. All functions are pure.
package risk

import (
	"errors"

	"threat-tracker/internal/models"
)

const (
	ScaleMin = 1
	ScaleMax = 5

	// MaxScore is the highest score a single threat can reach.
	MaxScore = ScaleMax * ScaleMax
)

// ErrNoData is returned when an aggregate is requested over zero threats.
var ErrNoData = errors.New("no data to score")

// Score returns impact * likelihood. Inputs are not validated; callers
// check InScale first.
func Score(impact, likelihood int) int {
	return impact * likelihood
}

// InScale reports whether v lies in [ScaleMin, ScaleMax].
func InScale(v int) bool {
	return v >= ScaleMin && v <= ScaleMax
}

// Percentage returns 100 * total / maxTotal.
func Percentage(total, maxTotal int) (float64, error) {
	if maxTotal == 0 {
		return 0, ErrNoData
	}
	return 100 * float64(total) / float64(maxTotal), nil
}

// Aggregate returns the risk percentage of a set of records, normalised
// against len(records) * MaxScore.
func Aggregate(records []models.ThreatRecord) (float64, error) {
	total := 0
	for _, r := range records {
		total += r.RiskScore
	}
	return Percentage(total, len(records)*MaxScore)
}
