// Package credibility renders externally supplied source evaluations as
// a five-unit star scale and provides a heuristic fallback evaluator.
package credibility

import (
	"math"
	"strings"
)

const (
	FilledStar = "★"
	EmptyStar  = "☆"
)

// Filled converts a credibility score in [0,1] to a filled-star count,
// rounded and clamped to [0,5].
func Filled(score float64) int {
	n := int(math.Round(score * 5))
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

// Render renders a score as a fixed five-unit star string
func Render(score float64) string {
	filled := Filled(score)
	return strings.Repeat(FilledStar, filled) + strings.Repeat(EmptyStar, 5-filled)
}
