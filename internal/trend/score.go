// Package trend computes trend scores from interest sample series.
package trend

import "math"

// Direction classifies a trend score for display.
type Direction int

const (
	Flat Direction = iota
	Rising
	Falling
)

// directionThreshold is the absolute score above which a trend is
// considered rising or falling rather than flat.
const directionThreshold = 10

// Score computes the trend score for a chronologically ordered series of
// interest samples (oldest first). The score is the percentage change of
// the latest sample relative to a baseline taken as the mean of the first
// half of the series (floor(n/2) samples, minimum 1).
//
// When the baseline is zero the raw current value is returned instead of a
// percentage. That conflates "no prior signal" with a percentage, but
// ranking of newly tracked keywords depends on it. A single-sample series
// always scores 0.
//
// The result is rounded to one decimal place. An empty series scores 0.
func Score(samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}

	current := float64(samples[len(samples)-1])

	window := len(samples) / 2
	if window < 1 {
		window = 1
	}
	sum := 0.0
	for _, v := range samples[:window] {
		sum += float64(v)
	}
	baseline := sum / float64(window)

	var score float64
	if baseline > 0 {
		score = (current - baseline) / baseline * 100
	} else {
		score = current
	}

	return math.Round(score*10) / 10
}

// ClassifyScore buckets a score into a direction: above +10 rising, below
// -10 falling, otherwise flat.
func ClassifyScore(score float64) Direction {
	switch {
	case score > directionThreshold:
		return Rising
	case score < -directionThreshold:
		return Falling
	default:
		return Flat
	}
}
