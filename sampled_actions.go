package cfr

import (
	"cmp"
	"math"
	"slices"
)

const (
	minSampleRate = 0.1
	maxSampleRate = 1.0

	// Slack for float error in n*rate, so that e.g. 10*0.7 samples 7.
	sampleSizeTol = 1e-9
)

func clampSampleRate(rate float64) float64 {
	return math.Max(minSampleRate, math.Min(maxSampleRate, rate))
}

// sampleSize returns how many of n actions are traversed at the given rate.
func sampleSize(n int, rate float64) int {
	k := int(math.Ceil(float64(n)*rate - sampleSizeTol))
	return max(1, min(k, n))
}

// rankActions fills idx with action indices ordered by descending weight
// in strategy. Ties keep action order.
func rankActions(idx []int, strategy []float64) {
	for i := range idx {
		idx[i] = i
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(strategy[b], strategy[a])
	})
}
