package cfr

import (
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// newRand returns a random source for a single trainer. Trainers never
// share a source, so each traversal goroutine owns its own handle.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rand.Int63()
	}

	src := mt19937.New()
	src.Seed(seed)
	return rand.New(src)
}
