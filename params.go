package cfr

// Params are the configuration options for a Trainer or MCCFRTrainer.
type Params struct {
	// Walks deeper than MaxDepth return zero utility. This bounds the
	// recursion on games whose betting can repeat indefinitely; strategies
	// near the cutoff are not reliable.
	MaxDepth int
	// Seed for the trainer's random source, used at chance nodes.
	// Zero picks a random seed.
	Seed int64
}

// DefaultParams returns the parameters used by the exhaustive Trainer.
func DefaultParams() Params {
	return Params{MaxDepth: 15}
}

// DefaultMCCFRParams returns the parameters used by the MCCFRTrainer.
// Sampling reduces the branching factor, so the walk may go deeper.
func DefaultMCCFRParams() Params {
	return Params{MaxDepth: 50}
}
