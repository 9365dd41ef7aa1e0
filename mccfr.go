package cfr

import (
	"context"
	"math/rand"
	"slices"

	"github.com/golang/glog"
)

// MCCFRTrainer implements a sampled variant of CFR+. At each player node
// only the ceil(n*sampleRate) actions with the highest current strategy
// weight are traversed; the others contribute nothing to the node value
// or to the update on that visit.
//
// Selecting the top actions deterministically, rather than sampling them
// in proportion to the strategy, biases the regret estimates. With a
// sample rate of 1 it is equivalent to Trainer.
type MCCFRTrainer[S State, A any, K comparable] struct {
	// Nodes holds the accumulated regrets and strategies for every
	// information set visited so far.
	Nodes NodeTable[K]

	game       Game[S, A, K]
	params     Params
	sampleRate float64
	iter       int
	rng        *rand.Rand

	floatPool *slicePool[float64]
	idxPool   *slicePool[int]
}

// NewMCCFR returns an MCCFRTrainer with an empty node table.
// The sample rate is clamped to [0.1, 1.0].
func NewMCCFR[S State, A any, K comparable](game Game[S, A, K], sampleRate float64, params Params) *MCCFRTrainer[S, A, K] {
	return &MCCFRTrainer[S, A, K]{
		Nodes:      make(NodeTable[K]),
		game:       game,
		params:     params,
		sampleRate: clampSampleRate(sampleRate),
		rng:        newRand(params.Seed),
		floatPool:  &slicePool[float64]{},
		idxPool:    &slicePool[int]{},
	}
}

// SampleRate returns the (clamped) fraction of actions traversed per node.
func (c *MCCFRTrainer[S, A, K]) SampleRate() float64 {
	return c.sampleRate
}

// Run performs the given number of training iterations. Each iteration
// walks every root once from the point of view of every player.
func (c *MCCFRTrainer[S, A, K]) Run(roots []S, iterations int) {
	_ = c.RunContext(context.Background(), roots, iterations)
}

// RunContext is like Run but stops early, returning ctx.Err(),
// if ctx is cancelled between iterations.
func (c *MCCFRTrainer[S, A, K]) RunContext(ctx context.Context, roots []S, iterations int) error {
	glog.Infof("MCCFR training: %d roots, %d iterations, %.1f%% sampling",
		len(roots), iterations, c.sampleRate*100)
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, root := range roots {
			for hero := 0; hero < c.game.NumPlayers(); hero++ {
				c.runHelper(root, hero, 1.0, 0)
			}
		}

		c.iter++
		if i%100 == 0 {
			glog.V(1).Infof("[iter=%d/%d] %d infosets", i+1, iterations, c.Nodes.Len())
		}
	}

	glog.Infof("MCCFR training finished: %d infosets", c.Nodes.Len())
	return nil
}

// Traverse performs a single sampled walk from state with the given hero,
// updating the hero's nodes, and returns the hero's estimated utility.
func (c *MCCFRTrainer[S, A, K]) Traverse(state S, hero int) float64 {
	return c.runHelper(state, hero, 1.0, 0)
}

// Iter returns the number of completed training iterations.
func (c *MCCFRTrainer[S, A, K]) Iter() int {
	return c.iter
}

// GetStrategy returns the average strategy for the given information set,
// or nil if it has never been visited.
func (c *MCCFRTrainer[S, A, K]) GetStrategy(key K) []float64 {
	node, ok := c.Nodes.Lookup(key)
	if !ok {
		return nil
	}

	return node.Average()
}

// AverageStrategy returns the average strategy of player at state.
// Information sets that were never visited get a uniform strategy.
func (c *MCCFRTrainer[S, A, K]) AverageStrategy(state S, player int) []float64 {
	return averageStrategy(c.game, c.Nodes, state, player)
}

func (c *MCCFRTrainer[S, A, K]) runHelper(state S, hero int, reachP float64, depth int) float64 {
	if depth > c.params.MaxDepth {
		return 0.0
	}

	if player, ok := c.game.CurrentPlayer(state); ok {
		return c.handlePlayerNode(state, player, hero, reachP, depth)
	} else if state.IsTerminal() {
		return c.game.Utility(state, hero)
	}

	return c.handleChanceNode(state, hero, reachP, depth)
}

func (c *MCCFRTrainer[S, A, K]) handleChanceNode(state S, hero int, reachP float64, depth int) float64 {
	child := c.game.ApplyChance(state, c.rng)
	return c.runHelper(child, hero, reachP, depth+1)
}

func (c *MCCFRTrainer[S, A, K]) handlePlayerNode(state S, player, hero int, reachP float64, depth int) float64 {
	actions := c.game.LegalActions(state)
	nActions := len(actions)
	if nActions == 0 {
		return c.game.Utility(state, hero)
	}

	node := c.Nodes.getOrCreate(c.game.InfoKey(state, player), nActions)
	strategy := node.Strategy()

	sampled := c.idxPool.alloc(nActions)
	defer c.idxPool.free(sampled)
	rankActions(sampled, strategy)
	sampled = sampled[:sampleSize(nActions, c.sampleRate)]
	// Ranking only selects the subset. Children are walked in action order
	// so that an infoset reached twice in one walk sees the same partial
	// updates as it would under Trainer.
	slices.Sort(sampled)

	utils := c.floatPool.alloc(nActions)
	defer c.floatPool.free(utils)
	var nodeUtil float64
	for _, i := range sampled {
		child := c.game.NextState(state, actions[i])
		utils[i] = c.runHelper(child, hero, reachP*strategy[i], depth+1)
		nodeUtil += strategy[i] * utils[i]
	}

	if player == hero {
		for _, i := range sampled {
			node.AddRegret(i, reachP*(utils[i]-nodeUtil))
			node.AddStrategyWeight(i, reachP*strategy[i])
		}
	}

	return nodeUtil
}
