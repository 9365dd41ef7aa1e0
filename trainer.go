package cfr

import (
	"context"
	"math/rand"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// Trainer implements CFR+ by walking the full width of the game tree
// at every player node. Chance nodes are sampled once per visit.
//
// Trainer is not safe for concurrent use. See TrainParallel to train
// independent shards concurrently.
type Trainer[S State, A any, K comparable] struct {
	// Nodes holds the accumulated regrets and strategies for every
	// information set visited so far.
	Nodes NodeTable[K]

	game   Game[S, A, K]
	params Params
	iter   int
	rng    *rand.Rand

	floatPool *slicePool[float64]
}

// NewTrainer returns a Trainer with an empty node table.
func NewTrainer[S State, A any, K comparable](game Game[S, A, K], params Params) *Trainer[S, A, K] {
	return &Trainer[S, A, K]{
		Nodes:     make(NodeTable[K]),
		game:      game,
		params:    params,
		rng:       newRand(params.Seed),
		floatPool: &slicePool[float64]{},
	}
}

// Run performs the given number of training iterations. Each iteration
// walks every root once from the point of view of every player.
func (t *Trainer[S, A, K]) Run(roots []S, iterations int) {
	_ = t.RunContext(context.Background(), roots, iterations)
}

// RunContext is like Run but stops early, returning ctx.Err(),
// if ctx is cancelled between iterations.
func (t *Trainer[S, A, K]) RunContext(ctx context.Context, roots []S, iterations int) error {
	glog.Infof("CFR+ training: %d roots, %d iterations", len(roots), iterations)
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, root := range roots {
			for hero := 0; hero < t.game.NumPlayers(); hero++ {
				t.runHelper(root, hero, 1.0, 0)
			}
		}

		t.iter++
		if i%10 == 0 || i == iterations-1 {
			glog.V(1).Infof("[iter=%d/%d] %d infosets", i+1, iterations, t.Nodes.Len())
		}
	}

	glog.Infof("CFR+ training finished: %d infosets", t.Nodes.Len())
	return nil
}

// Traverse performs a single walk from state with the given hero,
// updating the hero's nodes, and returns the hero's expected utility.
func (t *Trainer[S, A, K]) Traverse(state S, hero int) float64 {
	return t.runHelper(state, hero, 1.0, 0)
}

// Iter returns the number of completed training iterations.
func (t *Trainer[S, A, K]) Iter() int {
	return t.iter
}

// GetStrategy returns the average strategy for the given information set,
// or nil if it has never been visited.
func (t *Trainer[S, A, K]) GetStrategy(key K) []float64 {
	node, ok := t.Nodes.Lookup(key)
	if !ok {
		return nil
	}

	return node.Average()
}

// AverageStrategy returns the average strategy of player at state.
// Information sets that were never visited get a uniform strategy.
func (t *Trainer[S, A, K]) AverageStrategy(state S, player int) []float64 {
	return averageStrategy(t.game, t.Nodes, state, player)
}

func (t *Trainer[S, A, K]) runHelper(state S, hero int, reachP float64, depth int) float64 {
	if depth > t.params.MaxDepth {
		return 0.0
	}

	if player, ok := t.game.CurrentPlayer(state); ok {
		return t.handlePlayerNode(state, player, hero, reachP, depth)
	} else if state.IsTerminal() {
		return t.game.Utility(state, hero)
	}

	return t.handleChanceNode(state, hero, reachP, depth)
}

func (t *Trainer[S, A, K]) handleChanceNode(state S, hero int, reachP float64, depth int) float64 {
	// Chance probabilities are folded into the sampling distribution.
	child := t.game.ApplyChance(state, t.rng)
	return t.runHelper(child, hero, reachP, depth+1)
}

func (t *Trainer[S, A, K]) handlePlayerNode(state S, player, hero int, reachP float64, depth int) float64 {
	actions := t.game.LegalActions(state)
	if len(actions) == 0 {
		return t.game.Utility(state, hero)
	}

	node := t.Nodes.getOrCreate(t.game.InfoKey(state, player), len(actions))
	strategy := node.Strategy()

	utils := t.floatPool.alloc(len(actions))
	defer t.floatPool.free(utils)
	for i, action := range actions {
		child := t.game.NextState(state, action)
		utils[i] = t.runHelper(child, hero, reachP*strategy[i], depth+1)
	}

	nodeUtil := floats.Dot(strategy, utils)
	if player == hero {
		for i := range actions {
			node.AddRegret(i, reachP*(utils[i]-nodeUtil))
			node.AddStrategyWeight(i, reachP*strategy[i])
		}
	}

	return nodeUtil
}

func averageStrategy[S State, A any, K comparable](game Game[S, A, K], nodes NodeTable[K], state S, player int) []float64 {
	if node, ok := nodes.Lookup(game.InfoKey(state, player)); ok {
		return node.Average()
	}

	n := len(game.LegalActions(state))
	if n == 0 {
		return nil
	}

	return uniformDist(n)
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	floats.AddConst(1.0/float64(n), result)
	return result
}
