package cfr

import (
	"cmp"
	"math/rand"
	"slices"
)

// EvalParams configures an Evaluator.
type EvalParams struct {
	// Number of rollouts per action.
	Samples int
	// Rollouts deeper than MaxDepth are scored as zero.
	MaxDepth int
	// Seed for the rollout random source. Zero picks a random seed.
	Seed int64
}

// DefaultEvalParams returns rollout parameters suitable for small games.
func DefaultEvalParams() EvalParams {
	return EvalParams{Samples: 10000, MaxDepth: 50}
}

// ActionValue is the estimated expected utility of playing one action.
type ActionValue[A any] struct {
	Index  int
	Action A
	EV     float64
}

// Evaluator estimates the value of each legal action at a state, assuming
// every player (including the acting one, after this action) follows the
// average strategies in a node table. Chance events are sampled.
type Evaluator[S State, A any, K comparable] struct {
	game   Game[S, A, K]
	nodes  NodeTable[K]
	params EvalParams
	rng    *rand.Rand
}

// NewEvaluator returns an Evaluator over the given trained strategies.
func NewEvaluator[S State, A any, K comparable](game Game[S, A, K], nodes NodeTable[K], params EvalParams) *Evaluator[S, A, K] {
	return &Evaluator[S, A, K]{
		game:   game,
		nodes:  nodes,
		params: params,
		rng:    newRand(params.Seed),
	}
}

// ActionValues returns the estimated value of each legal action for player,
// sorted by descending EV.
func (e *Evaluator[S, A, K]) ActionValues(state S, player int) []ActionValue[A] {
	actions := e.game.LegalActions(state)
	result := make([]ActionValue[A], len(actions))
	for i, action := range actions {
		result[i] = ActionValue[A]{
			Index:  i,
			Action: action,
			EV:     e.actionValue(e.game.NextState(state, action), player),
		}
	}

	slices.SortStableFunc(result, func(a, b ActionValue[A]) int {
		return cmp.Compare(b.EV, a.EV)
	})

	return result
}

func (e *Evaluator[S, A, K]) actionValue(child S, player int) float64 {
	if child.IsTerminal() {
		return e.game.Utility(child, player)
	}

	n := max(1, e.params.Samples)
	var total float64
	for i := 0; i < n; i++ {
		total += e.rollout(child, player, 1)
	}

	return total / float64(n)
}

func (e *Evaluator[S, A, K]) rollout(state S, player, depth int) float64 {
	for ; depth <= e.params.MaxDepth; depth++ {
		if actor, ok := e.game.CurrentPlayer(state); ok {
			actions := e.game.LegalActions(state)
			if len(actions) == 0 {
				return e.game.Utility(state, player)
			}

			strategy := averageStrategy(e.game, e.nodes, state, actor)
			state = e.game.NextState(state, actions[pickAction(strategy, e.rng.Float64())])
		} else if state.IsTerminal() {
			return e.game.Utility(state, player)
		} else {
			state = e.game.ApplyChance(state, e.rng)
		}
	}

	return 0.0
}

// pickAction maps u in [0, 1) to an action drawn from strategy. Rounding
// error that leaves u past the last bucket falls back to the last action
// with positive weight.
func pickAction(strategy []float64, u float64) int {
	last := 0
	for i, p := range strategy {
		if p <= 0 {
			continue
		}

		if u < p {
			return i
		}

		u -= p
		last = i
	}

	return last
}
