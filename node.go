package cfr

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// explorationMix is the weight of the delta preferences blended into
// the regret-matching strategy.
const explorationMix = 0.1

// Node accumulates regrets and strategy weights for a single information set.
//
// All three vectors are indexed by action position and have the same length.
// Regret sums are clamped at zero after every update (regret matching+).
type Node struct {
	regretSum   []float64
	strategySum []float64
	deltaPrefs  []float64
}

// NewNode returns a Node for an information set with nActions actions.
// If deltaPrefs is nil, every action gets the same preference weight.
func NewNode(nActions int, deltaPrefs []float64) *Node {
	if deltaPrefs == nil {
		deltaPrefs = make([]float64, nActions)
		floats.AddConst(1.0, deltaPrefs)
	}

	if len(deltaPrefs) != nActions {
		panic(fmt.Errorf("node has n_actions=%d but %d delta preferences", nActions, len(deltaPrefs)))
	}

	for i, p := range deltaPrefs {
		if p < 0 {
			panic(fmt.Errorf("negative delta preference %v for action %d", p, i))
		}
	}

	return &Node{
		regretSum:   make([]float64, nActions),
		strategySum: make([]float64, nActions),
		deltaPrefs:  append([]float64(nil), deltaPrefs...),
	}
}

// NumActions returns the number of actions at this node.
func (n *Node) NumActions() int {
	return len(n.regretSum)
}

// Strategy returns the current regret-matching+ strategy, mixed with
// the normalized delta preferences. It is the exploration policy for the
// current iteration, not the equilibrium estimate; see Average.
func (n *Node) Strategy() []float64 {
	s := make([]float64, len(n.regretSum))
	prefs := n.prefShares()

	var sumPos float64
	for _, r := range n.regretSum {
		if r > 0 {
			sumPos += r
		}
	}

	if sumPos <= 0 {
		copy(s, prefs)
		return s
	}

	for i, r := range n.regretSum {
		var regretShare float64
		if r > 0 {
			regretShare = r / sumPos
		}

		s[i] = (1.0-explorationMix)*regretShare + explorationMix*prefs[i]
	}

	return s
}

// Average returns the average strategy over all updates. This is the
// strategy to report; it is uniform if the node was never updated.
func (n *Node) Average() []float64 {
	avg := make([]float64, len(n.strategySum))
	total := floats.Sum(n.strategySum)
	if total > 0 {
		floats.ScaleTo(avg, 1.0/total, n.strategySum)
	} else {
		floats.AddConst(1.0/float64(len(avg)), avg)
	}

	return avg
}

// AddRegret adds v to the regret of action i and clamps the result at zero.
func (n *Node) AddRegret(i int, v float64) {
	n.regretSum[i] += v
	if n.regretSum[i] < 0 {
		n.regretSum[i] = 0
	}
}

// AddStrategyWeight adds w to the strategy sum of action i.
func (n *Node) AddStrategyWeight(i int, w float64) {
	n.strategySum[i] += w
}

// Merge adds the strategy sums of other into n.
//
// Regret sums are not merged: merging combines independently trained
// average strategies, not local regret histories.
func (n *Node) Merge(other *Node) {
	if other.NumActions() != n.NumActions() {
		panic(fmt.Errorf("cannot merge node with n_actions=%d into node with n_actions=%d",
			other.NumActions(), n.NumActions()))
	}

	floats.Add(n.strategySum, other.strategySum)
}

func (n *Node) resetRegrets() {
	clear(n.regretSum)
}

// RegretSum returns a copy of the accumulated regrets.
func (n *Node) RegretSum() []float64 {
	return append([]float64(nil), n.regretSum...)
}

// StrategySum returns a copy of the accumulated strategy weights.
func (n *Node) StrategySum() []float64 {
	return append([]float64(nil), n.strategySum...)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	return &Node{
		regretSum:   append([]float64(nil), n.regretSum...),
		strategySum: append([]float64(nil), n.strategySum...),
		deltaPrefs:  append([]float64(nil), n.deltaPrefs...),
	}
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Node{regret: %.4v, strategy: %.4v}", n.regretSum, n.Average())
}

func (n *Node) prefShares() []float64 {
	shares := make([]float64, len(n.deltaPrefs))
	total := floats.Sum(n.deltaPrefs)
	if total > 0 {
		floats.ScaleTo(shares, 1.0/total, n.deltaPrefs)
	} else {
		floats.AddConst(1.0/float64(len(shares)), shares)
	}

	return shares
}
