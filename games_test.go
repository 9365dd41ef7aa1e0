package cfr

import (
	"math/rand"
)

const (
	chanceNode   = -1
	terminalNode = -2
)

// testNode is an explicit game tree node used by the tests below.
type testNode struct {
	player   int
	key      string
	children []*testNode
	// Payoff for each player at terminal nodes.
	utils []float64
}

func (n *testNode) IsTerminal() bool { return n.player == terminalNode }
func (n *testNode) IsChance() bool   { return n.player == chanceNode }

func terminal(utils ...float64) *testNode {
	return &testNode{player: terminalNode, utils: utils}
}

func decision(player int, key string, children ...*testNode) *testNode {
	return &testNode{player: player, key: key, children: children}
}

func chance(children ...*testNode) *testNode {
	return &testNode{player: chanceNode, children: children}
}

// treeGame plays an explicit tree of testNodes.
type treeGame struct {
	nPlayers int
}

func (g treeGame) NumPlayers() int { return g.nPlayers }

func (g treeGame) CurrentPlayer(s *testNode) (int, bool) {
	return s.player, s.player >= 0
}

func (g treeGame) LegalActions(s *testNode) []int {
	if s.player < 0 {
		return nil
	}

	actions := make([]int, len(s.children))
	for i := range actions {
		actions[i] = i
	}

	return actions
}

func (g treeGame) NextState(s *testNode, a int) *testNode {
	return s.children[a]
}

func (g treeGame) ApplyChance(s *testNode, rng *rand.Rand) *testNode {
	return s.children[rng.Intn(len(s.children))]
}

func (g treeGame) Utility(s *testNode, player int) float64 {
	if len(s.utils) == 0 {
		return 0.0
	}

	return s.utils[player]
}

func (g treeGame) InfoKey(s *testNode, player int) string {
	return s.key
}

// newMatchingPennies returns a two-player game in which player 1 picks
// heads or tails without seeing player 0's choice. Player 0 wins 1 if
// the coins match.
func newMatchingPennies() (treeGame, *testNode) {
	root := decision(0, "p0",
		decision(1, "p1", terminal(1, -1), terminal(-1, 1)),
		decision(1, "p1", terminal(-1, 1), terminal(1, -1)))
	return treeGame{nPlayers: 2}, root
}

// chainState is an endless single-player line of decisions.
type chainState int

func (s chainState) IsTerminal() bool { return false }
func (s chainState) IsChance() bool   { return false }

type chainGame struct{}

func (chainGame) NumPlayers() int                                     { return 1 }
func (chainGame) CurrentPlayer(s chainState) (int, bool)              { return 0, true }
func (chainGame) LegalActions(s chainState) []string                  { return []string{"next"} }
func (chainGame) NextState(s chainState, a string) chainState         { return s + 1 }
func (chainGame) ApplyChance(s chainState, rng *rand.Rand) chainState { return s }
func (chainGame) Utility(s chainState, player int) float64            { return 1.0 }
func (chainGame) InfoKey(s chainState, player int) int                { return int(s) }
