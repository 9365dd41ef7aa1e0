package cfr

import (
	"math/rand"
)

// State is the minimal classification a game state must support.
// A state for which neither predicate holds is a player node.
type State interface {
	// IsTerminal returns true if the game is over in this state.
	IsTerminal() bool
	// IsChance returns true if a random event (e.g. a deal) must be
	// resolved before any player acts.
	IsChance() bool
}

// Game is the interface a concrete game must implement to be solved.
//
// S is the game state, A the action type and K the information set key.
// The solver never inspects S, A or K directly: hand evaluation and card
// abstraction live entirely inside the implementations of Utility and InfoKey.
type Game[S State, A any, K comparable] interface {
	// NumPlayers is the number of seats. Every root is trained once
	// per seat on every iteration.
	NumPlayers() int

	// CurrentPlayer returns the player to act. ok is false if the state
	// is a terminal or chance node.
	CurrentPlayer(s S) (player int, ok bool)
	// LegalActions returns the available actions in a stable order.
	// All states sharing an InfoKey must have the same number of actions,
	// since node vectors are indexed by action position.
	LegalActions(s S) []A
	// NextState returns the state after playing a. It must not modify s.
	NextState(s S, a A) S
	// ApplyChance resolves exactly one random event using the given source.
	ApplyChance(s S, rng *rand.Rand) S
	// Utility returns the payoff for the given player.
	// It is only called for terminal states (or player states without actions).
	Utility(s S, player int) float64
	// InfoKey returns the abstracted information set of s as seen by player.
	//
	// It may be a hash of the full history or a coarse bucket; two states
	// with the same key are treated as strategically identical.
	InfoKey(s S, player int) K
}
