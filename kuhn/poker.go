// Package kuhn implements Kuhn Poker on the cfr.Game contract,
// adapted from: https://justinsermeno.com/posts/cfr/.
package kuhn

import (
	"fmt"
	"math/rand"

	"github.com/cardsolver/go-cfr"
)

const (
	player0 = 0
	player1 = 1
)

type Action byte

const (
	Random Action = 'r'
	Check  Action = 'c'
	Bet    Action = 'b'
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case Check:
		return "check"
	case Bet:
		return "bet"
	}

	return "deal"
}

type Card int

const (
	Jack Card = iota
	Queen
	King
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

func (c Card) String() string {
	return cardStr[c]
}

var deck = []Card{Jack, Queen, King}

// State is an immutable Kuhn Poker game state. The zero value is the
// root of the game, before either card is dealt.
//
// The history starts with one 'r' per dealt card, followed by the
// betting actions of each player in turn.
type State struct {
	history string

	// Private card held by either player.
	p0Card, p1Card Card
}

// NewState returns the state after dealing p0Card and p1Card.
func NewState(p0Card, p1Card Card) State {
	if p0Card == p1Card {
		panic(fmt.Errorf("both players dealt %v", p0Card))
	}

	return State{
		history: string([]byte{byte(Random), byte(Random)}),
		p0Card:  p0Card,
		p1Card:  p1Card,
	}
}

// String implements fmt.Stringer.
func (s State) String() string {
	return fmt.Sprintf("History: %5s [Cards: P0 - %s, P1 - %s]",
		s.history, s.p0Card, s.p1Card)
}

// History returns the deal and betting sequence so far.
func (s State) History() string {
	return s.history
}

// IsChance implements cfr.State.
func (s State) IsChance() bool {
	return len(s.history) < 2
}

// IsTerminal implements cfr.State.
func (s State) IsTerminal() bool {
	return (s.history == "rrcc" || s.history == "rrcbc" ||
		s.history == "rrcbb" || s.history == "rrbc" || s.history == "rrbb")
}

func (s State) playerCard(player int) Card {
	if player == player0 {
		return s.p0Card
	}

	return s.p1Card
}

// Game implements cfr.Game for two-player Kuhn Poker.
type Game struct{}

var _ cfr.Game[State, Action, string] = Game{}

func NewGame() Game {
	return Game{}
}

// Root returns the state before any card is dealt.
func (Game) Root() State {
	return State{}
}

// Deals returns the six states reachable after dealing, one per
// distinct pair of private cards.
func (Game) Deals() []State {
	var result []State
	for _, c0 := range deck {
		for _, c1 := range deck {
			if c0 != c1 {
				result = append(result, NewState(c0, c1))
			}
		}
	}

	return result
}

// NumPlayers implements cfr.Game.
func (Game) NumPlayers() int {
	return 2
}

// CurrentPlayer implements cfr.Game.
func (Game) CurrentPlayer(s State) (int, bool) {
	if s.IsChance() || s.IsTerminal() {
		return 0, false
	}

	return (len(s.history) - 2) % 2, true
}

// LegalActions implements cfr.Game.
func (g Game) LegalActions(s State) []Action {
	if _, ok := g.CurrentPlayer(s); !ok {
		return nil
	}

	return []Action{Check, Bet}
}

// NextState implements cfr.Game.
func (Game) NextState(s State, a Action) State {
	if a != Check && a != Bet {
		panic(fmt.Errorf("illegal action: %v", a))
	}

	s.history += string([]byte{byte(a)})
	return s
}

// ApplyChance implements cfr.Game by dealing the next card uniformly
// from the cards remaining in the deck.
func (Game) ApplyChance(s State, rng *rand.Rand) State {
	switch len(s.history) {
	case 0:
		s.p0Card = deck[rng.Intn(len(deck))]
	case 1:
		// Both players can't be dealt the same card.
		remaining := make([]Card, 0, len(deck)-1)
		for _, card := range deck {
			if card != s.p0Card {
				remaining = append(remaining, card)
			}
		}

		s.p1Card = remaining[rng.Intn(len(remaining))]
	default:
		panic("not a chance node: " + s.history)
	}

	s.history += string([]byte{byte(Random)})
	return s
}

// Utility implements cfr.Game.
func (Game) Utility(s State, player int) float64 {
	cardPlayer := s.playerCard(player)
	cardOpponent := s.playerCard(1 - player)

	switch s.history {
	case "rrbc":
		// Player 1 folded.
		if player == player0 {
			return 1.0
		}
		return -1.0
	case "rrcbc":
		// Player 0 folded.
		if player == player1 {
			return 1.0
		}
		return -1.0
	case "rrcc":
		// Showdown with no bets.
		if cardPlayer > cardOpponent {
			return 1.0
		}
		return -1.0
	case "rrcbb", "rrbb":
		// Showdown with 1 bet.
		if cardPlayer > cardOpponent {
			return 2.0
		}
		return -2.0
	}

	panic("unexpected history: " + s.history)
}

// InfoKey implements cfr.Game. A player sees their own card and the
// public betting history.
func (Game) InfoKey(s State, player int) string {
	return s.playerCard(player).String() + "-" + s.history
}
