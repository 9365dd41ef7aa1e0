// Package tree contains debugging helpers that walk a cfr.Game.
package tree

import (
	"math/rand"

	"github.com/cardsolver/go-cfr"
)

// Stats summarizes a walk of a game tree.
type Stats struct {
	// Number of states visited within the depth bound.
	Nodes int
	// Number of terminal, chance and player states among Nodes.
	Terminal int
	Chance   int
	Player   int
	// Number of distinct (player, information set) pairs seen.
	InfoSets int
	// Deepest depth reached; roots are at depth 0.
	MaxDepth int
	// Number of states cut off because they were deeper than the bound.
	Truncated int
	// Number of player states whose information set was already on
	// the path from the root. Nonzero values usually mean the game can
	// repeat a betting sequence indefinitely.
	RepeatedInfoSets int
}

type infoSetKey[K comparable] struct {
	player int
	key    K
}

// Probe walks every player action below each root, sampling one outcome
// at every chance node from rng, and counts what it finds. States deeper
// than maxDepth are not expanded, matching the cutoff the trainers apply.
func Probe[S cfr.State, A any, K comparable](game cfr.Game[S, A, K], roots []S, rng *rand.Rand, maxDepth int) Stats {
	p := &prober[S, A, K]{
		game:     game,
		rng:      rng,
		maxDepth: maxDepth,
		seen:     make(map[infoSetKey[K]]struct{}),
		onPath:   make(map[infoSetKey[K]]int),
	}

	for _, root := range roots {
		p.walk(root, 0)
	}

	p.stats.InfoSets = len(p.seen)
	return p.stats
}

// VisitInfoSets calls visitor once for each distinct information set
// reachable from roots, in depth-first order.
func VisitInfoSets[S cfr.State, A any, K comparable](game cfr.Game[S, A, K], roots []S, rng *rand.Rand, maxDepth int, visitor func(player int, key K)) {
	p := &prober[S, A, K]{
		game:     game,
		rng:      rng,
		maxDepth: maxDepth,
		seen:     make(map[infoSetKey[K]]struct{}),
		onPath:   make(map[infoSetKey[K]]int),
		visitor:  visitor,
	}

	for _, root := range roots {
		p.walk(root, 0)
	}
}

type prober[S cfr.State, A any, K comparable] struct {
	game     cfr.Game[S, A, K]
	rng      *rand.Rand
	maxDepth int
	visitor  func(player int, key K)

	stats  Stats
	seen   map[infoSetKey[K]]struct{}
	onPath map[infoSetKey[K]]int
}

func (p *prober[S, A, K]) walk(state S, depth int) {
	if depth > p.maxDepth {
		p.stats.Truncated++
		return
	}

	p.stats.Nodes++
	p.stats.MaxDepth = max(p.stats.MaxDepth, depth)

	if player, ok := p.game.CurrentPlayer(state); ok {
		p.stats.Player++
		p.walkPlayer(state, player, depth)
	} else if state.IsTerminal() {
		p.stats.Terminal++
	} else {
		p.stats.Chance++
		p.walk(p.game.ApplyChance(state, p.rng), depth+1)
	}
}

func (p *prober[S, A, K]) walkPlayer(state S, player, depth int) {
	is := infoSetKey[K]{player, p.game.InfoKey(state, player)}
	if p.onPath[is] > 0 {
		p.stats.RepeatedInfoSets++
	}

	if _, ok := p.seen[is]; !ok {
		p.seen[is] = struct{}{}
		if p.visitor != nil {
			p.visitor(player, is.key)
		}
	}

	p.onPath[is]++
	defer func() { p.onPath[is]-- }()

	for _, action := range p.game.LegalActions(state) {
		p.walk(p.game.NextState(state, action), depth+1)
	}
}
