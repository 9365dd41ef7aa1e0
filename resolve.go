package cfr

import (
	"github.com/golang/glog"
)

// ResolveSubgame refines the strategy of global in the region of the tree
// below root. A fresh Trainer with the same game and parameters is trained
// on root alone for extraIterations, and its nodes are then merged into
// global: strategy sums are added for known information sets and new
// information sets are inserted.
func ResolveSubgame[S State, A any, K comparable](global *Trainer[S, A, K], root S, extraIterations int) {
	glog.Infof("Re-solving subgame: %d extra iterations", extraIterations)

	params := global.params
	params.Seed = global.rng.Int63()
	sub := NewTrainer(global.game, params)
	sub.Run([]S{root}, extraIterations)

	nBefore := global.Nodes.Len()
	global.Nodes.Merge(sub.Nodes)
	glog.Infof("Merged %d subgame infosets (%d new)", sub.Nodes.Len(), global.Nodes.Len()-nBefore)
}
