package cfr

import (
	"context"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelParams configures TrainParallel.
type ParallelParams struct {
	// Number of independent trainers run concurrently.
	Shards int
	// Number of synchronization points. After each generation the shards'
	// strategy sums are merged into the result. Shards never read the
	// merged table, so this affects logging and cancellation granularity,
	// not the trained strategies.
	Generations int
}

// TrainParallel trains params.Shards independent Trainers concurrently,
// splitting the iterations evenly between them, and merges their average
// strategies. Each shard owns its node table and random source; shard i is
// seeded with params.Seed+i (or randomly if params.Seed is zero).
//
// The returned Trainer holds the merged node table. Regret sums are local
// to each shard and are zero in the merged table, so further training of
// the result starts from the combined average strategy with fresh regrets.
// If ctx is cancelled,
// all shards stop and the context error is returned.
func TrainParallel[S State, A any, K comparable](ctx context.Context, game Game[S, A, K], params Params,
	roots []S, iterations int, pp ParallelParams) (*Trainer[S, A, K], error) {
	if pp.Shards < 1 {
		return nil, errors.Errorf("invalid number of shards: %d", pp.Shards)
	}

	if pp.Generations < 1 {
		return nil, errors.Errorf("invalid number of generations: %d", pp.Generations)
	}

	if iterations < 0 {
		return nil, errors.Errorf("invalid number of iterations: %d", iterations)
	}

	runID := uuid.New().String()
	glog.Infof("[run %s] parallel training: %d shards, %d generations, %d iterations",
		runID, pp.Shards, pp.Generations, iterations)

	shards := make([]*Trainer[S, A, K], pp.Shards)
	for i := range shards {
		shardParams := params
		if params.Seed != 0 {
			shardParams.Seed = params.Seed + int64(i)
		}

		shards[i] = NewTrainer(game, shardParams)
	}

	// schedule[i][g] is the number of iterations shard i runs in generation g.
	schedule := make([][]int, pp.Shards)
	for i, n := range splitEvenly(iterations, pp.Shards) {
		schedule[i] = splitEvenly(n, pp.Generations)
	}

	result := NewTrainer(game, params)
	for gen := 0; gen < pp.Generations; gen++ {
		g, gctx := errgroup.WithContext(ctx)
		for i, shard := range shards {
			shard := shard
			n := schedule[i][gen]
			g.Go(func() error {
				return shard.RunContext(gctx, roots, n)
			})
		}

		if err := g.Wait(); err != nil {
			return nil, errors.Wrapf(err, "run %s: generation %d", runID, gen)
		}

		merged := make(NodeTable[K])
		for _, shard := range shards {
			merged.Merge(shard.Nodes)
		}

		for _, node := range merged {
			node.resetRegrets()
		}

		result.Nodes = merged
		glog.V(1).Infof("[run %s] generation %d/%d: %d infosets",
			runID, gen+1, pp.Generations, merged.Len())
	}

	result.iter = iterations
	glog.Infof("[run %s] parallel training finished: %d infosets", runID, result.Nodes.Len())
	return result, nil
}

// splitEvenly splits n into parts non-negative integers that sum to n
// and differ by at most one.
func splitEvenly(n, parts int) []int {
	result := make([]int, parts)
	for i := range result {
		result[i] = n / parts
		if i < n%parts {
			result[i]++
		}
	}

	return result
}
