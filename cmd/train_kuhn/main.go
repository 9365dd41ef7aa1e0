// Command train_kuhn solves Kuhn Poker and prints the resulting average
// strategy and the estimated value of each opening action.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/cardsolver/go-cfr"
	"github.com/cardsolver/go-cfr/config"
	"github.com/cardsolver/go-cfr/kuhn"
	"github.com/cardsolver/go-cfr/tree"
)

type trainer interface {
	RunContext(ctx context.Context, roots []kuhn.State, iterations int) error
	AverageStrategy(state kuhn.State, player int) []float64
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default: read from environment)")
	iterations := flag.Int("iter", -1, "Number of training iterations (overrides config)")
	algorithm := flag.String("algorithm", "", "cfr or mccfr (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		glog.Warningf("Error loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Fatal(err)
	}

	if *iterations >= 0 {
		cfg.Iterations = *iterations
	}
	if *algorithm != "" {
		cfg.Algorithm = *algorithm
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		glog.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		glog.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Train) error {
	game := kuhn.NewGame()
	roots := game.Deals()
	params := cfg.Params()

	var t trainer
	var nodes cfr.NodeTable[string]
	switch {
	case cfg.Shards > 1:
		result, err := cfr.TrainParallel[kuhn.State, kuhn.Action, string](
			ctx, game, params, roots, cfg.Iterations, cfg.ParallelParams())
		if err != nil {
			return errors.Wrap(err, "parallel training failed")
		}

		resolve(result, game, cfg.ResolveIterations)
		t, nodes = result, result.Nodes
	case cfg.Algorithm == config.AlgorithmMCCFR:
		mccfr := cfr.NewMCCFR[kuhn.State, kuhn.Action, string](game, cfg.SampleRate, params)
		if err := train(ctx, mccfr, roots, cfg.Iterations); err != nil {
			return err
		}

		t, nodes = mccfr, mccfr.Nodes
	default:
		cfrPlus := cfr.NewTrainer[kuhn.State, kuhn.Action, string](game, params)
		if err := train(ctx, cfrPlus, roots, cfg.Iterations); err != nil {
			return err
		}

		resolve(cfrPlus, game, cfg.ResolveIterations)
		t, nodes = cfrPlus, cfrPlus.Nodes
	}

	printStrategy(game, roots, nodes, params.MaxDepth)
	printActionValues(game, roots, t, nodes, cfg)
	return nil
}

// train runs the given number of iterations in batches so that progress
// can be reported.
func train(ctx context.Context, t trainer, roots []kuhn.State, iterations int) error {
	const batchSize = 100
	bar := progressbar.Default(int64(iterations), "training")
	defer bar.Finish()

	for done := 0; done < iterations; done += batchSize {
		n := min(batchSize, iterations-done)
		if err := t.RunContext(ctx, roots, n); err != nil {
			return errors.Wrapf(err, "training interrupted after %d iterations", done)
		}

		_ = bar.Add(n)
	}

	return nil
}

// resolve refines player 1's response to a check with extra iterations
// rooted at each deal's "rrc" state.
func resolve(t *cfr.Trainer[kuhn.State, kuhn.Action, string], game kuhn.Game, iterations int) {
	if iterations <= 0 {
		return
	}

	for _, deal := range game.Deals() {
		cfr.ResolveSubgame(t, game.NextState(deal, kuhn.Check), iterations)
	}
}

func printStrategy(game kuhn.Game, roots []kuhn.State, nodes cfr.NodeTable[string], maxDepth int) {
	rng := rand.New(rand.NewSource(1))
	tree.VisitInfoSets[kuhn.State, kuhn.Action, string](game, roots, rng, maxDepth, func(player int, key string) {
		node, ok := nodes.Lookup(key)
		if !ok {
			fmt.Printf("[player %d] %6s: unvisited\n", player, key)
			return
		}

		strat := node.Average()
		fmt.Printf("[player %d] %6s: check=%.2f bet=%.2f\n", player, key, strat[0], strat[1])
	})
}

func printActionValues(game kuhn.Game, roots []kuhn.State, t trainer, nodes cfr.NodeTable[string], cfg *config.Train) {
	if cfg.EvalSamples == 0 {
		return
	}

	params := cfr.EvalParams{Samples: cfg.EvalSamples, MaxDepth: cfg.Params().MaxDepth, Seed: cfg.Seed}
	eval := cfr.NewEvaluator[kuhn.State, kuhn.Action, string](game, nodes, params)
	for _, deal := range roots {
		player, _ := game.CurrentPlayer(deal)
		strat := t.AverageStrategy(deal, player)
		fmt.Printf("%s (strategy %.2v)\n", deal, strat)
		for _, v := range eval.ActionValues(deal, player) {
			fmt.Printf("\t%5s: EV=%+.3f\n", v.Action, v.EV)
		}
	}
}
