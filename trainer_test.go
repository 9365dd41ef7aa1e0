package cfr

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestTrainer_MatchingPennies(t *testing.T) {
	game, root := newMatchingPennies()
	trainer := NewTrainer[*testNode, int, string](game, Params{MaxDepth: 15, Seed: 1})
	trainer.Run([]*testNode{root}, 1000)

	if trainer.Iter() != 1000 {
		t.Errorf("expected %d iterations, got %d", 1000, trainer.Iter())
	}

	for _, key := range []string{"p0", "p1"} {
		strat := trainer.GetStrategy(key)
		t.Logf("%s: heads=%.3f tails=%.3f", key, strat[0], strat[1])
		if !floats.EqualApprox(strat, []float64{0.5, 0.5}, 0.05) {
			t.Errorf("%s: expected a mixed strategy near [0.5 0.5], got %v", key, strat)
		}
	}
}

func TestTrainer_SingleAction(t *testing.T) {
	game := treeGame{nPlayers: 2}
	root := decision(0, "only", terminal(7, -7))
	trainer := NewTrainer[*testNode, int, string](game, DefaultParams())
	trainer.Run([]*testNode{root}, 10)

	if u := trainer.Traverse(root, 0); u != 7.0 {
		t.Errorf("expected utility %v, got %v", 7.0, u)
	}

	if s := trainer.GetStrategy("only"); !floats.EqualApprox(s, []float64{1.0}, 1e-12) {
		t.Errorf("expected strategy [1], got %v", s)
	}
}

func TestTrainer_Terminal(t *testing.T) {
	game := treeGame{nPlayers: 2}
	root := terminal(3, -3)
	trainer := NewTrainer[*testNode, int, string](game, DefaultParams())
	trainer.Run([]*testNode{root}, 5)

	if trainer.Nodes.Len() != 0 {
		t.Errorf("expected no infosets, got %d", trainer.Nodes.Len())
	}

	if u := trainer.Traverse(root, 1); u != -3.0 {
		t.Errorf("expected utility %v, got %v", -3.0, u)
	}
}

func TestTrainer_Chance(t *testing.T) {
	game := treeGame{nPlayers: 2}
	root := chance(
		decision(0, "high", terminal(2, -2), terminal(1, -1)),
		decision(0, "low", terminal(-1, 1), terminal(-2, 2)))
	trainer := NewTrainer[*testNode, int, string](game, Params{MaxDepth: 15, Seed: 3})
	trainer.Run([]*testNode{root}, 200)

	if trainer.Nodes.Len() != 2 {
		t.Fatalf("expected %d infosets, got %d", 2, trainer.Nodes.Len())
	}

	for _, key := range []string{"high", "low"} {
		if s := trainer.GetStrategy(key); s[0] < 0.9 {
			t.Errorf("%s: expected the dominant first action, got %v", key, s)
		}
	}
}

func TestTrainer_MaxDepth(t *testing.T) {
	params := DefaultParams()
	trainer := NewTrainer[chainState, string, int](chainGame{}, params)

	if u := trainer.Traverse(0, 0); u != 0.0 {
		t.Errorf("expected zero utility beyond the depth limit, got %v", u)
	}

	if trainer.Nodes.Len() != params.MaxDepth+1 {
		t.Errorf("expected %d infosets, got %d", params.MaxDepth+1, trainer.Nodes.Len())
	}
}

func TestTrainer_AverageStrategy(t *testing.T) {
	game, root := newMatchingPennies()
	trainer := NewTrainer[*testNode, int, string](game, DefaultParams())

	if s := trainer.GetStrategy("p0"); s != nil {
		t.Errorf("expected nil strategy before training, got %v", s)
	}

	if s := trainer.AverageStrategy(root, 0); !floats.Equal(s, []float64{0.5, 0.5}) {
		t.Errorf("expected uniform fallback, got %v", s)
	}
}

func TestTrainer_ActionCountMismatch(t *testing.T) {
	game := treeGame{nPlayers: 1}
	root := decision(0, "same",
		decision(0, "same", terminal(1), terminal(2), terminal(3)),
		terminal(0))
	trainer := NewTrainer[*testNode, int, string](game, DefaultParams())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched action counts")
		}
	}()

	trainer.Run([]*testNode{root}, 1)
}

func TestTrainer_Cancel(t *testing.T) {
	game, root := newMatchingPennies()
	trainer := NewTrainer[*testNode, int, string](game, DefaultParams())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := trainer.RunContext(ctx, []*testNode{root}, 10); err != context.Canceled {
		t.Errorf("expected %v, got %v", context.Canceled, err)
	}

	if trainer.Iter() != 0 {
		t.Errorf("expected no iterations, got %d", trainer.Iter())
	}
}

func TestTrainer_RunTerminatesOnEndlessGame(t *testing.T) {
	params := Params{MaxDepth: 8}
	trainer := NewTrainer[chainState, string, int](chainGame{}, params)
	trainer.Run([]chainState{0}, 3)

	if trainer.Iter() != 3 {
		t.Errorf("expected %d iterations, got %d", 3, trainer.Iter())
	}

	if trainer.Nodes.Len() != params.MaxDepth+1 {
		t.Errorf("expected %d infosets, got %d", params.MaxDepth+1, trainer.Nodes.Len())
	}

	// Nothing below the depth limit pays out, so no action is ever regretted.
	for depth, node := range trainer.Nodes {
		if r := node.RegretSum(); r[0] != 0 {
			t.Errorf("depth %d: expected zero regret, got %v", depth, r)
		}
	}
}
