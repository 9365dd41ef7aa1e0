package cfr

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestNode_Uniform(t *testing.T) {
	n := NewNode(4, nil)
	expected := []float64{0.25, 0.25, 0.25, 0.25}
	if s := n.Strategy(); !floats.EqualApprox(s, expected, 1e-12) {
		t.Errorf("expected strategy %v, got %v", expected, s)
	}

	if avg := n.Average(); !floats.EqualApprox(avg, expected, 1e-12) {
		t.Errorf("expected average %v, got %v", expected, avg)
	}
}

func TestNode_RegretMatching(t *testing.T) {
	n := NewNode(2, nil)
	n.AddRegret(0, 2.0)
	n.AddRegret(1, -5.0)

	if r := n.RegretSum(); r[0] != 2.0 || r[1] != 0.0 {
		t.Errorf("expected clamped regrets [2 0], got %v", r)
	}

	expected := []float64{0.95, 0.05}
	if s := n.Strategy(); !floats.EqualApprox(s, expected, 1e-12) {
		t.Errorf("expected strategy %v, got %v", expected, s)
	}
}

func TestNode_DeltaPrefs(t *testing.T) {
	n := NewNode(2, []float64{3, 1})
	expected := []float64{0.75, 0.25}
	if s := n.Strategy(); !floats.EqualApprox(s, expected, 1e-12) {
		t.Errorf("expected strategy %v, got %v", expected, s)
	}

	n.AddRegret(1, 1.0)
	expected = []float64{0.075, 0.925}
	if s := n.Strategy(); !floats.EqualApprox(s, expected, 1e-12) {
		t.Errorf("expected strategy %v, got %v", expected, s)
	}
}

func TestNode_ZeroDeltaPrefs(t *testing.T) {
	n := NewNode(2, []float64{0, 0})
	expected := []float64{0.5, 0.5}
	if s := n.Strategy(); !floats.EqualApprox(s, expected, 1e-12) {
		t.Errorf("expected strategy %v, got %v", expected, s)
	}
}

func TestNode_RandomUpdates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := NewNode(5, nil)
	for i := 0; i < 10000; i++ {
		a := rng.Intn(n.NumActions())
		n.AddRegret(a, 10*rng.NormFloat64())
		n.AddStrategyWeight(a, rng.Float64())

		for _, r := range n.RegretSum() {
			if r < 0 {
				t.Fatalf("negative regret after %d updates: %v", i, n.RegretSum())
			}
		}

		s := n.Strategy()
		if !scalar.EqualWithinAbs(floats.Sum(s), 1.0, 1e-9) || floats.Min(s) < 0 {
			t.Fatalf("invalid strategy after %d updates: %v", i, s)
		}

		// Exploration keeps every action in play.
		if floats.Min(s) <= 0 {
			t.Fatalf("degenerate strategy after %d updates: %v", i, s)
		}
	}

	avg := n.Average()
	if !scalar.EqualWithinAbs(floats.Sum(avg), 1.0, 1e-9) {
		t.Errorf("average does not sum to 1: %v", avg)
	}
}

func TestNode_Merge(t *testing.T) {
	newNode := func(weights ...float64) *Node {
		n := NewNode(len(weights), nil)
		for i, w := range weights {
			n.AddStrategyWeight(i, w)
			n.AddRegret(i, w)
		}
		return n
	}

	a, b, c := newNode(1, 2, 3), newNode(0.5, 0, 4), newNode(2, 2, 0)

	left := a.Clone()
	left.Merge(b)
	left.Merge(c)

	bc := b.Clone()
	bc.Merge(c)
	right := a.Clone()
	right.Merge(bc)

	if !floats.EqualApprox(left.StrategySum(), right.StrategySum(), 1e-12) {
		t.Errorf("merge is not associative: %v != %v", left.StrategySum(), right.StrategySum())
	}

	expected := []float64{3.5, 4, 7}
	if !floats.EqualApprox(left.StrategySum(), expected, 1e-12) {
		t.Errorf("expected strategy sum %v, got %v", expected, left.StrategySum())
	}

	// Regrets are local to each trainer and are not merged.
	if !floats.Equal(left.RegretSum(), a.RegretSum()) {
		t.Errorf("expected regrets %v, got %v", a.RegretSum(), left.RegretSum())
	}
}

func TestNode_Panics(t *testing.T) {
	for name, f := range map[string]func(){
		"pref length":   func() { NewNode(2, []float64{1}) },
		"negative pref": func() { NewNode(2, []float64{1, -1}) },
		"merge shape":   func() { NewNode(2, nil).Merge(NewNode(3, nil)) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()

			f()
		})
	}
}

func TestNodeTable_Merge(t *testing.T) {
	a := NodeTable[string]{"x": NewNode(2, nil)}
	a["x"].AddStrategyWeight(0, 1.0)
	b := NodeTable[string]{"x": NewNode(2, nil), "y": NewNode(3, nil)}
	b["x"].AddStrategyWeight(1, 2.0)
	b["y"].AddStrategyWeight(2, 1.0)

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected %d nodes, got %d", 2, a.Len())
	}

	if s := a["x"].StrategySum(); !floats.Equal(s, []float64{1, 2}) {
		t.Errorf("expected strategy sum [1 2], got %v", s)
	}

	// Inserted nodes are copies.
	b["y"].AddStrategyWeight(0, 5.0)
	if s := a["y"].StrategySum(); !floats.Equal(s, []float64{0, 0, 1}) {
		t.Errorf("expected strategy sum [0 0 1], got %v", s)
	}
}
