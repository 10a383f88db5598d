package rules

import (
	"math"
	"testing"
)

func TestGeneratorCostCurve(t *testing.T) {
	// solar: baseCost 10, growth 1.15
	if got := GeneratorCost(10, 1.15, 0); got != 10 {
		t.Errorf("Expected first solar level to cost 10, got %f", got)
	}
	if got := GeneratorCost(10, 1.15, 1); math.Abs(got-11.5) > 1e-9 {
		t.Errorf("Expected second solar level to cost 11.5, got %f", got)
	}

	// Strictly increasing for growth > 1.
	prev := 0.0
	for level := 0; level < 50; level++ {
		cost := GeneratorCost(100, 1.2, level)
		if cost <= prev {
			t.Fatalf("Cost curve not strictly increasing at level %d: %f <= %f", level, cost, prev)
		}
		prev = cost
	}
}

func TestPrestigePoints(t *testing.T) {
	cases := []struct {
		energy float64
		want   int
	}{
		{0, 0},
		{5, 0},
		{10, 1},
		{150, 2},
		{1000, 3},
		{20000, 4},
		{-50, 0},
	}
	for _, c := range cases {
		if got := PrestigePoints(c.energy); got != c.want {
			t.Errorf("PrestigePoints(%f): expected %d, got %d", c.energy, c.want, got)
		}
	}
}

func TestPrestigeMultiplier(t *testing.T) {
	if got := PrestigeMultiplier(0); got != 1.0 {
		t.Errorf("Expected multiplier 1.0 with no meta points, got %f", got)
	}
	if got := PrestigeMultiplier(3); math.Abs(got-1.3) > 1e-9 {
		t.Errorf("Expected multiplier 1.3 with 3 meta points, got %f", got)
	}
	if got := PrestigeMultiplier(4); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("Expected multiplier 1.4 with 4 meta points, got %f", got)
	}
}

func TestClampElapsed(t *testing.T) {
	if got := ClampElapsed(-500); got != 0 {
		t.Errorf("Negative elapsed should clamp to zero, got %d", got)
	}
	if got := ClampElapsed(1000); got != 1000 {
		t.Errorf("In-range elapsed should pass through, got %d", got)
	}
	if got := ClampElapsed(MaxCatchUpMillis + 1); got != MaxCatchUpMillis {
		t.Errorf("Oversized elapsed should clamp to %d, got %d", MaxCatchUpMillis, got)
	}
	if got := ClampElapsed(MaxCatchUpMillis); got != MaxCatchUpMillis {
		t.Errorf("Exact max elapsed should pass through, got %d", got)
	}
}
