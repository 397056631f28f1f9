package locator

import (
	"math"
	"math/rand"
	"testing"
)

func TestGenerateScenario_Deterministic(t *testing.T) {
	cfg := DefaultScenarioConfig()
	targets1, measurements1 := GenerateScenario(cfg, rand.New(rand.NewSource(42)))
	targets2, measurements2 := GenerateScenario(cfg, rand.New(rand.NewSource(42)))

	if len(targets1) != len(targets2) || len(measurements1) != len(measurements2) {
		t.Fatalf("lengths differ between runs with the same seed")
	}
	for i := range targets1 {
		if targets1[i] != targets2[i] {
			t.Errorf("targets[%d] = %+v, want %+v (same seed)", i, targets2[i], targets1[i])
		}
	}
	for i := range measurements1 {
		if measurements1[i] != measurements2[i] {
			t.Errorf("measurements[%d] = %+v, want %+v (same seed)", i, measurements2[i], measurements1[i])
		}
	}
}

func TestGenerateScenario_TargetCount(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.NumTargets = 5
	targets, measurements := GenerateScenario(cfg, rand.New(rand.NewSource(1)))

	if len(targets) != 5 {
		t.Errorf("len(targets) = %d, want 5", len(targets))
	}
	minExpected := 5 * cfg.StationsPerTarget.Min
	maxExpected := 5 * cfg.StationsPerTarget.Max
	if len(measurements) < minExpected || len(measurements) > maxExpected {
		t.Errorf("len(measurements) = %d, want between %d and %d", len(measurements), minExpected, maxExpected)
	}
}

func TestGenerateScenario_MeasuredDirectionsAreUnitVectors(t *testing.T) {
	cfg := DefaultScenarioConfig()
	_, measurements := GenerateScenario(cfg, rand.New(rand.NewSource(7)))

	for i, m := range measurements {
		n := math.Sqrt(m.DX*m.DX + m.DY*m.DY + m.DZ*m.DZ)
		if math.Abs(n-1) > 1e-9 {
			t.Errorf("measurements[%d] direction norm = %v, want 1 (renormalized)", i, n)
		}
	}
}

func TestRange_SampleWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := Range{Min: 10, Max: 20}
	for i := 0; i < 100; i++ {
		v := r.sample(rng)
		if v < r.Min || v >= r.Max {
			t.Fatalf("sample() = %v, want in [%v, %v)", v, r.Min, r.Max)
		}
	}
}

func TestIntRange_SampleWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := IntRange{Min: 3, Max: 5}
	for i := 0; i < 100; i++ {
		v := r.sample(rng)
		if v < r.Min || v > r.Max {
			t.Fatalf("sample() = %v, want in [%v, %v]", v, r.Min, r.Max)
		}
	}
}
