package locator

import (
	"math"
	"testing"
)

func seededConfig(seed int64) PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.RNGSeed = &seed
	return cfg
}

// Scenario A from spec.md section 8: single perfect target, one ray per
// supporting station. spec.md's narrative describes this as a two-ray case,
// but RansacFit hard-floors at 3 rays (section 4.3; confirmed by
// ransac_test.go's TestRansacFit_TooFewRays and by original_source's
// ransac_fit_lines, which returns None below 3 lines) — see DESIGN.md's
// Open Questions for the resolution. Three exact, mutually orthogonal rays
// through the same point keep the scenario's "perfect, zero-residual fit"
// spirit while staying inside that floor.
func TestFindTargets_SinglePerfectTarget(t *testing.T) {
	measurements := []Measurement{
		{X: -10, Y: 0, Z: 10, DX: 1, DY: 0, DZ: 0},
		{X: 0, Y: -10, Z: 10, DX: 0, DY: 1, DZ: 0},
		{X: 0, Y: 0, Z: 0, DX: 0, DY: 0, DZ: 1},
	}
	cfg := seededConfig(1)
	cfg.RansacThreshold = 1e-3
	cfg.MinLinesPerTarget = 3

	targets, err := FindTargets(measurements, cfg)
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("len(targets) = %d, want 1", len(targets))
	}
	got := targets[0]
	if !vecApprox(got.Position, Vec3{0, 0, 10}, 1e-4) {
		t.Errorf("position = %+v, want (0,0,10)", got.Position)
	}
	if got.NumLines != 3 {
		t.Errorf("NumLines = %d, want 3", got.NumLines)
	}
	if got.AvgErrorDistM > 1e-6 {
		t.Errorf("AvgErrorDistM = %v, want < 1e-6", got.AvgErrorDistM)
	}
	if got.ID != "Target_1" {
		t.Errorf("ID = %q, want Target_1", got.ID)
	}
}

func TestFindTargets_InsufficientRays(t *testing.T) {
	measurements := []Measurement{
		{X: 0, Y: 0, Z: 0, DX: 1, DY: 0, DZ: 0},
	}
	targets, err := FindTargets(measurements, DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}
	if len(targets) != 0 {
		t.Errorf("len(targets) = %d, want 0", len(targets))
	}
}

func TestFindTargets_EmptyInput(t *testing.T) {
	targets, err := FindTargets(nil, DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}
	if len(targets) != 0 {
		t.Errorf("len(targets) = %d, want 0", len(targets))
	}
}

func TestFindTargets_DegenerateMeasurement(t *testing.T) {
	measurements := []Measurement{
		{X: 0, Y: 0, Z: 0, DX: 0, DY: 0, DZ: 0},
		{X: 1, Y: 0, Z: 0, DX: 1, DY: 0, DZ: 0},
		{X: 0, Y: 1, Z: 0, DX: 0, DY: 1, DZ: 0},
	}
	_, err := FindTargets(measurements, DefaultPipelineConfig())
	if err == nil {
		t.Fatal("expected ErrDegenerateMeasurement, got nil")
	}
}

// raysToward generates n rays converging on target from origins evenly
// spaced on a circle of the given radius, for deterministic multi-target
// tests.
func raysToward(target Vec3, n int, radius float64) []Measurement {
	out := make([]Measurement, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		origin := Vec3{
			X: target.X + radius*math.Cos(angle),
			Y: target.Y + radius*math.Sin(angle),
			Z: target.Z + 5,
		}
		dir := target.Sub(origin)
		out[i] = Measurement{X: origin.X, Y: origin.Y, Z: origin.Z, DX: dir.X, DY: dir.Y, DZ: dir.Z}
	}
	return out
}

func TestFindTargets_MultipleTargetsNearTruth(t *testing.T) {
	var measurements []Measurement
	targets := []Vec3{{0, 0, 100}, {500, 500, 120}, {-400, 300, 80}}
	for _, tg := range targets {
		measurements = append(measurements, raysToward(tg, 5, 20)...)
	}

	cfg := seededConfig(7)
	cfg.RansacThreshold = 1.0
	cfg.MinLinesPerTarget = 4

	located, err := FindTargets(measurements, cfg)
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}
	if len(located) == 0 {
		t.Fatal("expected at least one located target")
	}
	for _, lt := range located {
		if lt.NumLines < cfg.MinLinesPerTarget {
			t.Errorf("target %s has %d supporting rays, want >= %d", lt.ID, lt.NumLines, cfg.MinLinesPerTarget)
		}
	}
	maxPossible := len(measurements) / cfg.MinLinesPerTarget
	if len(located) > maxPossible {
		t.Errorf("len(located) = %d, want <= %d", len(located), maxPossible)
	}

	// Every located target should land near one of the true targets.
	for _, lt := range located {
		best := math.MaxFloat64
		for _, tg := range targets {
			if d := euclidean(lt.Position, tg); d < best {
				best = d
			}
		}
		if best > 5 {
			t.Errorf("located target %+v is %.2fm from nearest true target, want <= 5", lt.Position, best)
		}
	}
}

func TestFindTargets_DeterministicUnderSeed(t *testing.T) {
	var measurements []Measurement
	targets := []Vec3{{0, 0, 100}, {500, 500, 120}}
	for _, tg := range targets {
		measurements = append(measurements, raysToward(tg, 5, 20)...)
	}

	cfg := seededConfig(99)
	cfg.RansacThreshold = 1.0
	cfg.MinLinesPerTarget = 4

	a, err := FindTargets(measurements, cfg)
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}
	cfg2 := seededConfig(99)
	cfg2.RansacThreshold = 1.0
	cfg2.MinLinesPerTarget = 4
	b, err := FindTargets(measurements, cfg2)
	if err != nil {
		t.Fatalf("FindTargets: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("len(a)=%d len(b)=%d, want equal under identical seed", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
