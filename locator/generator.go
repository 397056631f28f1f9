package locator

import (
	"math"
	"math/rand"
)

// Range is an inclusive-low, exclusive-high sampling interval, mirroring
// the (f64, f64) tuple ranges of the source generator.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// IntRange is an inclusive integer sampling interval.
type IntRange struct {
	Min, Max int
}

func (r IntRange) sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// ScenarioConfig parameterizes GenerateScenario. It is the Go counterpart of
// original_source/src/data_generator.rs's generate_data parameter list: the
// synthetic-data generator is out of the core's scope (spec.md section 1)
// but is specified here as an external collaborator the CLI and tests use.
type ScenarioConfig struct {
	NumTargets                int
	TargetX, TargetY, TargetZ Range
	StationsPerTarget         IntRange
	StationDistance           Range
	StationZ                  Range
	PosNoiseStd               float64
	AltNoiseStd               float64
	AngleNoiseStd             float64
}

// DefaultScenarioConfig mirrors a "general accuracy" scenario in the
// original accuracy tests: modest noise, generous station spread.
func DefaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		NumTargets:        3,
		TargetX:           Range{-2000, 2000},
		TargetY:           Range{-2000, 2000},
		TargetZ:           Range{50, 200},
		StationsPerTarget: IntRange{3, 5},
		StationDistance:   Range{50, 500},
		StationZ:          Range{0, 30},
		PosNoiseStd:       5,
		AltNoiseStd:       5,
		AngleNoiseStd:     0.005,
	}
}

// GenerateScenario synthesizes ground-truth target positions and noisy
// measurements: for each target, it samples a position in the target
// ranges, then scatters a random number of stations on a ring around it
// (random bearing, random distance, random altitude), computes each
// station's true line-of-sight direction to the target, and perturbs both
// the station's position (uniform, ±PosNoiseStd/±AltNoiseStd) and its
// direction (uniform per-axis, ±AngleNoiseStd, then renormalized) before
// emitting the Measurement. rng must be non-nil for determinism.
func GenerateScenario(cfg ScenarioConfig, rng *rand.Rand) ([]Vec3, []Measurement) {
	var targets []Vec3
	var measurements []Measurement

	for i := 0; i < cfg.NumTargets; i++ {
		target := Vec3{
			X: cfg.TargetX.sample(rng),
			Y: cfg.TargetY.sample(rng),
			Z: cfg.TargetZ.sample(rng),
		}
		targets = append(targets, target)

		numStations := cfg.StationsPerTarget.sample(rng)
		for s := 0; s < numStations; s++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := cfg.StationDistance.sample(rng)
			trueStation := Vec3{
				X: target.X + dist*math.Cos(angle),
				Y: target.Y + dist*math.Sin(angle),
				Z: cfg.StationZ.sample(rng),
			}

			trueDir := target.Sub(trueStation)
			n := math.Sqrt(trueDir.Dot(trueDir))
			trueDir = trueDir.Scale(1 / n)

			measuredStation := Vec3{
				X: trueStation.X + uniformNoise(rng, cfg.PosNoiseStd),
				Y: trueStation.Y + uniformNoise(rng, cfg.PosNoiseStd),
				Z: trueStation.Z + uniformNoise(rng, cfg.AltNoiseStd),
			}

			measuredDir := Vec3{
				X: trueDir.X + uniformNoise(rng, cfg.AngleNoiseStd),
				Y: trueDir.Y + uniformNoise(rng, cfg.AngleNoiseStd),
				Z: trueDir.Z + uniformNoise(rng, cfg.AngleNoiseStd),
			}
			if dn := math.Sqrt(measuredDir.Dot(measuredDir)); dn > 0 {
				measuredDir = measuredDir.Scale(1 / dn)
			}

			measurements = append(measurements, Measurement{
				X: measuredStation.X, Y: measuredStation.Y, Z: measuredStation.Z,
				DX: measuredDir.X, DY: measuredDir.Y, DZ: measuredDir.Z,
			})
		}
	}

	return targets, measurements
}

// uniformNoise draws from [-halfWidth, halfWidth).
func uniformNoise(rng *rand.Rand, halfWidth float64) float64 {
	if halfWidth == 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * halfWidth
}
