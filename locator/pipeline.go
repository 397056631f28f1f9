package locator

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// newRNG builds the pipeline's random source: seeded deterministically from
// cfg.RNGSeed when present (for reproducible tests and replays), otherwise
// from the wall clock, matching the teacher's ICPConfig.RNG convention.
func newRNG(cfg PipelineConfig) *rand.Rand {
	if cfg.RNGSeed != nil {
		return rand.New(rand.NewSource(*cfg.RNGSeed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// FindTargets is the multi-target outer loop from spec.md section 4.5: it
// builds rays from measurements, then repeatedly runs RANSAC over the
// not-yet-consumed rays, refines the winning hypothesis, records a
// LocatedTarget, and marks its inlier rays used — until RANSAC can no
// longer find a consensus of at least cfg.MinLinesPerTarget rays.
//
// Returns an error only for a degenerate measurement (zero-norm direction);
// every other termination condition (too few rays, no consensus) is
// reflected by simply returning fewer targets, never an error.
func FindTargets(measurements []Measurement, cfg PipelineConfig) ([]LocatedTarget, error) {
	rays := make([]Ray, len(measurements))
	for i, m := range measurements {
		r, err := BuildRay(m)
		if err != nil {
			return nil, fmt.Errorf("measurement %d: %w", i, err)
		}
		rays[i] = r
	}

	if len(rays) < cfg.MinLinesPerTarget {
		return nil, nil
	}

	rng := newRNG(cfg)
	used := make(map[int]bool)
	var out []LocatedTarget
	id := 1

	for {
		remaining, backmap := remainingRays(rays, used)
		if len(remaining) < cfg.MinLinesPerTarget {
			break
		}

		result := RansacFit(remaining, cfg.RansacIterations, cfg.RansacThreshold, cfg.MinLinesPerTarget, rng)
		if result == nil {
			break
		}

		originalIndices := make([]int, len(result.Inliers))
		inlierRays := make([]Ray, len(result.Inliers))
		for i, localIdx := range result.Inliers {
			origIdx := backmap[localIdx]
			originalIndices[i] = origIdx
			inlierRays[i] = rays[origIdx]
		}

		q := Refine(inlierRays, result.Seed, cfg)
		avgError := averageResidualDistance(inlierRays, q)

		out = append(out, LocatedTarget{
			ID:            fmt.Sprintf("Target_%d", id),
			Position:      q,
			NumLines:      len(inlierRays),
			AvgErrorDistM: avgError,
		})
		id++

		for _, origIdx := range originalIndices {
			used[origIdx] = true
		}
	}

	return out, nil
}

// remainingRays forms the not-yet-used subset of rays, along with a
// back-map from "index within remaining" to "index within rays" so the
// caller can translate RANSAC's pool-local inlier indices back to the
// original ray array before marking them used (spec.md section 9's
// back-mapping design note).
func remainingRays(rays []Ray, used map[int]bool) ([]Ray, []int) {
	remaining := make([]Ray, 0, len(rays))
	backmap := make([]int, 0, len(rays))
	for i, r := range rays {
		if used[i] {
			continue
		}
		remaining = append(remaining, r)
		backmap = append(backmap, i)
	}
	return remaining, backmap
}

func averageResidualDistance(rays []Ray, q Vec3) float64 {
	total := sumSquaredResiduals(rays, q)
	return math.Sqrt(total / float64(len(rays)))
}
