package locator

import "math/rand"

// RANSACResult is the winning hypothesis returned by RansacFit: the seed
// position and the pool indices (not original-measurement indices; the
// caller's pool) it explains.
type RANSACResult struct {
	Seed    Vec3
	Inliers []int
}

// minPoolForDistinctSampling is the smallest pool size at which RansacFit
// samples triples at random; below it (at most 10 triples), every
// 3-combination is tried once instead (see spec.md section 9 Open Questions: avoid wasting all
// iterations resampling the same handful of triples).
const minPoolForDistinctSampling = 6

// RansacFit implements the consensus fitter from spec.md section 4.3: it
// draws `iterations` 3-sample hypotheses from pool (or, when the pool is
// small enough that all 3-combinations can be enumerated cheaply, tries
// every one of them instead), scores each by inlier count under threshold,
// and returns the best-scoring hypothesis — nil if the pool has fewer than
// 3 rays or no hypothesis reaches minLines inliers.
//
// rng must be non-nil; callers seed it for deterministic behavior.
func RansacFit(pool []Ray, iterations int, threshold float64, minLines int, rng *rand.Rand) *RANSACResult {
	n := len(pool)
	if n < 3 {
		return nil
	}

	var best *RANSACResult
	bestCount := -1

	tryTriple := func(i, j, k int) {
		seed := averageOfThreeMidpoints(pool[i], pool[j], pool[k])
		inliers := inliersWithin(pool, seed, threshold)
		if len(inliers) > bestCount && len(inliers) >= minLines {
			bestCount = len(inliers)
			best = &RANSACResult{Seed: seed, Inliers: inliers}
		}
	}

	if n < minPoolForDistinctSampling {
		// Small pool: (n choose 3) is cheap and `iterations` random draws
		// would mostly resample the same few triples. Enumerate instead.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				for k := j + 1; k < n; k++ {
					tryTriple(i, j, k)
				}
			}
		}
		return best
	}

	for iter := 0; iter < iterations; iter++ {
		i, j, k := sampleDistinctTriple(n, rng)
		tryTriple(i, j, k)
	}
	return best
}

// sampleDistinctTriple draws 3 distinct indices in [0, n) uniformly at
// random via rejection sampling, per spec.md section 9's design note —
// cheaper than a full permutation for large pools.
func sampleDistinctTriple(n int, rng *rand.Rand) (int, int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	k := rng.Intn(n)
	for k == i || k == j {
		k = rng.Intn(n)
	}
	return i, j, k
}

func averageOfThreeMidpoints(a, b, c Ray) Vec3 {
	mAB := ClosestMidpoint(a, b)
	mAC := ClosestMidpoint(a, c)
	mBC := ClosestMidpoint(b, c)
	return mAB.Add(mAC).Add(mBC).Scale(1.0 / 3.0)
}

func inliersWithin(pool []Ray, seed Vec3, threshold float64) []int {
	var inliers []int
	for i, r := range pool {
		if PointToRayDistance(seed, r) < threshold {
			inliers = append(inliers, i)
		}
	}
	return inliers
}
