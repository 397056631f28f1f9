package locator

import "math"

// directionEpsilon is the minimum direction-vector norm accepted by
// BuildRay; anything below it is a degenerate measurement.
const directionEpsilon = 1e-10

// BuildRay converts a raw Measurement into a Ray with a unit-length
// direction. Returns ErrDegenerateMeasurement if the measurement's direction
// vector has norm below directionEpsilon.
func BuildRay(m Measurement) (Ray, error) {
	d := Vec3{m.DX, m.DY, m.DZ}
	n := math.Sqrt(d.Dot(d))
	if n < directionEpsilon {
		return Ray{}, ErrDegenerateMeasurement
	}
	return Ray{
		Origin:    Vec3{m.X, m.Y, m.Z},
		Direction: d.Scale(1 / n),
	}, nil
}

// BuildRays converts a slice of measurements to rays, preserving their
// order. A degenerate measurement is skipped rather than aborting the whole
// batch, so once one is skipped the indices of later rays no longer match
// their measurements; callers that need BuildRay's fatal semantics or
// one-to-one indices should call it directly.
func BuildRays(ms []Measurement) []Ray {
	rays := make([]Ray, 0, len(ms))
	for _, m := range ms {
		r, err := BuildRay(m)
		if err != nil {
			continue
		}
		rays = append(rays, r)
	}
	return rays
}
