// Package locator implements the multi-target angle-of-arrival localization
// pipeline: ray construction, RANSAC consensus fitting, Levenberg-Marquardt
// refinement, and the outer discover-one-target-at-a-time loop.
package locator

// Measurement is a single raw angle-of-arrival observation: a station origin
// and an (un-normalized) line-of-sight direction toward whatever produced the
// detection. Read-only to the pipeline; owned by the caller.
type Measurement struct {
	X, Y, Z    float64
	DX, DY, DZ float64
}

// Vec3 is a 3-D vector or point in the pipeline's working Cartesian frame.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Ray is an origin plus a unit-length direction. Immutable once built.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Hypothesis is a candidate target position together with the pool indices
// it explains. RansacFit does not use this type; it reports its winning
// hypothesis as a RANSACResult.
type Hypothesis struct {
	Position Vec3
	Inliers  []int
}

// LocatedTarget is one successfully discovered and refined target.
type LocatedTarget struct {
	ID            string
	Position      Vec3
	NumLines      int
	AvgErrorDistM float64
}
