package locator

import "math"

// nearParallelEpsilon is the Δ = a·c − b² threshold below which two rays are
// treated as near-parallel and ClosestMidpoint falls back to the midpoint of
// the two origins.
const nearParallelEpsilon = 1e-6

// ClosestMidpoint returns the midpoint of the shortest segment connecting
// two skew rays. It is used only to seed RANSAC hypotheses, never as a
// final estimate. Near-parallel rays (|Δ| < nearParallelEpsilon) fall back
// to the midpoint of the two origins rather than producing NaN.
func ClosestMidpoint(l1, l2 Ray) Vec3 {
	w := l1.Origin.Sub(l2.Origin)
	a := l1.Direction.Dot(l1.Direction)
	b := l1.Direction.Dot(l2.Direction)
	c := l2.Direction.Dot(l2.Direction)
	d := l1.Direction.Dot(w)
	e := l2.Direction.Dot(w)
	delta := a*c - b*b

	if math.Abs(delta) < nearParallelEpsilon {
		return l1.Origin.Add(l2.Origin).Scale(0.5)
	}

	s := (b*e - c*d) / delta
	t := (a*e - b*d) / delta
	p1 := l1.Origin.Add(l1.Direction.Scale(s))
	p2 := l2.Origin.Add(l2.Direction.Scale(t))
	return p1.Add(p2).Scale(0.5)
}

// PointToRayDistance returns the perpendicular distance from q to the ray
// (p, d) with ‖d‖ = 1.
func PointToRayDistance(q Vec3, r Ray) float64 {
	resid := pointToRayResidual(q, r)
	return math.Sqrt(resid.Dot(resid))
}

// pointToRayResidual is the perpendicular residual vector used both for
// distance checks and as a row of the refiner's stacked residual vector:
// r = (q - p) - d * ((q - p)·d).
func pointToRayResidual(q Vec3, r Ray) Vec3 {
	v := q.Sub(r.Origin)
	sigma := v.Dot(r.Direction)
	return v.Sub(r.Direction.Scale(sigma))
}

// residualsAndJacobian stacks the per-ray perpendicular residuals at q into
// a length-3n vector (returned as one Vec3 per ray) along with the 3x3
// Jacobian block (I - d dᵀ) for each ray, which is constant per-ray and
// independent of q.
func residualsAndJacobian(rays []Ray, q Vec3) ([]Vec3, []mat3) {
	resid := make([]Vec3, len(rays))
	jac := make([]mat3, len(rays))
	for i, r := range rays {
		resid[i] = pointToRayResidual(q, r)
		jac[i] = identityMinusOuter(r.Direction)
	}
	return resid, jac
}

// sumSquaredResiduals evaluates F(q) = Σ ‖rᵢ(q)‖².
func sumSquaredResiduals(rays []Ray, q Vec3) float64 {
	total := 0.0
	for _, r := range rays {
		resid := pointToRayResidual(q, r)
		total += resid.Dot(resid)
	}
	return total
}

// mat3 is a 3x3 matrix in row-major order, used only by the refiner for the
// per-ray Jacobian block and the accumulated Gauss-Newton Hessian.
type mat3 [3][3]float64

func identityMinusOuter(d Vec3) mat3 {
	return mat3{
		{1 - d.X*d.X, -d.X * d.Y, -d.X * d.Z},
		{-d.Y * d.X, 1 - d.Y*d.Y, -d.Y * d.Z},
		{-d.Z * d.X, -d.Z * d.Y, 1 - d.Z*d.Z},
	}
}

func (m mat3) addScaled(o mat3, s float64) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + o[i][j]*s
		}
	}
	return out
}

// transposeMulVec computes Jᵀv for the 3x3 block J, where v is treated as a
// length-3 column vector.
func (m mat3) transposeMulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}

// transposeMulSelf computes JᵀJ for the (symmetric) 3x3 block J.
func (m mat3) transposeMulSelf() mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += m[k][i] * m[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func identity3() mat3 {
	return mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// determinant3 computes the determinant of a 3x3 matrix.
func determinant3(m mat3) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// singularDeterminantEpsilon is the threshold below which a 3x3 matrix is
// treated as non-invertible, per spec.md section 5's numerical-resource
// discipline (detect singularity rather than produce NaN).
const singularDeterminantEpsilon = 1e-12

// solve3 solves m·x = v via Cramer's rule, reporting singularity explicitly
// instead of dividing by a near-zero determinant.
func solve3(m mat3, v Vec3) (Vec3, bool) {
	det := determinant3(m)
	if math.Abs(det) < singularDeterminantEpsilon {
		return Vec3{}, false
	}

	mx := m
	mx[0][0], mx[1][0], mx[2][0] = v.X, v.Y, v.Z
	my := m
	my[0][1], my[1][1], my[2][1] = v.X, v.Y, v.Z
	mz := m
	mz[0][2], mz[1][2], mz[2][2] = v.X, v.Y, v.Z

	return Vec3{
		X: determinant3(mx) / det,
		Y: determinant3(my) / det,
		Z: determinant3(mz) / det,
	}, true
}
