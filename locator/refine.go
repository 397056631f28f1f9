package locator

// RefinerKind selects which nonlinear refiner PipelineConfig.Refiner uses.
type RefinerKind string

const (
	// RefinerLM is the canonical Levenberg-Marquardt refiner.
	RefinerLM RefinerKind = "lm"
	// RefinerGD is the dependency-free gradient-descent fallback.
	RefinerGD RefinerKind = "gd"
)

// DefaultRefinerMaxIters, DefaultLMInitialLambda and DefaultGDLearningRate
// are the defaults observed in the source (spec.md section 4.4).
const (
	DefaultRefinerMaxIters = 200
	DefaultLMInitialLambda = 0.001
	DefaultGDLearningRate  = 0.001
)

// RefineLM minimizes F(q) = Σ ‖rᵢ(q)‖² over rays using damped Gauss-Newton
// (Levenberg-Marquardt), starting from q0. Per iteration it builds the
// stacked residual and Jacobian, forms H = JᵀJ and g = Jᵀe, solves
// (H + λI)·Δ = -g, and accepts the step only if it decreases F; λ is
// relaxed on acceptance and tightened on rejection or singularity. There is
// no convergence tolerance — the iteration cap is the sole stopping
// condition (spec.md section 9 Open Questions).
func RefineLM(rays []Ray, q0 Vec3, maxIters int, lambda0 float64) Vec3 {
	q := q0
	lambda := lambda0
	currentF := sumSquaredResiduals(rays, q)

	for iter := 0; iter < maxIters; iter++ {
		resid, jac := residualsAndJacobian(rays, q)

		var h mat3
		var g Vec3
		for i := range rays {
			h = h.addScaled(jac[i].transposeMulSelf(), 1)
			g = g.Add(jac[i].transposeMulVec(resid[i]))
		}

		damped := h.addScaled(identity3(), lambda)
		delta, ok := solve3(damped, Vec3{-g.X, -g.Y, -g.Z})
		if !ok {
			lambda *= 10
			continue
		}

		candidate := q.Add(delta)
		candidateF := sumSquaredResiduals(rays, candidate)

		if candidateF < currentF {
			q = candidate
			currentF = candidateF
			lambda *= 0.1
		} else {
			lambda *= 10
		}
	}

	return q
}

// RefineGD minimizes F(q) via plain gradient descent, provided as a
// dependency-free fallback for environments without 3x3 linear algebra.
// Each step moves q against the sum of per-ray perpendicular residual
// vectors scaled by 2 — the gradient of Σ‖rᵢ‖² treating each residual as
// already orthogonal to its own Jacobian's null space, matching the
// source's simpler branch.
func RefineGD(rays []Ray, q0 Vec3, maxIters int, learningRate float64) Vec3 {
	q := q0
	for iter := 0; iter < maxIters; iter++ {
		var grad Vec3
		for _, r := range rays {
			resid := pointToRayResidual(q, r)
			grad = grad.Add(resid.Scale(2))
		}
		q = q.Add(grad.Scale(-learningRate))
	}
	return q
}

// Refine dispatches to RefineLM or RefineGD per cfg.Refiner.
func Refine(rays []Ray, q0 Vec3, cfg PipelineConfig) Vec3 {
	switch cfg.Refiner {
	case RefinerGD:
		return RefineGD(rays, q0, cfg.RefinerMaxIters, cfg.GDLearningRate)
	default:
		return RefineLM(rays, q0, cfg.RefinerMaxIters, cfg.LMInitialLambda)
	}
}
