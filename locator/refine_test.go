package locator

import "testing"

// Scenario D from spec.md section 8: LM from a far seed converges to the
// true intersection of two perpendicular rays.
func TestRefineLM_FarSeed(t *testing.T) {
	rays := []Ray{
		{Origin: Vec3{-10, 0, 10}, Direction: Vec3{1, 0, 0}},
		{Origin: Vec3{0, -10, 10}, Direction: Vec3{0, 1, 0}},
	}

	got := RefineLM(rays, Vec3{100, 100, 100}, 200, 0.01)
	want := Vec3{0, 0, 10}
	if !vecApprox(got, want, 1e-6) {
		t.Errorf("RefineLM = %+v, want %+v", got, want)
	}
}

func TestRefineGD_ConvergesNearTruth(t *testing.T) {
	rays := []Ray{
		{Origin: Vec3{-10, 0, 10}, Direction: Vec3{1, 0, 0}},
		{Origin: Vec3{0, -10, 10}, Direction: Vec3{0, 1, 0}},
	}

	got := RefineGD(rays, Vec3{5, 5, 10}, 2000, 0.01)
	want := Vec3{0, 0, 10}
	if !vecApprox(got, want, 1e-3) {
		t.Errorf("RefineGD = %+v, want approximately %+v", got, want)
	}
}

func TestRefine_DispatchesOnKind(t *testing.T) {
	rays := []Ray{
		{Origin: Vec3{-10, 0, 10}, Direction: Vec3{1, 0, 0}},
		{Origin: Vec3{0, -10, 10}, Direction: Vec3{0, 1, 0}},
	}
	cfg := DefaultPipelineConfig()
	cfg.Refiner = RefinerGD
	cfg.RefinerMaxIters = 2000
	cfg.GDLearningRate = 0.01

	got := Refine(rays, Vec3{5, 5, 10}, cfg)
	want := Vec3{0, 0, 10}
	if !vecApprox(got, want, 1e-3) {
		t.Errorf("Refine(gd) = %+v, want approximately %+v", got, want)
	}
}
