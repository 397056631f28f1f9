package locator

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleScene() (stations []ResolvedStation, rays []Ray, targets []LocatedTarget) {
	stations = []ResolvedStation{
		{Station: Station{ID: "s1"}, Origin: Vec3{0, 0, 0}},
		{Station: Station{ID: "s2"}, Origin: Vec3{100, 0, 0}},
	}
	rays = []Ray{
		{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}},
		{Origin: Vec3{100, 0, 0}, Direction: Vec3{-1, 0, 0}},
	}
	targets = []LocatedTarget{
		{ID: "Target_1", Position: Vec3{50, 10, 0}},
	}
	return
}

func TestSceneRenderer_RenderProducesNonEmptyImage(t *testing.T) {
	stations, rays, targets := sampleScene()
	r := NewSceneRenderer(stations, rays, targets)
	img := r.Render()

	bounds := img.Bounds()
	if bounds.Dx() < 100 || bounds.Dy() < 100 {
		t.Errorf("image bounds = %+v, want at least 100x100", bounds)
	}
}

func TestSceneRenderer_BoundsDefaultsWhenEmpty(t *testing.T) {
	r := NewSceneRenderer(nil, nil, nil)
	minX, minY, maxX, maxY := r.bounds()
	if minX != -10 || minY != -10 || maxX != 10 || maxY != 10 {
		t.Errorf("bounds() = (%v,%v,%v,%v), want (-10,-10,10,10) default", minX, minY, maxX, maxY)
	}
}

func TestSceneRenderer_SavePNG(t *testing.T) {
	stations, rays, targets := sampleScene()
	r := NewSceneRenderer(stations, rays, targets)

	path := filepath.Join(t.TempDir(), "scene.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty PNG file")
	}
}
