package locator

import (
	"path/filepath"
	"testing"
)

func TestLoadRunCache_NotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	cache, err := LoadRunCache(path)
	if err != nil {
		t.Fatalf("LoadRunCache: %v", err)
	}
	if cache != nil {
		t.Errorf("cache = %+v, want nil for missing file", cache)
	}
}

func TestSaveAndLoadRunCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	targets := []LocatedTarget{
		{ID: "Target_1", Position: Vec3{1, 2, 3}, NumLines: 3, AvgErrorDistM: 0.01},
	}

	if err := SaveRunCache(path, &RunCache{Targets: targets}); err != nil {
		t.Fatalf("SaveRunCache: %v", err)
	}

	got, err := LoadRunCache(path)
	if err != nil {
		t.Fatalf("LoadRunCache: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil cache after save")
	}
	if len(got.Targets) != 1 || got.Targets[0].ID != "Target_1" {
		t.Errorf("Targets = %+v, want one Target_1 entry", got.Targets)
	}
	if got.LastUpdated == 0 {
		t.Error("LastUpdated should be set on save")
	}
}
