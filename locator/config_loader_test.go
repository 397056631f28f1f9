package locator

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfigYAML() string {
	return `mqtt:
  broker: tcp://localhost:1883
  publishPrefix: raylocate
  clientId: raylocate-test
stations:
  - id: station-a
    lat: 52.0
    lon: 4.0
    alt_m: 10
    topic: stations/station-a
  - id: station-b
    lat: 52.01
    lon: 4.01
    alt_m: 12
    topic: stations/station-b
pipeline:
  ransac_threshold: 2.5
  min_lines_per_target: 4
  refiner: gd
  gd_learning_rate: 0.02
`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestLoadConfig_NotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, validConfigYAML())

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("Broker = %q, want tcp://localhost:1883", cfg.MQTT.Broker)
	}
	if len(cfg.Stations) != 2 {
		t.Fatalf("len(Stations) = %d, want 2", len(cfg.Stations))
	}
	if cfg.Stations[0].ID != "station-a" {
		t.Errorf("Stations[0].ID = %q, want station-a", cfg.Stations[0].ID)
	}
}

func TestLoadConfig_NoStations(t *testing.T) {
	path := writeConfig(t, "mqtt:\n  broker: tcp://localhost:1883\nstations: []\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for empty stations, got nil")
	}
}

func TestLoadConfig_StationMissingID(t *testing.T) {
	path := writeConfig(t, "stations:\n  - topic: stations/x\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for station missing id, got nil")
	}
}

func TestLoadConfig_StationMissingTopic(t *testing.T) {
	path := writeConfig(t, "stations:\n  - id: station-a\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for station missing topic, got nil")
	}
}

func TestConfig_ToPipelineConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, validConfigYAML())
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	pc := cfg.ToPipelineConfig()
	if pc.RansacThreshold != 2.5 {
		t.Errorf("RansacThreshold = %v, want 2.5", pc.RansacThreshold)
	}
	if pc.MinLinesPerTarget != 4 {
		t.Errorf("MinLinesPerTarget = %v, want 4", pc.MinLinesPerTarget)
	}
	if pc.Refiner != RefinerGD {
		t.Errorf("Refiner = %v, want gd", pc.Refiner)
	}
	if pc.GDLearningRate != 0.02 {
		t.Errorf("GDLearningRate = %v, want 0.02", pc.GDLearningRate)
	}
	// Unset fields fall back to defaults.
	if pc.RefinerMaxIters != DefaultRefinerMaxIters {
		t.Errorf("RefinerMaxIters = %v, want default %v", pc.RefinerMaxIters, DefaultRefinerMaxIters)
	}
}

func TestConfig_RequireMQTT(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireMQTT(); err == nil {
		t.Fatal("expected error for missing broker, got nil")
	}
	cfg.MQTT.Broker = "tcp://localhost:1883"
	if err := cfg.RequireMQTT(); err != nil {
		t.Errorf("RequireMQTT: %v", err)
	}
}

func TestConfig_ToStations(t *testing.T) {
	path := writeConfig(t, validConfigYAML())
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	stations := cfg.ToStations()
	if len(stations) != 2 {
		t.Fatalf("len(stations) = %d, want 2", len(stations))
	}
	if stations[0].Lat != 52.0 {
		t.Errorf("Lat = %v, want 52.0", stations[0].Lat)
	}
}
