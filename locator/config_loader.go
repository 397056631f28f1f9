package locator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MQTTConfig holds MQTT connection settings for measurement ingestion and
// target publication.
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	PublishPrefix string `yaml:"publishPrefix" json:"publishPrefix"`
	ClientID      string `yaml:"clientId" json:"clientId"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
}

// StationConfig is a station entry as it appears in the YAML config file.
type StationConfig struct {
	ID    string  `yaml:"id" json:"id"`
	Lat   float64 `yaml:"lat" json:"lat"`
	Lon   float64 `yaml:"lon" json:"lon"`
	AltM  float64 `yaml:"alt_m" json:"alt_m"`
	Topic string  `yaml:"topic" json:"topic"`
}

// PipelineFileConfig is PipelineConfig as it appears in the YAML config
// file; RNGSeed is a plain pointer since int64 marshals cleanly via yaml.v3.
type PipelineFileConfig struct {
	RansacThreshold   float64     `yaml:"ransac_threshold,omitempty" json:"ransac_threshold,omitempty"`
	MinLinesPerTarget int         `yaml:"min_lines_per_target,omitempty" json:"min_lines_per_target,omitempty"`
	RansacIterations  int         `yaml:"ransac_iterations,omitempty" json:"ransac_iterations,omitempty"`
	RefinerMaxIters   int         `yaml:"refiner_max_iters,omitempty" json:"refiner_max_iters,omitempty"`
	LMInitialLambda   float64     `yaml:"lm_initial_lambda,omitempty" json:"lm_initial_lambda,omitempty"`
	GDLearningRate    float64     `yaml:"gd_learning_rate,omitempty" json:"gd_learning_rate,omitempty"`
	Refiner           RefinerKind `yaml:"refiner,omitempty" json:"refiner,omitempty"`
	RNGSeed           *int64      `yaml:"rng_seed,omitempty" json:"rng_seed,omitempty"`
}

// Config is the full service configuration file: MQTT connection, station
// registry, and pipeline tuning, mirroring the teacher's unified config
// shape (MQTT + entity list + tuning knobs in one YAML document).
type Config struct {
	MQTT      MQTTConfig         `yaml:"mqtt" json:"mqtt"`
	Stations  []StationConfig    `yaml:"stations" json:"stations"`
	Reference string             `yaml:"reference,omitempty" json:"reference,omitempty"`
	Pipeline  PipelineFileConfig `yaml:"pipeline,omitempty" json:"pipeline,omitempty"`
}

// ToPipelineConfig merges the file's pipeline overrides onto the defaults,
// leaving anything left zero-valued in the file at its default.
func (c *Config) ToPipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	p := c.Pipeline
	if p.RansacThreshold != 0 {
		cfg.RansacThreshold = p.RansacThreshold
	}
	if p.MinLinesPerTarget != 0 {
		cfg.MinLinesPerTarget = p.MinLinesPerTarget
	}
	if p.RansacIterations != 0 {
		cfg.RansacIterations = p.RansacIterations
	}
	if p.RefinerMaxIters != 0 {
		cfg.RefinerMaxIters = p.RefinerMaxIters
	}
	if p.LMInitialLambda != 0 {
		cfg.LMInitialLambda = p.LMInitialLambda
	}
	if p.GDLearningRate != 0 {
		cfg.GDLearningRate = p.GDLearningRate
	}
	if p.Refiner != "" {
		cfg.Refiner = p.Refiner
	}
	if p.RNGSeed != nil {
		cfg.RNGSeed = p.RNGSeed
	}
	return cfg
}

// ToStations converts the file's station entries into the Station type the
// pipeline's geodetic resolver consumes.
func (c *Config) ToStations() []Station {
	out := make([]Station, len(c.Stations))
	for i, sc := range c.Stations {
		out[i] = Station{ID: sc.ID, Lat: sc.Lat, Lon: sc.Lon, AltM: sc.AltM, Topic: sc.Topic}
	}
	return out
}

// LoadConfig loads the service configuration from a YAML file, validating
// the fields a running service cannot do without.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if len(config.Stations) == 0 {
		return nil, fmt.Errorf("at least one station must be defined")
	}
	for i, sc := range config.Stations {
		if sc.ID == "" {
			return nil, fmt.Errorf("stations[%d].id is required", i)
		}
		if sc.Topic == "" {
			return nil, fmt.Errorf("stations[%d].topic is required for %s", i, sc.ID)
		}
	}

	return &config, nil
}

// RequireMQTT validates the fields needed to actually connect to a broker;
// called only by the MQTT front end, since --measurements/--generate runs
// never touch the network.
func (c *Config) RequireMQTT() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	return nil
}

// SaveConfig writes the configuration back to a YAML file. Nothing in this
// module calls it; --generate writes only the measurements CSV.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
