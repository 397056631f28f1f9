package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/kwv/raylocate/locator"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	measurementsFile = flag.String("measurements", "", "Path to a CSV file of ray measurements (x,y,z,dx,dy,dz)")
	generate         = flag.Bool("generate", false, "Generate a synthetic scenario instead of reading --measurements")
	generateSeed     = flag.Int64("generate-seed", 1, "RNG seed for --generate")
	outputFile       = flag.String("output", "", "Write the CSV measurements generated by --generate to this path")
	configFile       = flag.String("config", "config.yaml", "Path to service configuration file")
	mqttMode         = flag.Bool("mqtt", false, "Run MQTT ingestion service mode")
	httpMode         = flag.Bool("http", false, "Enable HTTP server for serving located targets")
	httpPort         = flag.Int("http-port", 8080, "HTTP server port")
	runCachePath     = flag.String("cache", locator.DefaultRunCachePath, "Path to run cache file")
	ransacThreshold  = flag.Float64("ransac-threshold", 0, "Override pipeline RANSAC inlier distance threshold (meters)")
	minLines         = flag.Int("min-lines", 0, "Override pipeline minimum supporting rays per target")
	refinerFlag      = flag.String("refiner", "", "Override pipeline refiner: lm or gd")
	rngSeed          = flag.Int64("seed", 0, "Seed the pipeline RNG for reproducible runs (0 = unseeded)")
)

func main() {
	flag.Parse()
	fmt.Printf("raylocate version: %s\n", Version)

	if *generate {
		runGenerate()
		return
	}

	if *mqttMode || *httpMode {
		runService()
		return
	}

	if *measurementsFile != "" {
		runLocate()
		return
	}

	fmt.Println("Use --measurements <file> to locate targets from a CSV of ray measurements")
	fmt.Println("Use --generate to produce a synthetic scenario")
	fmt.Println("Use --mqtt and/or --http to run service mode")
}

// runGenerate synthesizes a scenario and writes its measurements as CSV,
// either to --output or to stdout.
func runGenerate() {
	rng := rand.New(rand.NewSource(*generateSeed))
	targets, measurements := locator.GenerateScenario(locator.DefaultScenarioConfig(), rng)

	log.Printf("generated %d target(s) and %d measurement(s)", len(targets), len(measurements))
	for i, t := range targets {
		log.Printf("  true target %d: (%.2f, %.2f, %.2f)", i+1, t.X, t.Y, t.Z)
	}

	var w io.Writer = os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatalf("creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeMeasurementsCSV(w, measurements); err != nil {
		log.Fatalf("writing measurements: %v", err)
	}
}

// runLocate reads measurements from --measurements and runs the pipeline
// once, printing the located targets to stdout.
func runLocate() {
	measurements, err := readMeasurementsCSV(*measurementsFile)
	if err != nil {
		log.Fatalf("reading measurements: %v", err)
	}

	cfg := locator.DefaultPipelineConfig()
	applyPipelineOverrides(&cfg)

	targets, err := locator.FindTargets(measurements, cfg)
	if err != nil {
		log.Fatalf("locating targets: %v", err)
	}

	fmt.Printf("located %d target(s) from %d measurement(s)\n", len(targets), len(measurements))
	for _, t := range targets {
		fmt.Printf("  %s: (%.3f, %.3f, %.3f) numLines=%d avgErrorDistM=%.4f\n",
			t.ID, t.Position.X, t.Position.Y, t.Position.Z, t.NumLines, t.AvgErrorDistM)
	}

	if *runCachePath != "" {
		if err := locator.SaveRunCache(*runCachePath, &locator.RunCache{Targets: targets}); err != nil {
			log.Printf("warning: failed to save run cache: %v", err)
		}
	}
}

// runService starts the long-running MQTT/HTTP service.
func runService() {
	app := NewApp(AppOptions{
		ConfigFile:   *configFile,
		RunCachePath: *runCachePath,
		MqttMode:     *mqttMode,
		HttpMode:     *httpMode,
		HttpPort:     *httpPort,
	})
	if err := app.RunService(); err != nil {
		log.Fatalf("service error: %v", err)
	}
}

// applyPipelineOverrides merges CLI overrides onto the default pipeline
// configuration.
func applyPipelineOverrides(cfg *locator.PipelineConfig) {
	if *ransacThreshold > 0 {
		cfg.RansacThreshold = *ransacThreshold
	}
	if *minLines > 0 {
		cfg.MinLinesPerTarget = *minLines
	}
	switch *refinerFlag {
	case "lm":
		cfg.Refiner = locator.RefinerLM
	case "gd":
		cfg.Refiner = locator.RefinerGD
	}
	if *rngSeed != 0 {
		seed := *rngSeed
		cfg.RNGSeed = &seed
	}
}

// measurementCSVHeader is the expected column order for measurement CSVs.
var measurementCSVHeader = []string{"x", "y", "z", "dx", "dy", "dz"}

func writeMeasurementsCSV(w io.Writer, measurements []locator.Measurement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(measurementCSVHeader); err != nil {
		return err
	}
	for _, m := range measurements {
		record := []string{
			strconv.FormatFloat(m.X, 'f', -1, 64),
			strconv.FormatFloat(m.Y, 'f', -1, 64),
			strconv.FormatFloat(m.Z, 'f', -1, 64),
			strconv.FormatFloat(m.DX, 'f', -1, 64),
			strconv.FormatFloat(m.DY, 'f', -1, 64),
			strconv.FormatFloat(m.DZ, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readMeasurementsCSV(path string) ([]locator.Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty measurements file")
	}

	start := 0
	if len(records[0]) > 0 && records[0][0] == "x" {
		start = 1 // skip header
	}

	measurements := make([]locator.Measurement, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		row := records[i]
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", i+1, len(row))
		}
		vals := make([]float64, 6)
		for j := 0; j < 6; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
			vals[j] = v
		}
		measurements = append(measurements, locator.Measurement{
			X: vals[0], Y: vals[1], Z: vals[2],
			DX: vals[3], DY: vals[4], DZ: vals[5],
		})
	}
	return measurements, nil
}

// writePNG is a thin wrapper kept alongside main so handlers.go doesn't need
// to import image/png directly.
func writePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
