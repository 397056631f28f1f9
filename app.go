package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kwv/raylocate/locator"
)

// AppOptions bundles the CLI flags RunService needs.
type AppOptions struct {
	ConfigFile   string
	RunCachePath string
	MqttMode     bool
	HttpMode     bool
	HttpPort     int
}

// App wires together configuration, the measurement pool, MQTT ingestion,
// and the HTTP front end for service mode.
type App struct {
	Options      AppOptions
	Config       *locator.Config
	Stations     []locator.ResolvedStation
	StateTracker *locator.StateTracker
	Ingest       *locator.IngestClient
	Publisher    *locator.TargetPublisher
}

// NewApp creates an App with an empty state tracker.
func NewApp(opts AppOptions) *App {
	return &App{
		Options:      opts,
		StateTracker: locator.NewStateTrackerWithCache(opts.RunCachePath),
	}
}

// RunService loads configuration, resolves the station registry, and (per
// the enabled modes) starts MQTT ingestion and/or the HTTP server. It then
// blocks until an interrupt signal is received.
func (a *App) RunService() error {
	fmt.Println("starting raylocate service...")

	config, err := locator.LoadConfig(a.Options.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.Config = config
	log.Printf("loaded config from %s", a.Options.ConfigFile)

	stations, err := locator.ResolveStations(config.ToStations(), config.Reference)
	if err != nil {
		return fmt.Errorf("resolving stations: %w", err)
	}
	a.Stations = stations
	log.Printf("resolved %d station(s) to local ENU coordinates", len(stations))

	pipelineCfg := config.ToPipelineConfig()

	if a.Options.MqttMode {
		handler := func(stationID string, batch []locator.Measurement) {
			a.StateTracker.IngestBatch(stationID, batch)
			log.Printf("ingested %d measurement(s) from %s (pool size %d)",
				len(batch), stationID, a.StateTracker.PoolSize())

			measurements := a.StateTracker.AllMeasurements()
			targets, err := locator.FindTargets(measurements, pipelineCfg)
			if err != nil {
				log.Printf("error locating targets: %v", err)
				return
			}
			a.StateTracker.SetTargets(targets)
			a.StateTracker.ResetPool()
			log.Printf("located %d target(s)", len(targets))

			if a.Publisher != nil {
				if err := a.Publisher.Publish(targets); err != nil {
					log.Printf("error publishing targets: %v", err)
				}
			}
		}

		ingest, err := locator.NewIngestClient(config, handler)
		if err != nil {
			return fmt.Errorf("starting MQTT ingestion: %w", err)
		}
		a.Ingest = ingest
		a.Publisher = locator.NewTargetPublisher(nil, config.MQTT.PublishPrefix)
		fmt.Println("MQTT measurement ingestion initialized")
	}

	if a.Options.HttpMode {
		httpServer := newHTTPServer(a.StateTracker, a.Stations)
		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", a.Options.HttpPort)
			log.Printf("[HTTP] starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService running")
	fmt.Println("================")
	if a.Options.MqttMode {
		fmt.Println("\nMQTT:")
		for _, st := range a.Stations {
			fmt.Printf("  subscribed to %s (%s)\n", st.Topic, st.ID)
		}
	}
	if a.Options.HttpMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.Options.HttpPort)
		fmt.Println("  GET /health       - health check")
		fmt.Println("  GET /targets      - current located targets (JSON)")
		fmt.Println("  GET /targets.png  - raster plot of targets and stations")
		fmt.Println("  GET /targets.svg  - vector plot of targets and stations")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nshutting down...")
	if a.Ingest != nil {
		a.Ingest.Disconnect()
	}
	return nil
}
