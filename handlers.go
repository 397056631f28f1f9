package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kwv/raylocate/locator"
)

// newHTTPServer creates an HTTP server exposing the current located-target
// solution as JSON and as raster/vector plots.
func newHTTPServer(state *locator.StateTracker, stations []locator.ResolvedStation) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status      string    `json:"status"`
			Timestamp   time.Time `json:"timestamp"`
			TargetCount int       `json:"targetCount"`
		}{
			Status:      "ok",
			Timestamp:   time.Now(),
			TargetCount: len(state.Targets()),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("error encoding health status: %v", err)
		}
	})

	mux.HandleFunc("/targets", func(w http.ResponseWriter, r *http.Request) {
		targets := state.Targets()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		payload := struct {
			Targets     []locator.LocatedTarget `json:"targets"`
			LastUpdated time.Time               `json:"lastUpdated"`
		}{Targets: targets, LastUpdated: state.LastUpdated()}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("error encoding targets: %v", err)
		}
	})

	mux.HandleFunc("/targets.png", func(w http.ResponseWriter, r *http.Request) {
		targets := state.Targets()
		if len(targets) == 0 {
			http.Error(w, "no located targets available", http.StatusServiceUnavailable)
			return
		}
		renderer := locator.NewSceneRenderer(stations, nil, targets)
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		img := renderer.Render()
		if err := writePNG(w, img); err != nil {
			log.Printf("error encoding targets PNG: %v", err)
		}
	})

	mux.HandleFunc("/targets.svg", func(w http.ResponseWriter, r *http.Request) {
		targets := state.Targets()
		if len(targets) == 0 {
			http.Error(w, "no located targets available", http.StatusServiceUnavailable)
			return
		}
		vectorRenderer := locator.NewVectorRenderer(stations, nil, targets)
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		if err := vectorRenderer.RenderToSVG(w); err != nil {
			log.Printf("error encoding targets SVG: %v", err)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>raylocate</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
html,body{width:100%;height:100%;overflow:hidden;background:#1a1a1a}
img{display:block;width:100vw;height:100vh;object-fit:contain}
</style>
</head>
<body>
<img src="/targets.svg" alt="Located Targets">
</body>
</html>`)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		mux.ServeHTTP(w, r)
	})
}
