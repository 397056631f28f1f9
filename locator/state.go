package locator

import (
	"log"
	"sync"
	"time"
)

// StateTracker accumulates incoming measurements per station and tracks the
// most recent located-target solution, for use by HTTP endpoints and the
// MQTT ingestion loop. All methods are safe for concurrent use.
type StateTracker struct {
	mu          sync.RWMutex
	pool        map[string][]Measurement // station ID -> accumulated measurements
	lastTargets []LocatedTarget
	lastUpdated time.Time
	cachePath   string // path to run cache file; empty disables persistence
}

// NewStateTracker creates an empty tracker with no cache persistence.
func NewStateTracker() *StateTracker {
	return &StateTracker{pool: make(map[string][]Measurement)}
}

// NewStateTrackerWithCache creates a tracker that persists the latest
// located targets to cachePath. If the file exists, it is loaded immediately.
func NewStateTrackerWithCache(cachePath string) *StateTracker {
	st := &StateTracker{pool: make(map[string][]Measurement), cachePath: cachePath}
	if cachePath != "" {
		if cache, err := LoadRunCache(cachePath); err == nil && cache != nil {
			st.lastTargets = cache.Targets
			st.lastUpdated = time.Unix(cache.LastUpdated, 0)
		}
	}
	return st
}

// IngestBatch appends a station's measurement batch to the accumulated pool.
func (st *StateTracker) IngestBatch(stationID string, batch []Measurement) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pool[stationID] = append(st.pool[stationID], batch...)
}

// ResetPool discards all accumulated measurements, keeping the last
// solution intact. Called after a FindTargets run consumes the pool.
func (st *StateTracker) ResetPool() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pool = make(map[string][]Measurement)
}

// AllMeasurements flattens the accumulated pool across all stations.
func (st *StateTracker) AllMeasurements() []Measurement {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []Measurement
	for _, ms := range st.pool {
		out = append(out, ms...)
	}
	return out
}

// PoolSize returns the number of accumulated measurements across all stations.
func (st *StateTracker) PoolSize() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	n := 0
	for _, ms := range st.pool {
		n += len(ms)
	}
	return n
}

// SetTargets records a freshly computed solution as the current one,
// persisting it to the run cache if one is configured.
func (st *StateTracker) SetTargets(targets []LocatedTarget) {
	st.mu.Lock()
	st.lastTargets = targets
	st.lastUpdated = time.Now()
	cachePath := st.cachePath
	st.mu.Unlock()

	if cachePath != "" {
		cache := &RunCache{Targets: targets}
		if err := SaveRunCache(cachePath, cache); err != nil {
			log.Printf("warning: failed to save run cache: %v", err)
		}
	}
}

// Targets returns the most recently computed solution.
func (st *StateTracker) Targets() []LocatedTarget {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]LocatedTarget, len(st.lastTargets))
	copy(out, st.lastTargets)
	return out
}

// LastUpdated returns the time the current solution was computed.
func (st *StateTracker) LastUpdated() time.Time {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.lastUpdated
}
