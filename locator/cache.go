package locator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultRunCachePath is the default path for the last-run cache.
const DefaultRunCachePath = ".raylocate-cache.json"

// RunCache stores the most recent located targets and the Unix time they
// were saved, so a restarted service can report the last known solution
// without re-ingesting measurements. The pipeline configuration that
// produced the targets is not stored, and the CLI's --measurements and
// --generate runs only write the cache, never read it.
type RunCache struct {
	Targets     []LocatedTarget `json:"targets"`
	LastUpdated int64           `json:"lastUpdated"`
}

// LoadRunCache loads the cache from a JSON file. A missing file is not an
// error: it means no run has completed yet.
func LoadRunCache(path string) (*RunCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run cache: %w", err)
	}

	var cache RunCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing run cache: %w", err)
	}
	return &cache, nil
}

// SaveRunCache writes the cache to a JSON file, creating parent directories
// as needed.
func SaveRunCache(path string, cache *RunCache) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating run cache directory: %w", err)
	}

	cache.LastUpdated = time.Now().Unix()

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run cache: %w", err)
	}
	return nil
}
