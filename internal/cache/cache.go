// Package cache persists resolved coordinates between runs in a flat JSON
// file. Each normalized address maps to a [lat, lon] pair, or to null when
// every provider came back empty, so known-bad addresses are not re-queried.
// There is no expiration: staleness is fixed by deleting the file.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Houeta/transitlink/internal/models"
)

// Cache is a file-backed address → coordinates store. It is loaded once at
// startup and rewritten wholesale by Save; the tool is a one-shot batch
// process, so no locking is needed.
type Cache struct {
	path    string
	entries map[string][]float64
	log     *slog.Logger
}

const coordsListLength = 2

// Load reads the cache file at path. A missing or unreadable file yields an
// empty cache: the cache is an optimization, never a reason to abort.
func Load(path string, log *slog.Logger) *Cache {
	cache := &Cache{
		path:    path,
		entries: make(map[string][]float64),
		log:     log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Failed to read cache file, starting empty", "path", path, "error", err)
		}
		return cache
	}

	if err = json.Unmarshal(data, &cache.entries); err != nil {
		log.Warn("Cache file is corrupt, starting empty", "path", path, "error", err)
		cache.entries = make(map[string][]float64)
	}

	return cache
}

// Get looks up a normalized address. The second return reports whether the
// address is known at all; a known address with nil coordinates is a cached
// "unresolved" marker.
func (c *Cache) Get(address string) (*models.Coordinates, bool) {
	entry, known := c.entries[address]
	if !known {
		return nil, false
	}
	if len(entry) != coordsListLength {
		// Anything but a [lat, lon] pair is the unresolved marker.
		return nil, true
	}
	return &models.Coordinates{Latitude: entry[0], Longitude: entry[1]}, true
}

// Put stores the resolution outcome for a normalized address. Passing nil
// records the unresolved marker.
func (c *Cache) Put(address string, coords *models.Coordinates) {
	if coords == nil {
		c.entries[address] = nil
		return
	}
	c.entries[address] = []float64{coords.Latitude, coords.Longitude}
}

// Len returns the number of cached entries, markers included.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save rewrites the backing file with the full entry set. The file is
// human-readable JSON so operators can inspect or prune it by hand.
func (c *Cache) Save() error {
	file, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err = enc.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	return nil
}
