package systems

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache memoizes reference energies per (molecule, bond length) and
// persists them between runs so a sweep never recomputes the curves.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]float64
	log     zerolog.Logger
}

// NewCache opens the cache backed by the msgpack file at path, loading
// any previously persisted entries. A missing file starts empty.
func NewCache(path string, log zerolog.Logger) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]float64),
		log:     log.With().Str("component", "energy_cache").Logger(),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read energy cache: %w", err)
	}

	if err := msgpack.Unmarshal(data, &c.entries); err != nil {
		// A corrupt cache is recoverable state, not a startup failure.
		c.log.Warn().Err(err).Str("path", path).Msg("Discarding unreadable energy cache")
		c.entries = make(map[string]float64)
	} else {
		c.log.Debug().Int("entries", len(c.entries)).Msg("Loaded energy cache")
	}

	return c, nil
}

func cacheKey(molecule string, bondLength float64) string {
	return fmt.Sprintf("%s@%.4f", molecule, bondLength)
}

// Energy returns the reference energy for a molecule at bond length R,
// computing and caching it on a miss.
func (c *Cache) Energy(molecule string, bondLength float64) (float64, error) {
	key := cacheKey(molecule, bondLength)

	c.mu.RLock()
	if e, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	e, err := ReferenceEnergy(molecule, bondLength)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	return e, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	c.mu.RLock()
	data, err := msgpack.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode energy cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write energy cache: %w", err)
	}

	c.log.Debug().Int("entries", c.Len()).Str("path", c.path).Msg("Saved energy cache")
	return nil
}
