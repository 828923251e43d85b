// Package cache implements C9: an in-memory, fingerprint-keyed response
// cache with a CSV snapshot format and an optional Badger-backed
// persistent store, freshness-windowed per spec §4.9.
//
// Grounded on internal/services/cache/service.go's Service-plus-freshness-
// window shape, generalized from document-revision freshness checking
// (rolling/hard time windows over a document's LastSynced) to
// request-fingerprint verdict freshness (max_cache_age for success,
// max_cache_age_error for failure).
package cache

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/models"
)

// Store is a durable backing for cache entries, e.g. the Badger-backed
// store in internal/storage/badger.
type Store interface {
	Get(fingerprint string) (models.CacheEntry, bool, error)
	Put(entry models.CacheEntry) error
	All() ([]models.CacheEntry, error)
}

// Cache is the in-memory response cache. "First terminal verdict wins
// within a freshness window": Record is a no-op for a fingerprint whose
// existing entry is still fresh, and replaces an entry that has expired.
type Cache struct {
	mu      sync.Mutex
	entries map[string]models.CacheEntry

	maxAge      time.Duration
	maxAgeError time.Duration

	persistent Store
	logger     arbor.ILogger
}

// New builds a Cache. persistent may be nil, in which case the cache is
// purely in-memory for the lifetime of the run.
func New(maxAge, maxAgeError time.Duration, persistent Store, logger arbor.ILogger) *Cache {
	return &Cache{
		entries:     make(map[string]models.CacheEntry),
		maxAge:      maxAge,
		maxAgeError: maxAgeError,
		persistent:  persistent,
		logger:      logger,
	}
}

// Lookup returns the cached verdict for fingerprint if one exists and is
// still fresh under the configured max-age windows.
func (c *Cache) Lookup(fingerprint string) (models.CacheStatus, bool) {
	c.mu.Lock()
	entry, ok := c.entries[fingerprint]
	c.mu.Unlock()

	if !ok && c.persistent != nil {
		loaded, found, err := c.persistent.Get(fingerprint)
		if err != nil && c.logger != nil {
			c.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Persistent cache lookup failed")
		}
		if found {
			c.mu.Lock()
			c.entries[fingerprint] = loaded
			c.mu.Unlock()
			entry, ok = loaded, true
		}
	}

	if !ok {
		return models.CacheStatus{}, false
	}
	if entry.IsExpired(time.Now(), c.maxAge, c.maxAgeError) {
		return models.CacheStatus{}, false
	}
	return entry.Status, true
}

// Record stores status for fingerprint if no entry exists yet, or if the
// existing entry has aged past its freshness window — "first terminal
// verdict wins" only holds within a single freshness window, per spec
// §4.9; once Lookup would report a miss for an entry, Record must be able
// to replace it with the live verdict that miss forced. Returns false
// without writing if a prior, still-fresh entry already occupies the slot.
func (c *Cache) Record(fingerprint string, status models.CacheStatus) bool {
	now := time.Now()

	c.mu.Lock()
	if existing, exists := c.entries[fingerprint]; exists && !existing.IsExpired(now, c.maxAge, c.maxAgeError) {
		c.mu.Unlock()
		return false
	}
	entry := models.CacheEntry{Fingerprint: fingerprint, Status: status, ObservedAt: now}
	c.entries[fingerprint] = entry
	c.mu.Unlock()

	if c.persistent != nil {
		if err := c.persistent.Put(entry); err != nil && c.logger != nil {
			c.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to persist cache entry")
		}
	}
	return true
}

// Snapshot returns every entry currently held in memory, for SaveCSV or
// diagnostics.
func (c *Cache) Snapshot() []models.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Seed preloads entries (e.g. from LoadCSV or a persistent store snapshot)
// without overwriting anything already present.
func (c *Cache) Seed(entries []models.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if _, exists := c.entries[e.Fingerprint]; !exists {
			c.entries[e.Fingerprint] = e
		}
	}
}
