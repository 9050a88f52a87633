package analysis

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mistvale/dreamscope/pkg/model"
)

// ComputeDataHash produces a stable fingerprint of the entry set.
// Order-independent, so a reload that only reorders files doesn't bust the
// cache. Returns "empty" for an empty journal.
func ComputeDataHash(entries []model.Entry) string {
	if len(entries) == 0 {
		return "empty"
	}

	lines := make([]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		fingerprint := e.ContentHash
		if fingerprint == "" {
			// Fall back to the identifying fields when the parser
			// didn't hash the raw file
			fingerprint = fmt.Sprintf("%s|%s|%d|%d|%d",
				e.Title, e.Date.Format(time.RFC3339), len(e.Metrics), len(e.Symbols), e.WordCount)
		}
		lines = append(lines, e.Path+"\x00"+fingerprint)
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return fmt.Sprintf("%x", sum[:8])
}

// Cache holds one analyzed symbol network keyed by data hash, with a TTL.
// A single slot is enough: the viewer only ever looks at one vault at a
// time, and a reload either matches the hash or replaces it.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	hash     string
	stats    *SymbolStats
	storedAt time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Get returns the cached stats if the entry set hashes to the stored hash
// and the TTL has not expired.
func (c *Cache) Get(entries []model.Entry) (*SymbolStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats == nil {
		return nil, false
	}
	if time.Since(c.storedAt) > c.ttl {
		c.stats = nil
		c.hash = ""
		return nil, false
	}
	if ComputeDataHash(entries) != c.hash {
		return nil, false
	}
	return c.stats, true
}

// Set stores analyzed stats for the given entry set.
func (c *Cache) Set(entries []model.Entry, stats *SymbolStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hash = ComputeDataHash(entries)
	c.stats = stats
	c.storedAt = time.Now()
}

// Invalidate drops the cached stats.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hash = ""
	c.stats = nil
	c.storedAt = time.Time{}
}

// Stats reports what the cache currently holds.
func (c *Cache) Stats() (hash string, age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats == nil {
		return "", 0, false
	}
	return c.hash, time.Since(c.storedAt), true
}

// CachedAnalyzer wraps SymbolAnalyzer with hash-keyed caching. It exists for
// the watch-reload path: most vault events don't change the entries the
// network is built from.
type CachedAnalyzer struct {
	entries  []model.Entry
	analyzer *SymbolAnalyzer
	cache    *Cache
	hash     string
	wasHit   bool
}

// NewCachedAnalyzer creates a caching analyzer. A nil cache disables caching.
func NewCachedAnalyzer(entries []model.Entry, cache *Cache) *CachedAnalyzer {
	return &CachedAnalyzer{
		entries: entries,
		cache:   cache,
		hash:    ComputeDataHash(entries),
	}
}

// DataHash returns the fingerprint of the analyzer's entry set.
func (ca *CachedAnalyzer) DataHash() string {
	return ca.hash
}

// WasCacheHit reports whether the last AnalyzeAsync call was served from
// cache.
func (ca *CachedAnalyzer) WasCacheHit() bool {
	return ca.wasHit
}

// AnalyzeAsync returns cached stats when the entry set matches, otherwise
// analyzes and stores the result once Phase 2 completes.
func (ca *CachedAnalyzer) AnalyzeAsync() *SymbolStats {
	if ca.cache != nil {
		if stats, ok := ca.cache.Get(ca.entries); ok {
			ca.wasHit = true
			return stats
		}
	}

	ca.wasHit = false
	if ca.analyzer == nil {
		ca.analyzer = NewSymbolAnalyzer(ca.entries)
	}
	stats := ca.analyzer.AnalyzeAsync()

	if ca.cache != nil {
		// Cache only completed results so a hit never hands out a
		// half-populated network
		go func() {
			stats.WaitForPhase2()
			ca.cache.Set(ca.entries, stats)
		}()
	}

	return stats
}

var (
	globalCache     *Cache
	globalCacheOnce sync.Once
)

// GetGlobalCache returns the process-wide analysis cache.
func GetGlobalCache() *Cache {
	globalCacheOnce.Do(func() {
		globalCache = NewCache(5 * time.Minute)
	})
	return globalCache
}
