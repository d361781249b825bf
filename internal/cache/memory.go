package cache

import (
	"context"
	"sync"
	"time"
)

// entryOverhead approximates the timestamps and counters held per result
const entryOverhead = 128

// MemoryCache keeps generated results in process memory. Results are stored
// by value, so callers never share one with the cache. Expired results are
// dropped on read and in bulk by Purge.
type MemoryCache struct {
	mu       sync.RWMutex
	results  map[string]CacheEntry
	lifetime time.Duration
	lookups  lookups
}

// lookups counts Get outcomes since the last Clear
type lookups struct {
	hits, misses int64
}

// NewMemoryCache creates an empty cache whose results live for lifetime
func NewMemoryCache(lifetime time.Duration) *MemoryCache {
	return &MemoryCache{
		results:  make(map[string]CacheEntry),
		lifetime: lifetime,
	}
}

// stamp prepares entry for storage under key, starting its lifetime at now
func stamp(key string, entry CacheEntry, now time.Time, lifetime time.Duration) CacheEntry {
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(lifetime)
	entry.AccessedAt = now
	entry.AccessCount = 0
	return entry
}

// footprint is a rough size of a stored result
func footprint(entry CacheEntry) int64 {
	return int64(len(entry.Key)+len(entry.Tool)+len(entry.QuestionType)+len(entry.Content)) + entryOverhead
}

// live returns the result under key, evicting it when it has expired.
// Callers hold the write lock.
func (c *MemoryCache) live(key string, now time.Time) (CacheEntry, bool) {
	result, ok := c.results[key]
	if !ok {
		return CacheEntry{}, false
	}
	if now.After(result.ExpiresAt) {
		delete(c.results, key)
		return CacheEntry{}, false
	}
	return result, true
}

// Get returns a copy of the result under key and records the access
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	result, ok := c.live(key, now)
	if !ok {
		c.lookups.misses++
		return nil, ErrCacheMiss
	}

	result.AccessedAt = now
	result.AccessCount++
	c.results[key] = result
	c.lookups.hits++
	return &result, nil
}

// Set stores a copy of entry, replacing any earlier result under key
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[key] = stamp(key, *entry, time.Now(), c.lifetime)
	return nil
}

// Delete removes the result under key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.results, key)
	return nil
}

// Exists reports whether an unexpired result is stored under key
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result, ok := c.results[key]
	return ok && !time.Now().After(result.ExpiresAt), nil
}

// Clear drops every result and resets the lookup counters
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = make(map[string]CacheEntry)
	c.lookups = lookups{}
	return nil
}

// GetStats summarizes the stored results, including how many each tool owns
func (c *MemoryCache) GetStats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{
		Backend:      "memory",
		TotalEntries: len(c.results),
		HitCount:     c.lookups.hits,
		MissCount:    c.lookups.misses,
		HitRate:      hitRate(c.lookups.hits, c.lookups.misses),
	}
	if len(c.results) == 0 {
		return stats, nil
	}

	now := time.Now()
	var totalAge time.Duration
	for _, result := range c.results {
		stats.countTool(result.Tool, 1)
		stats.MemoryUsage += footprint(result)
		totalAge += now.Sub(result.CreatedAt)
		if stats.OldestEntry.IsZero() || result.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = result.CreatedAt
		}
		if now.After(result.ExpiresAt) {
			stats.ExpiredEntries++
		}
	}
	stats.AverageAge = totalAge / time.Duration(len(c.results))
	return stats, nil
}

// Purge evicts every expired result
func (c *MemoryCache) Purge(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	before := len(c.results)
	for key := range c.results {
		c.live(key, now)
	}
	return before - len(c.results), nil
}

// Close is a no-op for the in-memory cache
func (c *MemoryCache) Close() error {
	return nil
}

