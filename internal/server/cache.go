package server

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/slidescene/internal/model"
)

// cacheKey identifies a unique extraction scope.
type cacheKey struct {
	URL      string
	HTMLPath string
	Backend  string
}

func keyOf(req Request) cacheKey {
	return cacheKey{URL: req.Source.URL, HTMLPath: req.Source.HTMLPath, Backend: req.Backend}
}

// cacheEntry holds a cached presentation with its timestamp.
type cacheEntry struct {
	presentation *model.Presentation
	timestamp    time.Time
}

// ExtractFunc runs one extraction.
type ExtractFunc func(ctx context.Context, req Request) (*model.Presentation, error)

// ResultCache provides a TTL-based cache for extraction results.
// Failed extractions are never cached.
type ResultCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a new cache. A ttl of 0 disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Extract returns the cached presentation for req if within TTL, otherwise
// runs fn. The second result reports a cache hit.
func (c *ResultCache) Extract(ctx context.Context, req Request, fn ExtractFunc) (*model.Presentation, bool, error) {
	if c.ttl == 0 {
		p, err := fn(ctx, req)
		return p, false, err
	}

	key := keyOf(req)
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		p := entry.presentation
		c.mu.Unlock()
		return p, true, nil
	}
	c.mu.Unlock()

	p, err := fn(ctx, req)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{presentation: p, timestamp: c.now()}
	c.mu.Unlock()

	return p, false, nil
}

// Invalidate removes the entry for req under every backend.
func (c *ResultCache) Invalidate(req Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.URL == req.Source.URL && k.HTMLPath == req.Source.HTMLPath {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the entire cache.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len reports the number of cached entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
