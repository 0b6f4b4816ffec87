package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements bounded in-memory vector caching
type MemoryCache struct {
	cache      *gocache.Cache
	maxEntries int
}

// NewMemoryCache creates a new memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		cache:      gocache.New(defaultTTL, cleanupInterval),
		maxEntries: maxEntries,
	}
}

// Get retrieves a vector from the cache
func (c *MemoryCache) Get(key string) ([]float32, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]float32), true
	}
	return nil, false
}

// Set stores a vector in the cache with the given TTL. When the cache is at
// capacity, expired entries are evicted first; if it is still full the write
// is dropped rather than growing without bound.
func (c *MemoryCache) Set(key string, vector []float32, ttl time.Duration) error {
	if c.maxEntries > 0 && c.cache.ItemCount() >= c.maxEntries {
		if _, exists := c.cache.Get(key); !exists {
			c.cache.DeleteExpired()
			if c.cache.ItemCount() >= c.maxEntries {
				return nil
			}
		}
	}
	c.cache.Set(key, vector, ttl)
	return nil
}

// Delete removes a vector from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all vectors from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len reports the number of cached vectors, expired entries included
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
