// Package cache provides a bounded in-memory cache for decoded images and
// data products the tiler's chunkers and leaf builders would otherwise
// reload repeatedly from disk (spec.md §5).
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a generic count-bounded LRU cache. K must be comparable.
type Cache[K comparable, V any] struct {
	inner *lru.Cache[K, V]
}

// New creates a cache holding up to size entries. size <= 0 is clamped
// to 1, since hashicorp/golang-lru rejects non-positive sizes.
func New[K comparable, V any](size int) (*Cache[K, V], error) {
	if size <= 0 {
		size = 1
	}
	inner, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{inner: inner}, nil
}

// Get returns the cached value for key, if present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.inner.Get(key)
}

// Add inserts or updates key's value, evicting the least-recently-used
// entry if the cache is full.
func (c *Cache[K, V]) Add(key K, value V) {
	c.inner.Add(key, value)
}

// GetOrLoad returns the cached value for key, loading and caching it via
// load on a miss. noCache, when true, bypasses both the read and the
// write, matching spec.md §6's per-load cache-bypass option.
func (c *Cache[K, V]) GetOrLoad(key K, noCache bool, load func() (V, error)) (V, error) {
	if !noCache {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	if !noCache {
		c.Add(key, v)
	}
	return v, nil
}

// Remove evicts key, if present.
func (c *Cache[K, V]) Remove(key K) {
	c.inner.Remove(key)
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	return c.inner.Len()
}

// Purge empties the cache.
func (c *Cache[K, V]) Purge() {
	c.inner.Purge()
}
