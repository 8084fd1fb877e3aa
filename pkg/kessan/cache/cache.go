// Package cache is a small in-process TTL + LRU cache.
package cache

import (
	"sync"
	"time"
)

// Cache holds up to size entries for ttl each. A zero or negative ttl keeps
// entries until evicted by size. Safe for concurrent use.
type Cache[K comparable, V any] struct {
	ttl  time.Duration
	size int
	// Now is the clock; tests replace it.
	Now func() time.Time

	mu    sync.Mutex
	items map[K]entry[V]
	order []K // oldest at index 0
}

type entry[V any] struct {
	at time.Time
	v  V
}

func New[K comparable, V any](ttl time.Duration, size int) *Cache[K, V] {
	if size <= 0 {
		size = 1
	}
	return &Cache[K, V]{ttl: ttl, size: size, Now: time.Now, items: make(map[K]entry[V])}
}

// Get returns a live entry and marks it recently used.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	if c.ttl > 0 && c.Now().Sub(ent.at) > c.ttl {
		delete(c.items, k)
		c.removeLocked(k)
		var zero V
		return zero, false
	}
	c.removeLocked(k)
	c.order = append(c.order, k)
	return ent.v, true
}

// Put stores v, evicting the least recently used entries over size.
func (c *Cache[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[k]; ok {
		c.removeLocked(k)
	}
	c.items[k] = entry[V]{at: c.Now(), v: v}
	c.order = append(c.order, k)
	for len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are not cached. Concurrent misses may load more than once.
func (c *Cache[K, V]) GetOrLoad(k K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Put(k, v)
	return v, nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) removeLocked(k K) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
