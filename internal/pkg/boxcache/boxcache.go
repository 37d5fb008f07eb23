// Package boxcache caches map-viewport query results keyed on the rounded
// edges of the bounding box, so repeated panning over the same area does
// not hit the database again.
package boxcache

import (
	"fmt"
	"sync"
)

// DefaultCapacity is how many distinct viewports are kept around.
const DefaultCapacity = 100

// Key builds the cache key from a bounding box. Edges are rounded to four
// decimal places (roughly 11 meters) so boxes differing by GPS jitter
// share an entry.
func Key(minLat, minLng, maxLat, maxLng float64) string {
	return fmt.Sprintf("%.4f:%.4f:%.4f:%.4f", minLat, minLng, maxLat, maxLng)
}

// Cache is a fixed-capacity insertion-ordered cache. Eviction is strict
// FIFO: reads never refresh an entry's position, so a viewport the user
// keeps returning to still expires once enough new ones came after it.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	order    []string
}

// New creates a Cache holding up to capacity entries.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put stores a value. Replacing an existing key keeps its insertion
// position; a new key may evict the oldest entry.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V, c.capacity)
	c.order = c.order[:0]
}

// Len reports how many entries are cached.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
