package boxcache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundsEdges(t *testing.T) {
	assert.Equal(t, "35.6812:139.7671:35.7000:139.8000", Key(35.68121, 139.76708, 35.7, 139.8))
	// Boxes within GPS jitter of each other share a key.
	assert.Equal(t,
		Key(35.68120, 139.76710, 35.7, 139.8),
		Key(35.68123, 139.76712, 35.7, 139.8))
}

func TestGetAndPut(t *testing.T) {
	cache := New[[]int](10)

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Put("a", []int{1, 2})
	value, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, value)
	assert.Equal(t, 1, cache.Len())
}

// The cache is FIFO, not LRU: touching an old entry does not save it from
// eviction.
func TestEvictionIsFIFONotLRU(t *testing.T) {
	cache := New[int](DefaultCapacity)
	for i := 0; i < DefaultCapacity; i++ {
		cache.Put(fmt.Sprintf("box-%d", i), i)
	}

	// Read the oldest entry right before inserting one more.
	_, ok := cache.Get("box-0")
	require.True(t, ok)

	cache.Put("box-new", -1)

	_, ok = cache.Get("box-0")
	assert.False(t, ok, "oldest entry must be gone even though it was just read")
	_, ok = cache.Get("box-1")
	assert.True(t, ok)
	assert.Equal(t, DefaultCapacity, cache.Len())
}

func TestReplaceKeepsInsertionOrder(t *testing.T) {
	cache := New[int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("a", 3) // replace, "a" stays oldest

	cache.Put("c", 4) // evicts "a"

	_, ok := cache.Get("a")
	assert.False(t, ok)
	value, ok := cache.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestFlush(t *testing.T) {
	cache := New[int](10)
	cache.Put("a", 1)
	cache.Put("b", 2)

	cache.Flush()

	assert.Zero(t, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Put("c", 3)
	assert.Equal(t, 1, cache.Len())
}
