package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	c := New[string, int](4)
	assert.False(t, c.Put("a", 1))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, c.Put("a", 2), "overwrite must not evict")
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	const capacity = 8
	c := New[int, string](capacity)
	for i := 0; i < capacity; i++ {
		assert.False(t, c.Put(i, "x"))
	}
	assert.True(t, c.Put(capacity, "overflow"))
	assert.False(t, c.Contains(0), "oldest key should have been evicted")
	for i := 1; i <= capacity; i++ {
		assert.True(t, c.Contains(i), "key %d should still be present", i)
	}
	assert.Equal(t, capacity, c.Len())
}

func TestGetProtectsFromEviction(t *testing.T) {
	const capacity = 8
	c := New[int, string](capacity)
	for i := 0; i < capacity; i++ {
		c.Put(i, "x")
	}
	_, ok := c.Get(0) // 0 becomes most recently used
	require.True(t, ok)
	assert.True(t, c.Put(capacity, "overflow"))
	assert.True(t, c.Contains(0))
	assert.False(t, c.Contains(1), "key 1 is now the least recently used")
}

func TestContainsDoesNotTouch(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 1)
	c.Put(2, 2)
	assert.True(t, c.Contains(1))
	c.Put(3, 3)
	assert.False(t, c.Contains(1))
}

func TestRemoveAndClear(t *testing.T) {
	c := New[string, int](0)
	assert.Equal(t, DefaultCapacity, c.Cap())
	c.Put("a", 1)
	c.Put("b", 2)
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Contains("b"))
}
