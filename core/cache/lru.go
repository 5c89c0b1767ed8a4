/*
Package cache implements a bounded key-value store with least-recently-used
eviction.

LRU is a thin, typed layer over hashicorp's simplelru. It is not safe for
concurrent use; clients owning a cache are expected to serialize access, as
lookups are usually followed by a compute-and-insert on a miss.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cache

import (
	"github.com/hashicorp/golang-lru/simplelru"
)

// DefaultCapacity is the capacity used for caches created with a
// non-positive size.
const DefaultCapacity = 1000

// LRU is a fixed-capacity cache mapping keys of type K to values of type V.
type LRU[K comparable, V any] struct {
	lru      *simplelru.LRU
	capacity int
}

// New creates a cache holding at most capacity entries.
// A capacity ≤ 0 selects DefaultCapacity.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	lru, err := simplelru.NewLRU(capacity, nil)
	if err != nil { // only for capacity ≤ 0
		panic(err)
	}
	return &LRU[K, V]{lru: lru, capacity: capacity}
}

// Put inserts or overwrites the entry for key. It returns true if another
// entry had to be evicted to make room.
func (c *LRU[K, V]) Put(key K, value V) bool {
	return c.lru.Add(key, value)
}

// Get returns the value for key and marks it as most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	var zero V
	v, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

// Contains checks for key without updating its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	return c.lru.Contains(key)
}

// Remove deletes the entry for key. It returns false if key was not present.
func (c *LRU[K, V]) Remove(key K) bool {
	return c.lru.Remove(key)
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.lru.Purge()
}

// Len returns the number of entries currently held.
func (c *LRU[K, V]) Len() int {
	return c.lru.Len()
}

// Cap returns the capacity of the cache.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}
