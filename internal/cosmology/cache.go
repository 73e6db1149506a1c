package cosmology

import "sync"

type cacheKey struct {
	zMax float64
	nz   int
}

// Cache memoizes a single Table keyed by (zMax, nz). A request with a new key
// replaces the slot; there is no other eviction.
//
// A Cache is owned by whoever runs the model. Runs that use different grids
// concurrently should each hold their own Cache, otherwise they keep evicting
// each other's table.
type Cache struct {
	mu     sync.Mutex
	key    cacheKey
	table  *Table
	builds int
}

func NewCache() *Cache {
	return &Cache{}
}

// Table returns the cached table for (zMax, nz), building it on a miss.
func (c *Cache) Table(zMax float64, nz int) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := cacheKey{zMax: zMax, nz: nz}
	if c.table != nil && c.key == k {
		return c.table
	}
	c.table = Build(zMax, nz)
	c.key = k
	c.builds++
	return c.table
}

// Builds reports how many times the slot has been (re)built.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
