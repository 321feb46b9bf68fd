package layout

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds at most one snapshot. Misses build lazily; concurrent misses
// share one build. Invalidate discards the snapshot and never rebuilds.
type Cache struct {
	mu       sync.Mutex
	snapshot *Snapshot
	// gen counts invalidations. A build started under an older generation
	// is returned to its callers but not stored.
	gen    uint64
	builds singleflight.Group
}

// GetOrBuild returns the cached snapshot, or calls build and caches its
// result. A failed build caches nothing.
func (c *Cache) GetOrBuild(build func() (*Snapshot, error)) (*Snapshot, error) {
	c.mu.Lock()
	if s := c.snapshot; s != nil {
		c.mu.Unlock()
		return s, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.builds.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		c.mu.Lock()
		if s := c.snapshot; s != nil && c.gen == gen {
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()

		s, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.snapshot = s
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Cached returns the stored snapshot without building one.
func (c *Cache) Cached() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Invalidate drops the stored snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.gen++
	c.mu.Unlock()
}
