package layout

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingBuild(n *atomic.Int32) func() (*Snapshot, error) {
	return func() (*Snapshot, error) {
		n.Add(1)
		return &Snapshot{Source: "us"}, nil
	}
}

func TestCacheReturnsStoredSnapshot(t *testing.T) {
	var c Cache
	var builds atomic.Int32

	first, err := c.GetOrBuild(countingBuild(&builds))
	require.NoError(t, err)
	second, err := c.GetOrBuild(countingBuild(&builds))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, builds.Load())
	assert.Same(t, first, c.Cached())
}

func TestCacheInvalidateForcesRebuild(t *testing.T) {
	var c Cache
	var builds atomic.Int32

	first, err := c.GetOrBuild(countingBuild(&builds))
	require.NoError(t, err)

	c.Invalidate()
	assert.Nil(t, c.Cached())
	assert.EqualValues(t, 1, builds.Load(), "invalidate must not rebuild")

	second, err := c.GetOrBuild(countingBuild(&builds))
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, builds.Load())
}

func TestCacheFailedBuildStoresNothing(t *testing.T) {
	var c Cache
	boom := errors.New("boom")

	_, err := c.GetOrBuild(func() (*Snapshot, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, c.Cached())

	var builds atomic.Int32
	snap, err := c.GetOrBuild(countingBuild(&builds))
	require.NoError(t, err)
	assert.Same(t, snap, c.Cached())
}

func TestCacheDropsBuildOverlappingInvalidation(t *testing.T) {
	var c Cache

	snap, err := c.GetOrBuild(func() (*Snapshot, error) {
		c.Invalidate()
		return &Snapshot{Source: "stale"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", snap.Source)
	assert.Nil(t, c.Cached())
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	var c Cache
	var builds atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	build := func() (*Snapshot, error) {
		if builds.Add(1) == 1 {
			close(started)
		}
		<-release
		return &Snapshot{Source: "us"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*Snapshot, 8)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.GetOrBuild(build)
	}()
	<-started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.GetOrBuild(build)
		}(i)
	}
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, builds.Load())
	for _, s := range results {
		assert.Same(t, results[0], s)
	}
}
