package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Index holds both sources loaded in memory.
type Index struct {
	DBIndex    map[string]DBItem
	StorageSet map[string]struct{}

	// Built is the timestamp when this index was built.
	Built time.Time

	// TTL is the time-to-live for this index.
	TTL time.Duration
}

// IsExpired returns true if this index has expired based on its TTL.
func (c *Index) IsExpired() bool {
	if c.TTL == 0 {
		return true
	}
	return time.Since(c.Built) > c.TTL
}

type cacheStore struct {
	mu      sync.RWMutex
	indices map[string]*Index
	sf      singleflight.Group
}

var globalCacheStore = &cacheStore{
	indices: make(map[string]*Index),
}

// BuildIndex loads both sources concurrently. It does not cache the result.
func BuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	var (
		dbIndex    map[string]DBItem
		storageSet map[string]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dbIndex, err = spec.Adapter.LoadDBIndex(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		storageSet, err = spec.Adapter.LoadStorageSet(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Index{
		DBIndex:    dbIndex,
		StorageSet: storageSet,
		Built:      time.Now(),
		TTL:        spec.CacheTTL,
	}, nil
}

// GetOrBuildIndex returns the cached index of spec, building it when absent
// or expired. Concurrent callers share one build.
func GetOrBuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	key := spec.CacheKey()

	globalCacheStore.mu.RLock()
	idx, ok := globalCacheStore.indices[key]
	globalCacheStore.mu.RUnlock()
	if ok && !idx.IsExpired() {
		return idx, nil
	}

	result, err, _ := globalCacheStore.sf.Do(key, func() (any, error) {
		globalCacheStore.mu.RLock()
		idx, ok := globalCacheStore.indices[key]
		globalCacheStore.mu.RUnlock()
		if ok && !idx.IsExpired() {
			return idx, nil
		}

		fresh, err := BuildIndex(ctx, spec)
		if err != nil {
			return nil, err
		}
		globalCacheStore.mu.Lock()
		globalCacheStore.indices[key] = fresh
		globalCacheStore.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Index), nil
}

// InvalidateCache drops the cached index of spec.
func InvalidateCache(spec *Spec) {
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.indices, spec.CacheKey())
	globalCacheStore.mu.Unlock()
}
