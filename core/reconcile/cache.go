package reconcile

import (
	"context"
	"sync"
	"time"

	"craft-catalog/core/storage"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache holds pre-built indices for fast targeted reconciliation.
type Cache struct {
	// LocalIndex is the local dataset indexed by entity ID.
	LocalIndex map[string]Entry

	// CanonicalIndex is the canonical dataset indexed by entity ID.
	CanonicalIndex map[string]Entry

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *Cache) IsExpired() bool {
	if c.TTL == 0 {
		return true
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds all reconcile caches keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*Cache
	sf     singleflight.Group
}

var globalCacheStore = &cacheStore{
	caches: make(map[string]*Cache),
}

// BuildCache loads both indices concurrently. The result is not stored; use
// GetOrBuildCache for that.
func BuildCache(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*Cache, error) {
	var localIndex, canonicalIndex map[string]Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		localIndex, err = spec.Adapter.LoadLocalIndex(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		canonicalIndex, err = spec.Adapter.LoadCanonicalIndex(gctx, client, bucket, spec.CanonicalObject)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Cache{
		LocalIndex:     localIndex,
		CanonicalIndex: canonicalIndex,
		Built:          time.Now(),
		TTL:            spec.CacheTTL,
	}, nil
}

// GetOrBuildCache returns a fresh cached index for spec, building it when missing or
// expired. Concurrent callers share one build.
func GetOrBuildCache(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*Cache, error) {
	cacheKey := spec.CacheKey()

	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		newCache, err := BuildCache(ctx, spec, client, bucket)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = newCache
		globalCacheStore.mu.Unlock()

		return newCache, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Cache), nil
}

// InvalidateCache drops the cache for spec, e.g. after the local dataset changed.
func InvalidateCache(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
