// Package quotecache memoizes outbound market-data requests for a fixed TTL.
package quotecache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a response stays fresh.
const DefaultTTL = time.Minute

// Cache is a TTL cache keyed by request signature. Expired entries are never
// returned and are purged by a background janitor every cleanup interval.
type Cache struct {
	items *cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

// New creates a cache. A zero ttl means DefaultTTL; a zero cleanupInterval
// disables the janitor.
func New(ttl, cleanupInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the value stored under key if it is younger than the TTL.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.items.Get(key)
}

// Put stores value under key, overwriting any previous entry and restarting its TTL.
func (c *Cache) Put(key string, value interface{}) {
	c.items.Set(key, value, c.ttl)
}

// Len returns the number of resident entries, expired ones included until the
// janitor runs.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Fetch returns the cached value for key or calls fn to produce it.
// Concurrent misses on the same key share a single fn call. Errors are
// returned as is and nothing is cached for them.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	return v, err
}
