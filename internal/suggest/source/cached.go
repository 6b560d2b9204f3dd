package source

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/dshills/tagstorm/internal/suggest"
)

// Cached remembers the results of another source for a while. Errors are
// not cached. Keys ignore surrounding space and case.
type Cached struct {
	next  suggest.Source
	cache *ttlcache.Cache[string, suggest.Result]

	closeOnce sync.Once
}

// NewCached wraps next with a cache of at most capacity entries, each
// living for ttl. A capacity of zero means unbounded. Call Close to stop
// the expiry goroutine.
func NewCached(next suggest.Source, ttl time.Duration, capacity uint64) *Cached {
	opts := []ttlcache.Option[string, suggest.Result]{
		ttlcache.WithTTL[string, suggest.Result](ttl),
		ttlcache.WithDisableTouchOnHit[string, suggest.Result](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, suggest.Result](capacity))
	}

	c := &Cached{
		next:  next,
		cache: ttlcache.New(opts...),
	}
	go c.cache.Start()
	return c
}

// Suggest implements suggest.Source.
func (c *Cached) Suggest(ctx context.Context, query string) (suggest.Result, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if item := c.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	res, err := c.next.Suggest(ctx, query)
	if err != nil {
		return res, err
	}
	c.cache.Set(key, res, ttlcache.DefaultTTL)
	return res, nil
}

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() {
	c.cache.DeleteAll()
}

// Metrics returns cache hit and miss counts.
func (c *Cached) Metrics() ttlcache.Metrics {
	return c.cache.Metrics()
}

// Close stops the expiry goroutine. It is safe to call more than once.
func (c *Cached) Close() error {
	c.closeOnce.Do(c.cache.Stop)
	return nil
}
