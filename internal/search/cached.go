package search

import (
	"context"
	"log"
	"time"
)

// ResultCache stores provider results keyed by provider name and query.
type ResultCache interface {
	Get(ctx context.Context, provider, query string) ([]string, bool, error)
	Set(ctx context.Context, provider, query string, links []string, ttl time.Duration) error
}

// DefaultCacheTimeout bounds each cache read or write.
const DefaultCacheTimeout = 500 * time.Millisecond

// Cached serves repeated queries from a ResultCache. Cache failures are logged
// and the provider is called as if the cache were absent. Each cache call is
// bounded by Timeout, independent of the search deadline.
type Cached struct {
	Timeout time.Duration

	next  Provider
	cache ResultCache
	ttl   time.Duration
}

func NewCached(next Provider, cache ResultCache, ttl time.Duration) *Cached {
	return &Cached{Timeout: DefaultCacheTimeout, next: next, cache: cache, ttl: ttl}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Search(ctx context.Context, query string) ([]string, error) {
	name := c.next.Name()
	getCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	links, ok, err := c.cache.Get(getCtx, name, query)
	cancel()
	if err != nil {
		log.Printf("[search] cache get provider=%s failed: %v", name, err)
	} else if ok {
		return links, nil
	}

	links, err = c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	// Empty pages are not cached; they are often a transient block page.
	if len(links) > 0 {
		setCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		err := c.cache.Set(setCtx, name, query, links, c.ttl)
		cancel()
		if err != nil {
			log.Printf("[search] cache set provider=%s failed: %v", name, err)
		}
	}
	return links, nil
}
