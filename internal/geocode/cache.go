package geocode

import (
	"container/list"
	"context"
	"sync"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Cached wraps a Resolver with an in-memory LRU cache. Failures are not
// cached so they can be retried.
type Cached struct {
	inner Resolver

	mu         sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key string
	loc weather.Location
}

func NewCached(inner Resolver, maxEntries int) *Cached {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &Cached{
		inner:      inner,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *Cached) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	key := normalize(city) + "|" + normalize(country)
	if loc, ok := c.get(key); ok {
		return loc, nil
	}
	loc, err := c.inner.Resolve(ctx, city, country)
	if err != nil {
		return loc, err
	}
	c.put(key, loc)
	return loc, nil
}

func (c *Cached) get(key string) (weather.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return weather.Location{}, false
	}
	c.order.MoveToFront(e)
	return e.Value.(*cacheEntry).loc, true
}

func (c *Cached) put(key string, loc weather.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Value.(*cacheEntry).loc = loc
		c.order.MoveToFront(e)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, loc: loc})

	if c.order.Len() > c.maxEntries {
		tail := c.order.Back()
		c.order.Remove(tail)
		delete(c.entries, tail.Value.(*cacheEntry).key)
	}
}
