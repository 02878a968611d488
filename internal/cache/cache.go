// Package cache is a keyed read cache fronting the backend API. It
// coalesces duplicate in-flight reads, applies per-resource staleness
// windows, and is invalidated by kind when a write lands.
package cache

import (
	"context"
	"sync"
	"time"
)

// Key identifies one cached fetch: a resource kind plus its encoded
// query parameters. Keys with the same kind are invalidated together.
type Key struct {
	Kind  string
	Query string
}

type inflight struct {
	done  chan struct{}
	value any
	err   error
}

type entry struct {
	value     any
	fetchedAt time.Time
	inflight  *inflight
}

// Cache holds fetched payloads by key. Expired entries are treated as
// absent: a read past the staleness window blocks on a refetch rather
// than serving stale data.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	ttls       map[string]time.Duration
	defaultTTL time.Duration

	now func() time.Time // test seam
}

// New creates a cache with the given default staleness window.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[Key]*entry),
		ttls:       make(map[string]time.Duration),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// SetTTL sets the staleness window for one resource kind.
func (c *Cache) SetTTL(kind string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[kind] = ttl
}

func (c *Cache) ttl(kind string) time.Duration {
	if d, ok := c.ttls[kind]; ok {
		return d
	}
	return c.defaultTTL
}

// Get returns the cached value for key when fresh. Otherwise it performs
// exactly one fetch, shared among all concurrent callers of the same key,
// with at most one transparent retry on failure. Failed fetches cache
// nothing.
func (c *Cache) Get(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		if e.inflight == nil && c.now().Sub(e.fetchedAt) < c.ttl(key.Kind) {
			v := e.value
			c.mu.Unlock()
			return v, nil
		}
		if e.inflight != nil {
			fl := e.inflight
			c.mu.Unlock()
			select {
			case <-fl.done:
				return fl.value, fl.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	// This caller owns the fetch; later callers for the same key wait on it.
	fl := &inflight{done: make(chan struct{})}
	c.entries[key] = &entry{inflight: fl}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil && ctx.Err() == nil {
		// One transparent retry per failed read. Writes never pass
		// through here.
		value, err = fetch(ctx)
	}

	c.mu.Lock()
	fl.value, fl.err = value, err
	// The entry may have been invalidated while the fetch ran; only keep
	// the result if we still own the slot.
	if cur, ok := c.entries[key]; ok && cur.inflight == fl {
		if err != nil {
			delete(c.entries, key)
		} else {
			cur.value = value
			cur.fetchedAt = c.now()
			cur.inflight = nil
		}
	}
	c.mu.Unlock()
	close(fl.done)

	return value, err
}

// Invalidate drops every entry of the given resource kind, forcing the
// next read to refetch. In-flight fetches finish for their waiters but do
// not repopulate the cache.
func (c *Cache) Invalidate(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Kind == kind {
			delete(c.entries, k)
		}
	}
}

// GetAs is a typed wrapper over Cache.Get.
func GetAs[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
