package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	v   V
	exp time.Time
}

// TTLCache is an in-process map with per-entry expiry.
type TTLCache[V any] struct {
	mu  sync.RWMutex
	m   map[string]entry[V]
	now func() time.Time
}

func NewTTLCache[V any]() *TTLCache[V] {
	return &TTLCache[V]{m: make(map[string]entry[V]), now: time.Now}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.v, true
}

// Set stores v. A non-positive ttl never expires.
func (c *TTLCache[V]) Set(key string, v V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry[V]{v: v, exp: exp}
	c.mu.Unlock()
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Memoize returns the cached value for key or calls load and caches its
// result. Concurrent callers for the same key share one load; loads for
// different keys run independently.
type Memoize[V any] struct {
	cache *TTLCache[V]
	ttl   time.Duration
	group singleflight.Group
}

func NewMemoize[V any](ttl time.Duration) *Memoize[V] {
	return &Memoize[V]{cache: NewTTLCache[V](), ttl: ttl}
}

type memoResult[V any] struct {
	v      V
	cached bool
}

// Do returns the memoized value unless refresh is set. Errors are not cached.
// The load runs with the context of the caller that started it.
func (m *Memoize[V]) Do(ctx context.Context, key string, refresh bool, load func(context.Context) (V, error)) (V, bool, error) {
	if m.ttl > 0 && !refresh {
		if v, ok := m.cache.Get(key); ok {
			return v, true, nil
		}
	}

	// refreshes get their own flight so they never reuse a stale in-flight load
	flight := key
	if refresh {
		flight = "refresh:" + key
	}
	res, err, _ := m.group.Do(flight, func() (interface{}, error) {
		if m.ttl > 0 && !refresh {
			if v, ok := m.cache.Get(key); ok {
				return memoResult[V]{v: v, cached: true}, nil
			}
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if m.ttl > 0 {
			m.cache.Set(key, v, m.ttl)
		}
		return memoResult[V]{v: v}, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	r := res.(memoResult[V])
	return r.v, r.cached, nil
}
