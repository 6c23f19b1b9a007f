// Package query is a keyed cache of asynchronous reads with write-driven
// invalidation. Concurrent reads of one key share a single underlying
// request, a successful mutation marks declared key prefixes stale, and a
// response that was superseded by a newer fetch for the same key is never
// applied.
package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key derives a cache identity from resource name, operation name and the
// serialized parameters, e.g. "users.list?{...}". Prefix invalidation relies
// on this layout.
func Key(resource, op string, params any) string {
	key := resource + "." + op
	if params == nil {
		return key
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return key
	}
	return key + "?" + string(raw)
}

type entry struct {
	value any
	stale bool
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached value for key, or runs fetch to fill it. Concurrent
// callers with the same key share one fetch. A failed fetch leaves any prior
// cached value untouched and surfaces the error to every waiting caller.
func (c *Cache) Get(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.beginFetch(key)
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.commit(key, gen, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// GetTyped is Get with the caller's concrete type preserved.
func GetTyped[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return typed, nil
}

func (c *Cache) beginFetch(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	return c.gens[key]
}

// commit stores a fetched value unless a newer fetch for the same key started
// in the meantime; the stale response is then dropped on the floor.
func (c *Cache) commit(key string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return
	}
	c.entries[key] = &entry{value: value}
}

// Invalidate marks every cached entry under the given key prefixes stale. The
// next Get refetches. In-flight fetches for matching keys are superseded so
// their results cannot land after the invalidation.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	matches := func(key string) bool {
		for _, prefix := range prefixes {
			if key == prefix ||
				strings.HasPrefix(key, prefix+".") ||
				strings.HasPrefix(key, prefix+"?") {
				return true
			}
		}
		return false
	}
	for key, e := range c.entries {
		if matches(key) {
			e.stale = true
		}
	}
	for key := range c.gens {
		if matches(key) {
			c.gens[key]++
			c.group.Forget(key)
		}
	}
}

// Mutate runs a write and, only on success, invalidates the declared read-key
// prefixes. A failed mutation invalidates nothing.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error, prefixes ...string) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(prefixes...)
	return nil
}
