// Package memory provides a mutex-guarded in-process cache.Cache with lazy
// TTL expiry. Useful for tests and single-node setups without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/shelfcache/cache"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Cache struct {
	mu sync.RWMutex
	m  map[string]entry
}

var _ cache.Cache = (*Cache)(nil)

func New() *Cache {
	return &Cache{m: make(map[string]entry)}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		// re-check under the write lock; a concurrent Set may have renewed it
		if e2, ok := c.m[key]; ok && !e2.exp.IsZero() && time.Now().After(e2.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	// copy out; callers may hold the slice across a later overwrite
	out := make([]byte, len(e.v))
	copy(out, e.v)
	return out, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	v := make([]byte, len(value))
	copy(v, value)

	c.mu.Lock()
	c.m[key] = entry{v: v, exp: exp}
	c.mu.Unlock()
	return true, nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *Cache) Close(_ context.Context) error { return nil }

// Len reports live (non-expired) entries. Test helper.
func (c *Cache) Len() int {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.m {
		if e.exp.IsZero() || now.Before(e.exp) {
			n++
		}
	}
	return n
}
