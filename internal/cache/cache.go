// Package cache provides the optional prediction-result cache: an in-memory
// implementation with an injectable clock, plus a Redis adapter. Entries are
// keyed on a request digest and expire after a configurable TTL.
package cache

import (
	"context"
	"os"
	"sync"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// DefaultTTL matches the original result-cache lifetime.
const DefaultTTL = 5 * time.Minute

// Cache stores serialized prediction results by digest.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// Memory is an in-process cache. The clock is injectable so expiry is
// testable without sleeping.
type Memory struct {
	mu  sync.Mutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	b   []byte
	exp time.Time
}

// NewMemory builds a memory cache. ttl <= 0 falls back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{m: make(map[string]entry), ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (c *Memory) WithClock(now func() time.Time) *Memory {
	c.now = now
	return c
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.exp) {
		delete(c.m, key)
		return nil, false
	}
	return e.b, true
}

func (c *Memory) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry{
		b:   append([]byte(nil), val...),
		exp: c.now().Add(c.ttl),
	}
}

// Redis adapts a Redis client to the Cache interface. Failures degrade to
// cache misses; the cache is never load-bearing.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis wraps an existing client. ttl <= 0 falls back to DefaultTTL.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	v, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = r.client.Set(ctx, key, val, r.ttl).Err()
}

// NewAuto selects Redis when REDIS_ADDR is set, memory otherwise.
func NewAuto(ttl time.Duration) Cache {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return NewRedis(redis.NewClient(&redis.Options{Addr: addr}), ttl)
	}
	return NewMemory(ttl)
}
