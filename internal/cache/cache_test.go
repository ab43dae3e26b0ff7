package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("result"))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("result"), got)
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(5 * time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))

	now = now.Add(4 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry alive inside the TTL")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry expired after the TTL")
}

func TestMemoryCopiesValue(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	val := []byte("original")
	c.Set(ctx, "k", val)
	val[0] = 'X'

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), got)
}

func TestMemoryDefaultTTL(t *testing.T) {
	c := NewMemory(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestRedisRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedis(client, time.Minute)
	ctx := context.Background()

	mock.ExpectSet("k", []byte("v"), time.Minute).SetVal("OK")
	c.Set(ctx, "k", []byte("v"))

	mock.ExpectGet("k").SetVal("v")
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisMissAndError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedis(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("absent").RedisNil()
	_, ok := c.Get(ctx, "absent")
	assert.False(t, ok)

	mock.ExpectGet("broken").SetErr(assert.AnError)
	_, ok = c.Get(ctx, "broken")
	assert.False(t, ok, "redis errors degrade to misses")
}
