package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisCache(WithRedisAddr(mr.Addr()), WithRedisPrefix("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	in := quote{Symbol: "SOL", Price: 142.2}
	require.NoError(t, rc.Set(ctx, "sol", in, time.Minute))
	assert.True(t, mr.Exists("test:sol"))

	var out quote
	require.NoError(t, rc.Get(ctx, "sol", &out))
	assert.Equal(t, in, out)
}

func TestRedisCacheMissAndExpiry(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	var out quote
	assert.ErrorIs(t, rc.Get(ctx, "absent", &out), ErrCacheMiss)

	require.NoError(t, rc.Set(ctx, "ttl", "x", time.Second))
	mr.FastForward(2 * time.Second)
	var s string
	assert.ErrorIs(t, rc.Get(ctx, "ttl", &s), ErrCacheMiss)
}

func TestRedisCacheDeleteExists(t *testing.T) {
	rc, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "a", "1", time.Minute))
	ok, err := rc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, rc.Delete(ctx, "a"))
	ok, err = rc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisCacheFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(WithRedisAddr(addr))
	assert.Error(t, err)
}

func TestLayeredCacheReadsThroughToRedis(t *testing.T) {
	rc, mr := newTestRedis(t)
	lc := NewLayeredCache(rc, WithLayeredMemoryTTL(time.Minute))
	ctx := context.Background()

	// Written straight to L2, L1 is cold.
	require.NoError(t, rc.Set(ctx, "eth", quote{"ETH", 3000}, time.Minute))

	var out quote
	require.NoError(t, lc.Get(ctx, "eth", &out))
	assert.Equal(t, "ETH", out.Symbol)

	// Served from L1 even once Redis forgets the key.
	mr.Del("test:eth")
	out = quote{}
	require.NoError(t, lc.Get(ctx, "eth", &out))
	assert.Equal(t, 3000.0, out.Price)

	require.NoError(t, lc.Delete(ctx, "eth"))
	assert.ErrorIs(t, lc.Get(ctx, "eth", &out), ErrCacheMiss)
}
