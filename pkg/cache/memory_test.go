package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestMemoryCacheRoundTripStruct(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := []quote{{"BTC", 64000}, {"ETH", 3100.5}}
	require.NoError(t, mc.Set(ctx, "prices", in, time.Minute))

	var out []quote
	require.NoError(t, mc.Get(ctx, "prices", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCacheString(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	var s string
	require.NoError(t, mc.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "short", &s), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	time.Sleep(2 * time.Millisecond)

	var n int
	require.NoError(t, mc.Get(ctx, "a", &n)) // touch a, b becomes oldest
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &n), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "c", &n))
	assert.Equal(t, 3, n)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, mc.Delete(ctx, "a"))
	var n int
	assert.ErrorIs(t, mc.Get(ctx, "a", &n), ErrCacheMiss)
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

func TestSetKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, SetKey("prices", []string{"ETH", "BTC"}), SetKey("prices", []string{"BTC", "ETH"}))
	assert.NotEqual(t, SetKey("prices", []string{"BTC"}), SetKey("news", []string{"BTC"}))
}
