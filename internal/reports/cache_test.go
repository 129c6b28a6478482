package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyCashflow(1, 2026))
	require.NoError(t, err)

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return CashflowReport{Year: 2026}, nil
	}

	var first, second CashflowReport
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 1, loads)
	require.Equal(t, 2026, second.Year)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keyPendingPayments(1))
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keyPendingPayments(1))
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)

	var out CashflowReport
	err := cache.FetchJSON(context.Background(), "any", &out, func(ctx context.Context) (interface{}, error) {
		return CashflowReport{Year: 2025}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2025, out.Year)
}
