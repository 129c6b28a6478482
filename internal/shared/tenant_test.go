package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *TenantResolver {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTenantResolver(client, time.Hour)
}

func TestTenantResolverRoundTrip(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver(t)

	key, err := resolver.IssueKey(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	companyID, err := resolver.Resolve(ctx, key)
	require.NoError(t, err)
	require.Equal(t, int64(42), companyID)
}

func TestTenantResolverUnknownKey(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver(t)

	_, err := resolver.Resolve(ctx, "no-such-key")
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestTenantResolverEmptyKey(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver(t)

	_, err := resolver.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrNoTenant)
}

func TestTenantResolverRevoke(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver(t)

	key, err := resolver.IssueKey(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, resolver.RevokeKey(ctx, key))

	_, err = resolver.Resolve(ctx, key)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}
