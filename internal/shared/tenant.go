package shared

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// APIKeyHeader carries the tenant credential on every request.
const APIKeyHeader = "X-Api-Key"

// TenantResolver maps API keys to owner company ids through Redis.
type TenantResolver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTenantResolver constructs a TenantResolver.
func NewTenantResolver(client *redis.Client, ttl time.Duration) *TenantResolver {
	return &TenantResolver{client: client, ttl: ttl}
}

// Resolve returns the owner company id for the given API key.
func (t *TenantResolver) Resolve(ctx context.Context, apiKey string) (int64, error) {
	if apiKey == "" {
		return 0, ErrNoTenant
	}
	raw, err := t.client.Get(ctx, tenantKey(apiKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidAPIKey
		}
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidAPIKey
	}
	return id, nil
}

// IssueKey creates a new API key bound to the owner company.
func (t *TenantResolver) IssueKey(ctx context.Context, companyID int64) (string, error) {
	key := uuid.NewString()
	if err := t.client.Set(ctx, tenantKey(key), strconv.FormatInt(companyID, 10), t.ttl).Err(); err != nil {
		return "", err
	}
	return key, nil
}

// RevokeKey deletes an API key.
func (t *TenantResolver) RevokeKey(ctx context.Context, apiKey string) error {
	return t.client.Del(ctx, tenantKey(apiKey)).Err()
}

func tenantKey(apiKey string) string {
	return "tenant:key:" + apiKey
}
