package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores the current bearer credential per user in Redis so a
// restarted client can resume its session without logging in again.
type Cache struct {
	rdb       *redis.Client
	expire    time.Duration
	keyPrefix string
}

// NewCache creates a new credential cache
func NewCache(rdb *redis.Client, expire time.Duration) *Cache {
	return &Cache{
		rdb:       rdb,
		expire:    expire,
		keyPrefix: "booking:token:",
	}
}

// key generates the Redis key for a user's credential
// Format: booking:token:{userId}
func (c *Cache) key(userId string) string {
	return fmt.Sprintf("%s%s", c.keyPrefix, userId)
}

// Store stores a credential with the configured TTL
func (c *Cache) Store(ctx context.Context, userId, token string) error {
	if err := c.rdb.Set(ctx, c.key(userId), token, c.expire).Err(); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Load returns the cached credential for a user, or "" when none is cached
func (c *Cache) Load(ctx context.Context, userId string) (string, error) {
	tok, err := c.rdb.Get(ctx, c.key(userId)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return tok, nil
}

// Invalidate removes the cached credential for a user
func (c *Cache) Invalidate(ctx context.Context, userId string) error {
	if err := c.rdb.Del(ctx, c.key(userId)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate credential: %w", err)
	}
	return nil
}

// Refresh extends the TTL of a cached credential if it still exists
func (c *Cache) Refresh(ctx context.Context, userId string) error {
	if err := c.rdb.Expire(ctx, c.key(userId), c.expire).Err(); err != nil {
		return fmt.Errorf("failed to refresh credential ttl: %w", err)
	}
	return nil
}
