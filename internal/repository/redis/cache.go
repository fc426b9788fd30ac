package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Rrens/seo-writer/internal/domain"
)

const (
	userCachePrefix     = "user:"
	defaultUserCacheTTL = time.Minute
)

// UserCache keeps resolved users for the auth gate.
// Entries are BSON so that fields hidden from JSON (password hash, sites) survive.
type UserCache struct {
	client *Client
	ttl    time.Duration
}

// NewUserCache creates a new user cache
func NewUserCache(client *Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get retrieves a cached user, nil on a miss
func (c *UserCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	data, err := c.client.rdb.Get(ctx, userCachePrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached user: %w", err)
	}

	var user domain.User
	if err := bson.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// Set caches a user
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	data, err := bson.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return c.client.rdb.Set(ctx, userCachePrefix+user.ID, data, c.ttl).Err()
}

// Invalidate removes a cached user
func (c *UserCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.rdb.Del(ctx, userCachePrefix+userID).Err()
}
