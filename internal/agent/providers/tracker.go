package providers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker remembers what an agent already handled across runs and
// across instances.
type Tracker interface {
	// Seen reports whether member was remembered in set.
	Seen(ctx context.Context, set, member string) (bool, error)
	Remember(ctx context.Context, set, member string) error
	// Claim returns true only for the first caller of key within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) Tracker {
	return &redisTracker{client: client}
}

func (t *redisTracker) Seen(ctx context.Context, set, member string) (bool, error) {
	return t.client.SIsMember(ctx, set, member).Result()
}

func (t *redisTracker) Remember(ctx context.Context, set, member string) error {
	return t.client.SAdd(ctx, set, member).Err()
}

func (t *redisTracker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return t.client.SetNX(ctx, key, 1, ttl).Result()
}
