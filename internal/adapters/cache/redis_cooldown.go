package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	redis "github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "bizcore:revenue:cooldown:"

// RedisCooldown stores one expiring key per business so every replica sees the
// same cooldown. The key lives for exactly the cooldown duration.
type RedisCooldown struct {
	client *redis.Client
}

var _ portssvc.CooldownTracker = (*RedisCooldown)(nil)

func NewRedisCooldown(client *redis.Client) *RedisCooldown {
	return &RedisCooldown{client: client}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func cooldownKey(businessID int64) string {
	return fmt.Sprintf("%s%d", cooldownKeyPrefix, businessID)
}

func (c *RedisCooldown) TryAcquire(ctx context.Context, businessID int64, now time.Time, cooldown time.Duration) (bool, error) {
	if c == nil || c.client == nil {
		return false, errors.New("cooldown client not configured")
	}
	if cooldown <= 0 {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, cooldownKey(businessID), now.UnixMilli(), cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("acquire cooldown for business %d: %w", businessID, err)
	}
	return ok, nil
}

func (c *RedisCooldown) Release(ctx context.Context, businessID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, cooldownKey(businessID)).Err(); err != nil {
		return fmt.Errorf("release cooldown for business %d: %w", businessID, err)
	}
	return nil
}
