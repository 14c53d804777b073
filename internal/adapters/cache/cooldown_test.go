package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldown(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCooldown()
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 10 * time.Minute

	ok, err := c.TryAcquire(ctx, 1, t0, cooldown)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.TryAcquire(ctx, 1, t0.Add(5*time.Minute), cooldown)
	assert.False(t, ok, "second run inside the window is refused")

	ok, _ = c.TryAcquire(ctx, 2, t0.Add(5*time.Minute), cooldown)
	assert.True(t, ok, "businesses are tracked independently")

	ok, _ = c.TryAcquire(ctx, 1, t0.Add(10*time.Minute), cooldown)
	assert.True(t, ok, "window elapsed")
}

func TestMemoryCooldown_Release(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCooldown()
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	ok, _ := c.TryAcquire(ctx, 1, t0, time.Hour)
	require.True(t, ok)
	require.NoError(t, c.Release(ctx, 1))

	ok, _ = c.TryAcquire(ctx, 1, t0.Add(time.Second), time.Hour)
	assert.True(t, ok)
}

func TestRedisCooldown_Unconfigured(t *testing.T) {
	var c *RedisCooldown
	_, err := c.TryAcquire(context.Background(), 1, time.Now(), time.Minute)
	assert.Error(t, err)
	assert.NoError(t, c.Release(context.Background(), 1))
	assert.Equal(t, "bizcore:revenue:cooldown:42", cooldownKey(42))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
