// Package cache holds the revenue cooldown trackers.
package cache

import (
	"context"
	"sync"
	"time"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
)

// MemoryCooldown tracks last generation times in process memory. It is only
// correct when a single replica runs the revenue job.
type MemoryCooldown struct {
	mu   sync.Mutex
	last map[int64]time.Time
}

var _ portssvc.CooldownTracker = (*MemoryCooldown)(nil)

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{last: make(map[int64]time.Time)}
}

func (c *MemoryCooldown) TryAcquire(_ context.Context, businessID int64, now time.Time, cooldown time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.last[businessID]; ok && now.Sub(prev) < cooldown {
		return false, nil
	}
	c.last[businessID] = now
	return true, nil
}

func (c *MemoryCooldown) Release(_ context.Context, businessID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.last, businessID)
	return nil
}
