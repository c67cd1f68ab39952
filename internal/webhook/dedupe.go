// ABOUTME: TTL cache over webhook event ids to skip redelivered events
// ABOUTME: Best effort only; exactly-once processing is not a guarantee of this service

package webhook

import (
	"sync"
	"time"
)

// deliveryCache remembers recently seen webhook event ids so redelivered
// events are not processed twice within the window.
type deliveryCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func newDeliveryCache(ttl time.Duration) *deliveryCache {
	return &deliveryCache{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// checkAndMark reports whether id was already seen within the TTL, marking
// it either way. Expired entries are pruned while the lock is held.
func (c *deliveryCache) checkAndMark(id string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, at := range c.seen {
		if now.Sub(at) >= c.ttl {
			delete(c.seen, k)
		}
	}

	if at, ok := c.seen[id]; ok && now.Sub(at) < c.ttl {
		return true
	}
	c.seen[id] = now
	return false
}
