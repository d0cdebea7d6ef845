package blueprintcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/pkg/util"
)

type entry struct {
	payload   blueprint.Blueprint
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache keeps blueprints in process memory with a TTL and an entry bound.
type MemoryCache struct {
	mu         sync.Mutex
	clock      util.Clock
	maxEntries int
	entries    map[string]entry
}

// NewMemoryCache constructs a cache. maxEntries <= 0 disables the bound.
func NewMemoryCache(clock util.Clock, maxEntries int) *MemoryCache {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &MemoryCache{
		clock:      clock,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
	}
}

// Get implements blueprint.Cache. Expired entries are purged on read.
func (c *MemoryCache) Get(_ context.Context, key string) (blueprint.Blueprint, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return blueprint.Blueprint{}, false, nil
	}
	if c.expired(e) {
		delete(c.entries, key)
		return blueprint.Blueprint{}, false, nil
	}
	return e.payload, true, nil
}

// Set implements blueprint.Cache. A non-positive ttl stores the entry without expiry.
func (c *MemoryCache) Set(_ context.Context, key string, bp blueprint.Blueprint, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evict()
	}
	c.entries[key] = entry{payload: bp, storedAt: now, expiresAt: exp}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict drops expired entries first, then the oldest one if still full.
func (c *MemoryCache) evict() {
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = key, e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}

func (c *MemoryCache) expired(e entry) bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return !c.clock.Now().Before(e.expiresAt)
}

var _ blueprint.Cache = (*MemoryCache)(nil)
