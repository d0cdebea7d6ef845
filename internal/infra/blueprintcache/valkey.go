package blueprintcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
)

// ValkeyCache shares generated blueprints across instances through Valkey.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "blueprint"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (blueprint.Blueprint, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return blueprint.Blueprint{}, false, nil
		}
		return blueprint.Blueprint{}, false, err
	}
	var bp blueprint.Blueprint
	if err := json.Unmarshal([]byte(payload), &bp); err != nil {
		return blueprint.Blueprint{}, false, fmt.Errorf("decode cached blueprint: %w", err)
	}
	return bp, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, bp blueprint.Blueprint, ttl time.Duration) error {
	payload, err := json.Marshal(bp)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":" + key
}

var _ blueprint.Cache = (*ValkeyCache)(nil)
