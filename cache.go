package adminkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultPermissionTTL = 5 * time.Minute

// PermissionCache caches effective permission sets (route-name patterns per
// admin) in Redis. It is strictly optional: every method degrades to a miss
// on Redis failure, so a broken cache never breaks authorization — it only
// makes it slower. Relation mutations invalidate affected admins.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// PermissionCacheOption configures a PermissionCache.
type PermissionCacheOption func(*PermissionCache)

// WithCacheTTL overrides the default 5 minute entry lifetime.
func WithCacheTTL(ttl time.Duration) PermissionCacheOption {
	return func(c *PermissionCache) {
		c.ttl = ttl
	}
}

// WithCacheKeyPrefix overrides the default "adminkit:perms" key prefix.
func WithCacheKeyPrefix(prefix string) PermissionCacheOption {
	return func(c *PermissionCache) {
		c.prefix = prefix
	}
}

// NewPermissionCache creates a cache on an existing Redis client.
func NewPermissionCache(client *redis.Client, opts ...PermissionCacheOption) *PermissionCache {
	c := &PermissionCache{
		client: client,
		ttl:    defaultPermissionTTL,
		prefix: "adminkit:perms",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PermissionCache) key(adminID int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, adminID)
}

// Get returns the cached permission set for an admin. ok is false on miss or
// Redis failure.
func (c *PermissionCache) Get(ctx context.Context, adminID int64) (patterns []string, ok bool) {
	raw, err := c.client.Get(ctx, c.key(adminID)).Result()
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &patterns); err != nil {
		return nil, false
	}
	return patterns, true
}

// Set stores the permission set for an admin. An empty set is cached too:
// "no permissions" is as cacheable an answer as any.
func (c *PermissionCache) Set(ctx context.Context, adminID int64, patterns []string) error {
	if patterns == nil {
		patterns = []string{}
	}
	raw, err := json.Marshal(patterns)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(adminID), raw, c.ttl).Err()
}

// Invalidate drops the cached permission sets for the given admins.
func (c *PermissionCache) Invalidate(ctx context.Context, adminIDs ...int64) error {
	if len(adminIDs) == 0 {
		return nil
	}
	keys := make([]string, len(adminIDs))
	for i, id := range adminIDs {
		keys[i] = c.key(id)
	}
	err := c.client.Del(ctx, keys...).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// invalidatePermissions drops cache entries for the given admins, logging but
// never failing the calling mutation.
func (s *Service) invalidatePermissions(ctx context.Context, adminIDs ...int64) {
	if s.cache == nil || len(adminIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, adminIDs...); err != nil {
		s.logger.WithError(err).Warn("permission cache invalidation failed")
	}
}
