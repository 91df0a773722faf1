package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	permissionCachePrefix = "milestone:role_permissions:"
	permissionLoadTimeout = 5 * time.Second
)

// RedisClientRaw is the subset of go-redis used by the permission cache and
// readiness probe.
type RedisClientRaw interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// NewRedisClient parses redisURL (redis://host:port/db) and checks the server
// answers before returning the client.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return client, nil
}

// RedisPermissionCache is a read-through cache of role permissions in front of
// another PermissionLoader. Redis failures fall back to the underlying loader.
// Concurrent misses for the same role share one underlying load, which is not
// tied to the cancellation of any single caller.
type RedisPermissionCache struct {
	client RedisClientRaw
	next   PermissionLoader
	ttl    time.Duration
	logger *slog.Logger
	loads  singleflight.Group
}

func NewRedisPermissionCache(client RedisClientRaw, next PermissionLoader, ttl time.Duration, logger *slog.Logger) *RedisPermissionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPermissionCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With("component", "permission_cache"),
	}
}

func permissionCacheKey(role string) string {
	return permissionCachePrefix + role
}

func (c *RedisPermissionCache) LoadPermissions(ctx context.Context, role string) ([]string, error) {
	key := permissionCacheKey(role)
	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var perms []string
		if jerr := json.Unmarshal([]byte(val), &perms); jerr == nil {
			return perms, nil
		}
		c.logger.Warn("discarding malformed cache entry", "role", role)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("permission cache read failed", "role", role, "error", err)
	}

	v, err, _ := c.loads.Do(role, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), permissionLoadTimeout)
		defer cancel()
		perms, err := c.next.LoadPermissions(ctx, role)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(perms); err == nil {
			if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.logger.Warn("permission cache write failed", "role", role, "error", err)
			}
		}
		return perms, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}
