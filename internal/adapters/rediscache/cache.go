// internal/adapters/rediscache/cache.go
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

// ErrCacheMiss is returned by Get when the key holds nothing
var ErrCacheMiss = errors.New("cache miss")

// KeyPrefix namespaces cached values
type KeyPrefix string

// PrefixExport holds rendered catalog exports
const PrefixExport KeyPrefix = "export"

// scanBatch is the COUNT hint passed to SCAN
const scanBatch = 100

// BuildKey joins a prefix and parts with colons
func BuildKey(prefix KeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}

// Cache stores JSON encoded values in Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *Cache implements the CacheRepository interface.
var _ ports.CacheRepository = (*Cache)(nil)

// NewCache wraps client; every Set expires after ttl
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Set stores value under key
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
		slog.Duration("ttl", c.ttl))
	return nil
}

// Get decodes the value under key into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return ErrCacheMiss
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Delete removes keys; missing keys are ignored
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	c.logger.DebugContext(ctx, "cache keys deleted", slog.Int("count", len(keys)))
	return nil
}

// DeletePattern removes every key matching a glob pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var batch []string

	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %q: %w", pattern, err)
	}

	return c.Delete(ctx, batch...)
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// NewClient builds a go-redis client and verifies it can reach the server
func NewClient(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
