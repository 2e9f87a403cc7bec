// Package redis implements the read-result cache over Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/janhicken/cloud-bigtable-client/internal/core/domain"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Cache caches GetTable and ListTables results. Lookup and store
// errors are logged and treated as misses; the cache never fails a
// call.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache connects to Redis and verifies the connection.
func NewCache(cfg Config, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Ping verifies the connection is alive.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func tableKey(tableID string) string {
	return fmt.Sprintf("admin:table:%s", tableID)
}

const tableNamesKey = "admin:tables"

// GetTable returns the cached table description, if any.
func (c *Cache) GetTable(ctx context.Context, tableID string) (*domain.Table, bool) {
	data, err := c.rdb.Get(ctx, tableKey(tableID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("table cache lookup failed", "table", tableID, "error", err)
		}
		return nil, false
	}
	var t domain.Table
	if err := json.Unmarshal(data, &t); err != nil {
		slog.Warn("table cache entry corrupt", "table", tableID, "error", err)
		return nil, false
	}
	return &t, true
}

// PutTable stores a table description under the requested table id
// with the configured TTL.
func (c *Cache) PutTable(ctx context.Context, tableID string, table *domain.Table) {
	data, err := json.Marshal(table)
	if err != nil {
		slog.Warn("table cache marshal failed", "table", tableID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, tableKey(tableID), data, c.ttl).Err(); err != nil {
		slog.Warn("table cache store failed", "table", tableID, "error", err)
	}
}

// DropTable invalidates one cached table description.
func (c *Cache) DropTable(ctx context.Context, tableID string) {
	if err := c.rdb.Del(ctx, tableKey(tableID)).Err(); err != nil {
		slog.Warn("table cache invalidation failed", "table", tableID, "error", err)
	}
}

// GetTableNames returns the cached table listing, if any.
func (c *Cache) GetTableNames(ctx context.Context) ([]string, bool) {
	data, err := c.rdb.Get(ctx, tableNamesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("table list cache lookup failed", "error", err)
		}
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		slog.Warn("table list cache entry corrupt", "error", err)
		return nil, false
	}
	return names, true
}

// PutTableNames stores the table listing with the configured TTL.
func (c *Cache) PutTableNames(ctx context.Context, names []string) {
	data, err := json.Marshal(names)
	if err != nil {
		slog.Warn("table list cache marshal failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, tableNamesKey, data, c.ttl).Err(); err != nil {
		slog.Warn("table list cache store failed", "error", err)
	}
}

// DropTableNames invalidates the cached table listing.
func (c *Cache) DropTableNames(ctx context.Context) {
	if err := c.rdb.Del(ctx, tableNamesKey).Err(); err != nil {
		slog.Warn("table list cache invalidation failed", "error", err)
	}
}
