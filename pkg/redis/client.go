package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantswapio/plantswap-backend/pkg/config"
)

// All keys live under one namespace so a shared redis can host
// multiple environments.
const keyNamespace = "ps"

// Client wraps the redis connection for the helpers the platform needs:
// idempotency markers and fixed-window counters.
type Client struct {
	rdb *redis.Client
}

// IdempotencyStore is the subset of operations the event idempotency
// guard depends on.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// New connects and verifies connectivity before returning the client.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// buildOptions prefers a full URL; explicit address fields fill in
// anything the URL leaves unset.
func buildOptions(cfg config.RedisConfig) (*redis.Options, error) {
	switch {
	case cfg.URL != "":
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		applyPoolDefaults(opts, cfg)
		return opts, nil
	case cfg.Address != "":
		opts := &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		applyPoolDefaults(opts, cfg)
		return opts, nil
	default:
		return nil, errors.New("redis url or address is required")
	}
}

func applyPoolDefaults(opts *redis.Options, cfg config.RedisConfig) {
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

func (c *Client) ready() error {
	if c == nil || c.rdb == nil {
		return errors.New("redis client not initialized")
	}
	return nil
}

// Get returns the string stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return c.rdb.Get(ctx, key).Result()
}

// SetNX sets a value only when the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// IncrWithTTL increments a counter and arms the TTL when the counter
// is created, so each fixed window expires as a unit.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 && count == 1 {
		if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// IdempotencyKey builds a namespaced key for idempotency markers.
func (c *Client) IdempotencyKey(scope, id string) string {
	return joinKey("idempotency", scope, id)
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close shuts down the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func joinKey(parts ...string) string {
	key := []string{keyNamespace}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			key = append(key, trimmed)
		}
	}
	return strings.Join(key, ":")
}
