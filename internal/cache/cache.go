package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes of the cached records. A cached record is keyed by its prefix
// followed by the record id.
const (
	UserPrefix = "user:"
	JobPrefix  = "job:"
)

const flushBatch = 100

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves as an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. It returns nil when addr is empty, which
// disables caching.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping reports whether redis is reachable. Callers use it for startup logs
// only; the cache keeps working as a miss-only cache when it fails.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return nil
	}
	return nil
}

// Flush deletes every key under the given prefixes. Unlike Get and Set it
// reports redis errors, so a caller can refuse to run with stale entries.
func (c *Client) Flush(ctx context.Context, prefixes ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	for _, prefix := range prefixes {
		iter := c.client.Scan(ctx, 0, prefix+"*", flushBatch).Iterator()
		batch := make([]string, 0, flushBatch)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == flushBatch {
				if err := c.client.Del(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("delete %s*: %w", prefix, err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s*: %w", prefix, err)
		}
		if len(batch) > 0 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("delete %s*: %w", prefix, err)
			}
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
