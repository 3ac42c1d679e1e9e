package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON blobs in Redis under a key prefix with a fixed TTL.
// Values are marshalled on Set and unmarshalled into the caller's type on
// Get; a miss is reported as (false, nil) so callers can fall through to
// the primary store.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a Cache. Prefix may be empty, in which case "students:" is used.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "students:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get unmarshals the cached value for key into dest. The bool result reports
// whether the key was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		// a corrupt entry is dropped rather than served
		_ = c.client.Del(ctx, c.key(key)).Err()
		return false, err
	}
	return true, nil
}

// Set stores v under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), b, c.ttl).Err()
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}
