// ABOUTME: Redis cache implementation storing entries as RedisJSON documents
// ABOUTME: Provides the distributed cache backend shared across API instances

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nitishm/go-rejson/v4"
	goredis "github.com/redis/go-redis/v9"

	"precios-api/pkg/config"
)

// ErrKeyNotFound is returned when a key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// RedisCache implements the Cache interface using Redis with the ReJSON
// module, so cached search aggregates are stored as JSON documents rather
// than opaque strings.
type RedisCache struct {
	client  *goredis.Client
	handler *rejson.Handler
}

// NewRedisCache creates a new Redis cache instance and verifies connectivity.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClientWithContext(context.Background(), client)

	return &RedisCache{
		client:  client,
		handler: handler,
	}, nil
}

// Get retrieves a JSON document from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.handler.JSONGet(key, ".")
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, ErrKeyNotFound
	default:
		return nil, errors.New("unexpected value type from redis")
	}
}

// Set stores a JSON document in Redis with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return errors.New("value is not valid JSON")
	}

	if _, err := c.handler.JSONSet(key, ".", json.RawMessage(value)); err != nil {
		return err
	}

	// JSONSet has no TTL argument; expiry is set on the key afterwards.
	if ttl > 0 {
		return c.client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

// Delete removes a key from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	// Deleting a non-existent key is not an error for our use case.
	return c.client.Del(ctx, key).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
