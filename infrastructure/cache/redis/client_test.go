// ABOUTME: Tests for the Redis cache constructor
// ABOUTME: Connection-dependent behavior is covered by integration environments

package redis

import (
	"testing"

	"precios-api/pkg/config"
)

func TestNewRedisCacheEmptyAddress(t *testing.T) {
	_, err := NewRedisCache(config.RedisConfig{})
	if err == nil {
		t.Fatal("expected an error for an empty address")
	}
}

func TestNewRedisCacheUnreachableServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection attempt in short mode")
	}

	_, err := NewRedisCache(config.RedisConfig{Address: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected a connection error for an unreachable server")
	}
}
