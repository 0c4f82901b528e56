// Package cache wraps a shared Redis client used for catalog read caching
// and as the queue backend.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/duolink/cotizador/config"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// Connect initialises the Redis client and verifies the connection with a
// ping. On error the client is left nil and Get/Set/Forget no-op safely,
// so the app degrades to uncached reads instead of failing to boot.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	rdb = client
	return nil
}

// Client exposes the shared Redis client for the queue driver, or nil
// when Redis is unavailable.
func Client() *redis.Client { return rdb }

// Get unmarshals the cached value at key into dest. Returns true only on
// a hit with a decodable payload.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(context.Background(), key, data, ttl).Err()
}

// Forget drops one or more keys. Called after every write to a cached
// entity.
func Forget(keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(context.Background(), keys...).Err()
}
