package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "searchbot:results:"

// RedisCache stores search results as JSON string values with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Key returns the redis key used for provider and query.
func Key(provider, query string) string {
	sum := sha1.Sum([]byte(query))
	return keyPrefix + provider + ":" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, provider, query string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, Key(provider, query)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var links []string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, false, fmt.Errorf("decode cached links: %w", err)
	}
	return links, true, nil
}

func (c *RedisCache) Set(ctx context.Context, provider, query string, links []string, ttl time.Duration) error {
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode links: %w", err)
	}
	if err := c.client.Set(ctx, Key(provider, query), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
