// Package ratelimit counts recent contact submissions per sender address.
//
// Two backends implement the same Counter contract: the Postgres repository
// counts stored rows inside the trailing window (the authoritative policy),
// and RedisCounter keeps atomic per-address counters for deployments that
// want to close the read-then-write race between near-simultaneous
// submissions from the same address.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter reports how many submissions an address has made inside the
// trailing window, including the submission currently being dispatched.
type Counter interface {
	CountRecent(ctx context.Context, email string, window time.Duration) (int, error)
}

// Lua script for an atomic bucket increment. Incrementing and reading in
// one round trip means two concurrent dispatches can never both observe a
// below-threshold count.
const bucketCountScript = `
local current = KEYS[1]
local previous = KEYS[2]
local ttl = tonumber(ARGV[1])

local cur = redis.call("INCR", current)
if cur == 1 then
    redis.call("EXPIRE", current, ttl)
end

local prev = tonumber(redis.call("GET", previous) or "0")
return cur + prev
`

// RedisCounter implements Counter with fixed window buckets in Redis.
// The trailing window is approximated by summing the current and previous
// bucket, which over-counts at bucket boundaries; for abuse deterrence
// that errs on the strict side, which is what we want.
type RedisCounter struct {
	redis  *redis.Client
	script *redis.Script
}

// NewRedisCounter creates a counter on an existing Redis client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{
		redis:  client,
		script: redis.NewScript(bucketCountScript),
	}
}

// NewRedisCounterFromURL creates a counter by connecting to Redis.
func NewRedisCounterFromURL(redisURL string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCounter(client), nil
}

// CountRecent atomically records this submission and returns the number of
// submissions from email inside the trailing window, itself included.
// The address must already be lower-cased and trimmed by the caller.
func (c *RedisCounter) CountRecent(ctx context.Context, email string, window time.Duration) (int, error) {
	bucket := time.Now().Unix() / int64(window.Seconds())
	curKey := fmt.Sprintf("ratelimit:contact:%s:%d", email, bucket)
	prevKey := fmt.Sprintf("ratelimit:contact:%s:%d", email, bucket-1)
	ttl := int(window.Seconds()) * 2

	n, err := c.script.Run(ctx, c.redis, []string{curKey, prevKey}, ttl).Int()
	if err != nil {
		return 0, fmt.Errorf("rate count for %s: %w", email, err)
	}
	return n, nil
}

// Close releases the underlying Redis connection.
func (c *RedisCounter) Close() error {
	return c.redis.Close()
}
