package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsroster/scheduler/config"
)

// Client wraps a Redis connection. Used for the refresh-token blacklist
// and for the generation advisory lock (spec.md §5: "at most one
// in-flight generation per team").
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it once to fail fast on a bad address.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── refresh token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken marks a refresh token's jti revoked until it would have expired anyway.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to blacklist
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether jti has been revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── generation advisory lock ──

const lockPrefix = "sched:genlock:"

// ErrLockHeld is returned by AcquireLock when another generation already
// holds the key.
var ErrLockHeld = errors.New("generation lock already held")

// AcquireLock takes the per-team generation lock with SET NX, so only
// one caller can hold a given key's lock at a time. token must be
// handed back unchanged to ReleaseLock.
func (c *Client) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) error {
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// releaseLockScript only deletes the key if it still holds our token,
// so a caller can never release a lock it doesn't own (e.g. after its
// TTL expired and someone else acquired it).
var releaseLockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// ReleaseLock releases a lock previously taken with AcquireLock, a no-op
// if it was already released or has expired and been taken by someone else.
func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	return releaseLockScript.Run(ctx, c.rdb, []string{lockPrefix + key}, token).Err()
}

// ── rate limiting ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit implements a fixed-window counter: the first request in
// a window sets the key with an expiry of window; every request after
// that just increments it. Reports whether this request is allowed.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitPrefix + key
	count, err := c.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close shuts down the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
