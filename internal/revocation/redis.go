// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

// Package revocation stores denylisted access-token IDs in Redis.
package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/wardrobe-app/wardrobe/internal/auth"
)

// DefaultKeyPrefix namespaces denylist keys.
const DefaultKeyPrefix = "wardrobe"

const deniedValue = "denied"

var _ auth.RevocationRegistry = (*RedisRegistry)(nil)

// RedisRegistry implements auth.RevocationRegistry. Each denied jti is a key
// that expires together with the token it blocks.
type RedisRegistry struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// Option configures a RedisRegistry.
type Option func(*RedisRegistry)

// WithKeyPrefix sets the key namespace. Empty keeps DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(r *RedisRegistry) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithClock overrides the time source used to compute entry TTLs.
func WithClock(now func() time.Time) Option {
	return func(r *RedisRegistry) { r.now = now }
}

// NewRedisRegistry creates a registry backed by client.
func NewRedisRegistry(client redis.Cmdable, opts ...Option) (*RedisRegistry, error) {
	if client == nil {
		return nil, oops.Code("REVOCATION_INVALID_DEPENDENCY").Errorf("redis client is required")
	}
	r := &RedisRegistry{client: client, prefix: DefaultKeyPrefix, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Key returns the Redis key for jti.
func (r *RedisRegistry) Key(jti string) string {
	return r.prefix + ":denied:" + jti
}

// Deny records jti until exp. Nothing is written once exp has passed.
func (r *RedisRegistry) Deny(ctx context.Context, jti string, exp time.Time) error {
	ttl := auth.RemainingTTL(exp, r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.Key(jti), deniedValue, ttl).Err(); err != nil {
		return oops.Code("REVOCATION_DENY_FAILED").
			With("jti", jti).
			With("ttl", ttl.String()).
			Wrap(err)
	}
	return nil
}

// IsDenied reports whether jti is currently denylisted.
func (r *RedisRegistry) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.Key(jti)).Result()
	if err != nil {
		return false, oops.Code("REVOCATION_CHECK_FAILED").
			With("jti", jti).
			Wrap(err)
	}
	return n > 0, nil
}

// Connect parses a redis:// URL, creates a client and waits for it to answer
// a ping. The caller owns the returned client and must Close it.
func Connect(ctx context.Context, redisURL string, backoff retry.Backoff) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, oops.Code("REDIS_CONFIG_INVALID").Wrap(err)
	}
	client := redis.NewClient(opts)

	if backoff == nil {
		backoff = retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	}
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").
			With("addr", opts.Addr).
			Wrap(err)
	}
	return client, nil
}
