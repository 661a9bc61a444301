package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/storage/revocation"
)

// Revocations is a Redis-backed revocation store. Each revoked token id is a
// key that expires when the token itself would have, so Redis does the cleanup.
type Revocations struct {
	client *redis.Client
	clock  clock.Clock
}

// New connects to Redis and returns a revocation store
func New(ctx context.Context, cfg Config, clk clock.Clock) (*Revocations, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, clk), nil
}

// NewWithClient creates a revocation store with an existing client (for testing)
func NewWithClient(client *redis.Client, clk clock.Clock) *Revocations {
	return &Revocations{
		client: client,
		clock:  clk,
	}
}

// Close closes the Redis connection
func (r *Revocations) Close() error {
	return r.client.Close()
}

// Ping checks Redis is reachable
func (r *Revocations) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Ensure Revocations implements the interface
var _ revocation.Store = (*Revocations)(nil)

func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedTokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
