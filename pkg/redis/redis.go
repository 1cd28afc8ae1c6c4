package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"turnario/backend/config"
)

// Client wraps the redis connection used for reconciliation run markers.
// The rest of the system degrades gracefully when redis is unavailable,
// so callers must tolerate a nil *Client.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to redis and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func markerKey(teamID, date string) string {
	return fmt.Sprintf("recon:done:%s:%s", teamID, date)
}

// MarkReconciled records that a team/date unit completed successfully.
// Markers carry a TTL so stale entries expire on their own.
func (c *Client) MarkReconciled(ctx context.Context, teamID, date string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.rdb.Set(ctx, markerKey(teamID, date), "1", ttl).Err()
}

// IsReconciled reports whether a team/date unit already has a run marker.
// Errors are swallowed: a marker miss just means the caller falls back to
// probing the derived tables.
func (c *Client) IsReconciled(ctx context.Context, teamID, date string) bool {
	if c == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, markerKey(teamID, date)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// ClearMarker removes the run marker for a team/date unit. Used when a
// forced run must recompute a day regardless of previous results.
func (c *Client) ClearMarker(ctx context.Context, teamID, date string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, markerKey(teamID, date)).Err()
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
