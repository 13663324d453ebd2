package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient parses redisURL and verifies the server answers PING.
func NewClient(ctx context.Context, redisURL string, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to redis")

	return client, nil
}

// Checker reports Redis reachability for readiness probes.
type Checker struct {
	client *redis.Client
}

// NewChecker creates a new Checker.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

// Name identifies the dependency in readiness output.
func (c *Checker) Name() string { return "redis" }

// Check pings the server.
func (c *Checker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
