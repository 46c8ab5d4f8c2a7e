package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis from a URL (redis://[:password@]host:port/db)
// and verifies the connection with a ping. The connection is established once
// at process start; callers must not reconnect lazily.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Health reports whether the Redis connection is usable.
func Health(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client is not connected")
	}
	return client.Ping(ctx).Err()
}
