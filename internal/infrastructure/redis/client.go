package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	pingInitialInterval = 100 * time.Millisecond
	pingMaxInterval     = 2 * time.Second
)

// NewClient creates a new Redis client. The connection is verified with a
// ping that is retried with exponential backoff up to maxRetries times.
func NewClient(ctx context.Context, redisURL string, maxRetries uint64) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pingInitialInterval
	b.MaxInterval = pingMaxInterval

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	if err := backoff.Retry(ping, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
