package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis client backing the draft store.
type Options struct {
	Addr string
	// DB selects the logical database; drafts may share a server with asynq.
	DB int
	// OpTimeout bounds each read and write. Defaults to 3s.
	OpTimeout time.Duration
}

// New creates a Redis client and verifies the connection.
func New(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 3 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  opts.OpTimeout,
		WriteTimeout: opts.OpTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s db %d: %w", opts.Addr, opts.DB, err)
	}

	return client, nil
}
