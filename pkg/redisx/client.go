package redisx

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Options holds Redis connection settings.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client.
func NewClient(opts *Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// Ping tests the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
