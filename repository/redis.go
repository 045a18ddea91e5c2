package repository

import (
	"context"
	"time"

	"aquashop/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses cfg.URL, applies the timeouts and pings the server.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
