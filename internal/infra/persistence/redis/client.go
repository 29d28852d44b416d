// Package redis keeps each scope as one Redis hash, so the scope TTL is a
// single EXPIRE and ending a scope is a single DEL.
package redis

import (
	"context"
	"time"

	"elogbook/config"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects and pings with a short timeout.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrap(err, "redis ping")
	}

	return client, nil
}
