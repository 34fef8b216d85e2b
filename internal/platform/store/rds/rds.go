// Package rds wraps the go-redis client behind a small seam the store can own
package rds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	// URL is a redis:// or rediss:// connection string
	URL string

	// DialTimeout bounds the initial connection, default 5s
	DialTimeout time.Duration
}

// RDS owns a redis client
type RDS struct {
	Client *redis.Client
}

// Open parses the URL and connects. The caller owns Close
func Open(_ context.Context, cfg Config) (*RDS, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rds: empty url")
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rds: parse url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	return &RDS{Client: redis.NewClient(opt)}, nil
}

// Ping verifies connectivity
func (r *RDS) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("rds: nil client")
	}
	return r.Client.Ping(ctx).Err()
}

// Close releases the underlying pool
func (r *RDS) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
