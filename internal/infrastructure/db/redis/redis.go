package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 5 * time.Second
	defaultIOTimeout   = 3 * time.Second
)

// Config holds the connection settings shared by the activity dedup store
// and the stats cache.
type Config struct {
	Addr     string
	Password string
	DB       int

	// PoolSize and MinIdleConns fall back to go-redis defaults when zero.
	PoolSize     int
	MinIdleConns int

	// Timeout bounds the startup ping. IOTimeout bounds each read and write;
	// dedup checks sit on the activity path and must fail fast.
	Timeout   time.Duration
	IOTimeout time.Duration
}

func (c Config) options() *redis.Options {
	io := c.IOTimeout
	if io <= 0 {
		io = defaultIOTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		ReadTimeout:  io,
		WriteTimeout: io,
	}
}

// Connect opens the client and pings it before handing it out.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
