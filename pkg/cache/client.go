// Package cache stores resolutions in Redis, keyed by request fingerprint.
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 2 * time.Second

// Config holds Redis connection settings. Timeout bounds dialing, each
// command and the startup ping.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Timeout  time.Duration
	PoolSize int
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client is the Redis connection behind ResolutionCache. It satisfies Store
// and the health checker's Pinger.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and fails unless the server answers a ping.
func NewClient(ctx context.Context, cfg Config, logger ectologger.Logger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     cfg.PoolSize,
	})

	c := &Client{rdb: rdb}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.PingContext(pingCtx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis at %s is unreachable: %w", cfg.addr(), err)
	}

	logger.WithFields(map[string]any{"addr": cfg.addr(), "db": cfg.DB}).Info("Connected to result cache")
	return c, nil
}

func (c *Client) PingContext(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get returns redis.Nil for a missing key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}
