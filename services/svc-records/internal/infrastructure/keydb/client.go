package keydb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/redis/go-redis/v9"
)

var compareAndSwapScript = redis.NewScript(`
	local current = redis.call("GET", KEYS[1])
	if current == false or tonumber(current) ~= tonumber(ARGV[1]) then
		return 0
	end
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
`)

// Client is a thin KeyDB (Redis protocol) client holding integer counters.
type Client struct {
	client *redis.Client
	logger logger.Logger
}

func NewClient(cfg config.Cache, log logger.Logger) *Client {
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           int(cfg.DB),
			PoolSize:     int(cfg.PoolSize),
			MinIdleConns: int(cfg.MinIdleConns),
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolTimeout:  cfg.PoolTimeout,
			MaxRetries:   int(cfg.MaxRetries),
		}),
		logger: log,
	}
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging keydb: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetInt64 reports whether key holds a value and returns it.
func (c *Client) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}

		c.logger.Error().
			Err(err).
			Str("key", key).
			Msg("keydb get operation failed")

		return 0, false, err
	}

	return val, true, nil
}

// SetInt64NX stores value only when the key is absent.
func (c *Client) SetInt64NX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, ttl).Result()
}

// CompareAndSwapInt64 replaces old with new atomically and refreshes the TTL.
func (c *Client) CompareAndSwapInt64(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	result, err := compareAndSwapScript.Run(ctx, c.client, []string{key}, old, new, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}
