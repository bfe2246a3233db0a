// Package redis publishes pipeline events so dashboards and downstream
// consumers see validation and promotion outcomes as they happen.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event channels and streams.
const (
	ChannelValidation = "congressx:validation"
	ChannelPromotion  = "congressx:promotion"
	StreamEvents      = "congressx:events"

	DefaultStreamMaxLen = 10000
)

// Client wraps the Redis client for best-effort event publishing. Pipeline
// work never fails because Redis is down.
type Client struct {
	client       *redis.Client
	logger       *zap.Logger
	streamMaxLen int64
}

// NewClient creates a Redis client from the environment:
//   - REDIS_HOST: Redis host (default: "localhost")
//   - REDIS_PORT: Redis port (default: "6379")
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_DB: Redis database number (default: 0)
//   - REDIS_STREAM_MAXLEN: max entries kept per stream (default: 10000)
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	streamMaxLen := utils.EnvInt64("REDIS_STREAM_MAXLEN", DefaultStreamMaxLen)

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db))

	return &Client{
		client:       rdb,
		logger:       logger,
		streamMaxLen: streamMaxLen,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// publish sends a JSON payload on a channel and appends it to the event
// stream. Errors are logged, never returned.
func (c *Client) publish(ctx context.Context, channel, kind string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("Failed to encode event", zap.String("kind", kind), zap.Error(err))
		return
	}

	if err := c.client.Publish(ctx, channel, raw).Err(); err != nil {
		c.logger.Warn("Failed to publish Redis message",
			zap.String("channel", channel),
			zap.Error(err))
	}

	args := &redis.XAddArgs{
		Stream: StreamEvents,
		Values: map[string]any{"kind": kind, "payload": string(raw)},
	}
	if c.streamMaxLen > 0 {
		args.MaxLen = c.streamMaxLen
		args.Approx = true
	}
	if err := c.client.XAdd(ctx, args).Err(); err != nil {
		c.logger.Warn("Failed to append to event stream",
			zap.String("stream", StreamEvents),
			zap.Error(err))
	}
}

// PublishValidation announces a completed suite run.
func (c *Client) PublishValidation(ctx context.Context, result models.ValidationResult) error {
	c.publish(ctx, ChannelValidation, "validation", result)
	return nil
}

// PublishPromotion announces a promotion attempt.
func (c *Client) PublishPromotion(ctx context.Context, promotion models.DataPromotion) {
	c.publish(ctx, ChannelPromotion, "promotion", promotion)
}

// Subscribe subscribes to one or more event channels. The caller closes
// the returned PubSub.
func (c *Client) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return c.client.Subscribe(ctx, channels...)
}
