package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pumpdetector/internal/pump"

	"github.com/redis/go-redis/v9"
)

const alertKeyPrefix = "pump:alert:"

// RedisSink caches the latest alert per symbol and publishes every alert on a pub/sub channel.
type RedisSink struct {
	client  redis.Cmdable
	channel string
	ttl     time.Duration
}

func NewRedisSink(client redis.Cmdable, channel string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, channel: channel, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, _ []string, alert pump.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	// SET + PUBLISH in one round trip
	pipe := s.client.Pipeline()
	pipe.Set(ctx, alertKeyPrefix+alert.Symbol, payload, s.ttl)
	pipe.Publish(ctx, s.channel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}
