package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis stream, trimming it to
// roughly maxLen entries.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Name() string { return "redis" }

func (p *RedisStreamPublisher) Publish(ctx context.Context, e RosterEvent) error {
	if err := p.client.XAdd(ctx, p.args(e)).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// args uses a flat slice for Values so the field order is fixed.
func (p *RedisStreamPublisher) args(e RosterEvent) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: []interface{}{
			"id", e.ID,
			"type", string(e.Type),
			"activity", e.Activity,
			"email", e.Email,
			"roster_size", e.RosterSize,
			"max_participants", e.MaxParticipants,
			"occurred_at", e.OccurredAt.Format(time.RFC3339Nano),
		},
	}
}

func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}
