package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// EventPublisher appends domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream string, payload interface{}) error
}

type redisEventPublisher struct {
	redisClient *redis.Client
	maxLen      int64
	log         *logger.Logger
}

// NewRedisEventPublisher publishes events to Redis streams, capping each stream at maxLen entries.
func NewRedisEventPublisher(redisClient *redis.Client, maxLen int64, log *logger.Logger) EventPublisher {
	return &redisEventPublisher{redisClient: redisClient, maxLen: maxLen, log: log}
}

func (p *redisEventPublisher) Publish(ctx context.Context, stream string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	id, err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": string(body)},
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
	}).Result()
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to publish event", logger.ErrorField(err), logger.StringField("stream", stream))
		return err
	}

	p.log.DebugContext(ctx, "Event published", logger.StringField("stream", stream), logger.StringField("message_id", id))
	return nil
}

type nopEventPublisher struct{}

// NewNopEventPublisher returns a publisher that drops every event. Used when Redis is disabled.
func NewNopEventPublisher() EventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}
