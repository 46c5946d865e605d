package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/telegram"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// formatFunc turns a stream payload into a notification text.
type formatFunc func(payload []byte) (string, error)

// RedisConsumer forwards portfolio events from Redis streams to Telegram.
type RedisConsumer struct {
	redisClient *redis.Client
	notifier    telegram.Notifier
	logger      *logger.Logger
	block       time.Duration
	formatters  map[string]formatFunc
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(redisClient *redis.Client, notifier telegram.Notifier, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		redisClient: redisClient,
		notifier:    notifier,
		logger:      log,
		block:       2 * time.Second,
		formatters: map[string]formatFunc{
			common.RedisStreamTradeExecuted:    formatTrade,
			common.RedisStreamRefreshCompleted: formatRefresh,
		},
		stopChan: make(chan struct{}),
	}
}

// Streams returns the streams the consumer reads, for consumer group setup.
func (c *RedisConsumer) Streams() []string {
	return []string{common.RedisStreamTradeExecuted, common.RedisStreamRefreshCompleted}
}

// Start begins one read loop per stream.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	for _, stream := range c.Streams() {
		c.RegisterStreamHandler(ctx, stream)
	}
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, stream string) {
	c.logger.Info("Registering stream handler", logger.Field("stream", stream))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation", logger.StringField("stream", stream))
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping", logger.StringField("stream", stream))
				return
			default:
				c.Poll(ctx, stream)
			}
		}
	})
}

// Poll reads at most one new message from stream, notifies and acknowledges it.
// A message whose notification fails stays pending.
func (c *RedisConsumer) Poll(ctx context.Context, stream string) {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return
		}
		c.logger.Error("Failed to read from stream", logger.ErrorField(err), logger.StringField("stream", stream))
		return
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	payload, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		c.ack(ctx, stream, message.ID)
		return
	}

	text, err := c.formatters[stream]([]byte(payload))
	if err != nil {
		c.logger.Error("Failed to decode event", logger.ErrorField(err), logger.Field("message_id", message.ID))
		c.ack(ctx, stream, message.ID)
		return
	}

	if err := c.notifier.SendMessage(text); err != nil {
		c.logger.Error("Failed to send telegram notification", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}
	c.ack(ctx, stream, message.ID)
}

func (c *RedisConsumer) ack(ctx context.Context, stream, id string) {
	if err := c.redisClient.XAck(ctx, stream, common.RedisStreamGroup, id).Err(); err != nil {
		c.logger.Error("Failed to acknowledge message", logger.ErrorField(err), logger.Field("message_id", id))
	}
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}

func formatTrade(payload []byte) (string, error) {
	var event dto.TradeExecutedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return "", fmt.Errorf("invalid trade event: %w", err)
	}
	return telegram.FormatTradeExecuted(event), nil
}

func formatRefresh(payload []byte) (string, error) {
	var event dto.RefreshCompletedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return "", fmt.Errorf("invalid refresh event: %w", err)
	}
	return telegram.FormatRefreshCompleted(event), nil
}
