package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *fakeNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func setup(t *testing.T, notifier *fakeNotifier) (*redis.Client, *RedisConsumer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisConsumer(client, notifier, logger.NewNop())
	c.block = 50 * time.Millisecond
	for _, stream := range c.Streams() {
		require.NoError(t, client.XGroupCreateMkStream(context.Background(), stream, common.RedisStreamGroup, "0").Err())
	}
	return client, c
}

func pending(t *testing.T, client *redis.Client, stream string) int64 {
	t.Helper()
	p, err := client.XPending(context.Background(), stream, common.RedisStreamGroup).Result()
	require.NoError(t, err)
	return p.Count
}

func TestRedisConsumer_ForwardsTradeEvent(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	client, c := setup(t, notifier)

	publisher := repository.NewRedisEventPublisher(client, 100, logger.NewNop())
	require.NoError(t, publisher.Publish(ctx, common.RedisStreamTradeExecuted, dto.TradeExecutedEvent{
		Side: dto.TradeSideBuy, Ticker: "SBER", Quantity: 10,
		Price: decimal.RequireFromString("265.5"), PositionQuantity: 184,
	}))

	c.Poll(ctx, common.RedisStreamTradeExecuted)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "SBER")
	assert.Equal(t, int64(0), pending(t, client, common.RedisStreamTradeExecuted))
}

func TestRedisConsumer_FailedNotificationStaysPending(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	client, c := setup(t, notifier)

	publisher := repository.NewRedisEventPublisher(client, 100, logger.NewNop())
	require.NoError(t, publisher.Publish(ctx, common.RedisStreamRefreshCompleted, dto.RefreshCompletedEvent{HistoryID: 1, Status: "COMPLETED"}))

	c.Poll(ctx, common.RedisStreamRefreshCompleted)

	assert.Empty(t, notifier.sent())
	assert.Equal(t, int64(1), pending(t, client, common.RedisStreamRefreshCompleted))
}

func TestRedisConsumer_MalformedMessageIsAcked(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	client, c := setup(t, notifier)

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamTradeExecuted,
		Values: map[string]interface{}{"payload": "{not json"},
	}).Err())

	c.Poll(ctx, common.RedisStreamTradeExecuted)

	assert.Empty(t, notifier.sent())
	assert.Equal(t, int64(0), pending(t, client, common.RedisStreamTradeExecuted))
}

func TestRedisConsumer_StartAndStop(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	client, c := setup(t, notifier)

	c.Start(ctx)
	publisher := repository.NewRedisEventPublisher(client, 100, logger.NewNop())
	require.NoError(t, publisher.Publish(ctx, common.RedisStreamRefreshCompleted, dto.RefreshCompletedEvent{HistoryID: 2, Status: "FAILED"}))

	assert.Eventually(t, func() bool { return len(notifier.sent()) == 1 }, 3*time.Second, 20*time.Millisecond)
	c.Stop()
}
