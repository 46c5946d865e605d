package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// LastPriceRepository keeps the most recent refreshed price of each ticker
// where other processes can read it.
type LastPriceRepository interface {
	Save(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) error
	Get(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error)
}

type redisLastPriceRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewRedisLastPriceRepository stores prices as hashes under last_price:<ticker> that expire after ttl.
func NewRedisLastPriceRepository(redisClient *redis.Client, ttl time.Duration) LastPriceRepository {
	return &redisLastPriceRepository{redisClient: redisClient, ttl: ttl}
}

func (r *redisLastPriceRepository) Save(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) error {
	key := fmt.Sprintf(common.RedisKeyLastPrice, ticker)

	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     price.String(),
		"timestamp": at.Unix(),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns ErrRecordNotFound when the ticker has no stored price.
func (r *redisLastPriceRepository) Get(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	values, err := r.redisClient.HGetAll(ctx, fmt.Sprintf(common.RedisKeyLastPrice, ticker)).Result()
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	if len(values) == 0 {
		return decimal.Zero, time.Time{}, ErrRecordNotFound
	}

	price, err := decimal.NewFromString(values["price"])
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("invalid stored price for %s: %w", ticker, err)
	}
	var unix int64
	if _, err := fmt.Sscan(values["timestamp"], &unix); err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("invalid stored timestamp for %s: %w", ticker, err)
	}
	return price, time.Unix(unix, 0), nil
}

type nopLastPriceRepository struct{}

// NewNopLastPriceRepository is used when Redis is disabled; nothing is stored.
func NewNopLastPriceRepository() LastPriceRepository {
	return nopLastPriceRepository{}
}

func (nopLastPriceRepository) Save(context.Context, string, decimal.Decimal, time.Time) error {
	return nil
}

func (nopLastPriceRepository) Get(context.Context, string) (decimal.Decimal, time.Time, error) {
	return decimal.Zero, time.Time{}, ErrRecordNotFound
}
