package common

const (
	RedisStreamTradeExecuted    = "portfolio.trade.executed"
	RedisStreamRefreshCompleted = "portfolio.refresh.completed"

	RedisStreamGroup    = "notifier-group"
	RedisStreamConsumer = "notifier-consumer"

	// RedisKeyLastPrice holds the last refreshed price of a ticker as a hash.
	RedisKeyLastPrice = "last_price:%s"
)
