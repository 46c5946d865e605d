package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides.
const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

// TradeExecutedEvent is published after a buy or sell has been applied.
type TradeExecutedEvent struct {
	PortfolioID      uint            `json:"portfolio_id"`
	Side             string          `json:"side"`
	Ticker           string          `json:"ticker"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	PositionQuantity int64           `json:"position_quantity"`
	AveragePrice     decimal.Decimal `json:"average_price"`
	AvailableCash    decimal.Decimal `json:"available_cash"`
	TotalValue       decimal.Decimal `json:"total_value"`
	ExecutedAt       time.Time       `json:"executed_at"`
}

// RefreshCompletedEvent is published when a price refresh run ends.
type RefreshCompletedEvent struct {
	HistoryID     uint      `json:"history_id"`
	Trigger       string    `json:"trigger"`
	Status        string    `json:"status"`
	StocksUpdated int       `json:"stocks_updated"`
	StocksSkipped int       `json:"stocks_skipped"`
	Skipped       []string  `json:"skipped,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}
