package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse is the API view of a stock.
type StockResponse struct {
	ID            uint            `json:"id"`
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	FIGI          string          `json:"figi"`
	Currency      string          `json:"currency"`
	Lot           int             `json:"lot"`
	CurrentPrice  decimal.Decimal `json:"current_price" swaggertype:"string" example:"265.5"`
	PreviousPrice decimal.Decimal `json:"previous_price" swaggertype:"string" example:"260"`
	ChangePercent decimal.Decimal `json:"change_percent" swaggertype:"string" example:"2.12"`
	Sector        *string         `json:"sector,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PositionResponse is an open position joined with its stock.
type PositionResponse struct {
	ID                   uint            `json:"id"`
	PortfolioID          uint            `json:"portfolio_id"`
	Quantity             int64           `json:"quantity"`
	AveragePrice         decimal.Decimal `json:"average_price" swaggertype:"string" example:"250"`
	CurrentValue         decimal.Decimal `json:"current_value" swaggertype:"string" example:"46197"`
	UnrealizedPnL        decimal.Decimal `json:"unrealized_pnl" swaggertype:"string" example:"2697"`
	UnrealizedPnLPercent decimal.Decimal `json:"unrealized_pnl_percent" swaggertype:"string" example:"6.2"`
	Recommendation       string          `json:"recommendation"`
	Closed               bool            `json:"closed"`
	Stock                StockResponse   `json:"stock"`
}

// PortfolioResponse is the portfolio snapshot returned by the API.
type PortfolioResponse struct {
	ID               uint               `json:"id"`
	UserID           uint               `json:"user_id"`
	Name             string             `json:"name"`
	TotalValue       decimal.Decimal    `json:"total_value" swaggertype:"string" example:"93434"`
	DailyGain        decimal.Decimal    `json:"daily_gain" swaggertype:"string" example:"2852"`
	DailyGainPercent decimal.Decimal    `json:"daily_gain_percent" swaggertype:"string" example:"3.15"`
	ActivePositions  int                `json:"active_positions"`
	AvailableCash    decimal.Decimal    `json:"available_cash" swaggertype:"string" example:"15332"`
	RiskProfile      string             `json:"risk_profile"`
	Budget           decimal.Decimal    `json:"budget" swaggertype:"string" example:"110000"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Positions        []PositionResponse `json:"positions,omitempty"`
}

// UpdatePortfolioRequest changes portfolio settings. Omitted fields are left as they are.
type UpdatePortfolioRequest struct {
	Name          *string          `json:"name,omitempty"`
	RiskProfile   *string          `json:"risk_profile,omitempty"`
	Budget        *decimal.Decimal `json:"budget,omitempty" swaggertype:"string"`
	AvailableCash *decimal.Decimal `json:"available_cash,omitempty" swaggertype:"string"`
}

// AllocationItem is the share of one holding (or cash) in the portfolio value.
type AllocationItem struct {
	Ticker  string          `json:"ticker"`
	Name    string          `json:"name"`
	Value   decimal.Decimal `json:"value" swaggertype:"string"`
	Percent decimal.Decimal `json:"percent" swaggertype:"string"`
}

// AllocationResponse lists allocation items, cash last.
type AllocationResponse struct {
	PortfolioID uint             `json:"portfolio_id"`
	TotalValue  decimal.Decimal  `json:"total_value" swaggertype:"string"`
	Items       []AllocationItem `json:"items"`
}

// History sources.
const (
	HistorySourceMarket    = "market"
	HistorySourceRecorded  = "recorded"
	HistorySourceSynthetic = "synthetic"
)

// HistoryPoint is the portfolio value at a point in time.
type HistoryPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value" swaggertype:"string"`
}

// HistoryResponse is the value history of a portfolio. Source tells whether the
// points come from market candles, from prices recorded by refreshes, or were
// interpolated.
type HistoryResponse struct {
	PortfolioID uint           `json:"portfolio_id"`
	Days        int            `json:"days"`
	Source      string         `json:"source" enums:"market,recorded,synthetic"`
	Points      []HistoryPoint `json:"points"`
}

// BuyRequest is the body of a buy order.
type BuyRequest struct {
	Ticker   string          `json:"ticker" example:"SBER"`
	Quantity int64           `json:"quantity" example:"50"`
	Price    decimal.Decimal `json:"price" swaggertype:"string" example:"280.00"`
}

// SellRequest is the body of a sell order.
type SellRequest struct {
	Ticker   string `json:"ticker" example:"SBER"`
	Quantity int64  `json:"quantity" example:"60"`
}

// TradeResponse returns the affected position and the recomputed portfolio.
type TradeResponse struct {
	Side      string            `json:"side"`
	Position  PositionResponse  `json:"position"`
	Portfolio PortfolioResponse `json:"portfolio"`
}

// RecommendationResponse is an advisory note.
type RecommendationResponse struct {
	ID          uint             `json:"id"`
	PortfolioID uint             `json:"portfolio_id"`
	Ticker      string           `json:"ticker,omitempty"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	TargetPrice *decimal.Decimal `json:"target_price,omitempty" swaggertype:"string"`
	RiskLevel   string           `json:"risk_level"`
	Potential   string           `json:"potential"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SentimentResponse is the news sentiment of a stock on a 0-100 scale.
type SentimentResponse struct {
	Ticker        string          `json:"ticker"`
	Sentiment     decimal.Decimal `json:"sentiment" swaggertype:"string" example:"75"`
	BullishPoints []string        `json:"bullish_points"`
	BearishPoints []string        `json:"bearish_points"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LastPriceResponse is the last refreshed price published for a ticker.
type LastPriceResponse struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price" swaggertype:"string"`
	Timestamp time.Time       `json:"timestamp"`
}
