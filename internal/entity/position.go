package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation labels attached to a position.
const (
	PositionRecommendationBuy         = "BUY"
	PositionRecommendationHold        = "HOLD"
	PositionRecommendationPartialSell = "PARTIAL_SELL"
)

// Position is the holding of one stock inside one portfolio.
// A position sold down to zero is kept with ClosedAt set.
type Position struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	PortfolioID          uint            `gorm:"not null;index" json:"portfolio_id"`
	StockID              uint            `gorm:"not null;index" json:"stock_id"`
	Quantity             int64           `gorm:"not null" json:"quantity"`
	AveragePrice         decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"average_price"`
	CurrentValue         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"current_value"`
	UnrealizedPnL        decimal.Decimal `gorm:"column:unrealized_pnl;type:numeric(15,2);not null" json:"unrealized_pnl"`
	UnrealizedPnLPercent decimal.Decimal `gorm:"column:unrealized_pnl_percent;type:numeric(9,2);not null" json:"unrealized_pnl_percent"`
	Recommendation       string          `gorm:"not null" json:"recommendation"`
	ClosedAt             *time.Time      `json:"closed_at,omitempty"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Position model.
func (Position) TableName() string {
	return "positions"
}

// IsOpen reports whether the position still holds shares.
func (p Position) IsOpen() bool {
	return p.ClosedAt == nil && p.Quantity > 0
}
