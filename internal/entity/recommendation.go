package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationType enumerates advisory recommendation kinds.
type RecommendationType string

const (
	RecommendationTypeBuy      RecommendationType = "BUY"
	RecommendationTypeSell     RecommendationType = "SELL"
	RecommendationTypeHold     RecommendationType = "HOLD"
	RecommendationTypeStrategy RecommendationType = "STRATEGY"
)

// Recommendation is an advisory note for a portfolio, optionally about one stock.
type Recommendation struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	PortfolioID uint                `gorm:"not null;index" json:"portfolio_id"`
	StockID     *uint               `json:"stock_id,omitempty"`
	Type        RecommendationType  `gorm:"type:varchar(16);not null" json:"type"`
	Title       string              `gorm:"not null" json:"title"`
	Description string              `gorm:"type:text;not null" json:"description"`
	TargetPrice decimal.NullDecimal `gorm:"type:numeric(15,4)" json:"target_price"`
	RiskLevel   string              `gorm:"not null" json:"risk_level"`
	Potential   string              `json:"potential"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Recommendation model.
func (Recommendation) TableName() string {
	return "recommendations"
}
