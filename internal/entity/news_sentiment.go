package entity

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// NewsSentiment is the advisory news score of a stock on a 0-100 scale.
type NewsSentiment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StockID       uint            `gorm:"uniqueIndex;not null" json:"stock_id"`
	Sentiment     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"sentiment"`
	BullishPoints pq.StringArray  `gorm:"type:text[]" json:"bullish_points"`
	BearishPoints pq.StringArray  `gorm:"type:text[]" json:"bearish_points"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the NewsSentiment model.
func (NewsSentiment) TableName() string {
	return "news_sentiment"
}
