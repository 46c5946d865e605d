package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is a price observation recorded during a refresh.
type MarketData struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StockID   uint            `gorm:"not null;index" json:"stock_id"`
	Timestamp time.Time       `gorm:"not null;index" json:"timestamp"`
	Price     decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"price"`
	Volume    int64           `gorm:"not null" json:"volume"`
}

// TableName specifies the table name for the MarketData model.
func (MarketData) TableName() string {
	return "market_data"
}
