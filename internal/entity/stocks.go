package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument with its latest known prices.
type Stock struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Ticker        string          `gorm:"uniqueIndex;not null" json:"ticker"`
	Name          string          `gorm:"not null" json:"name"`
	FIGI          string          `gorm:"column:figi;uniqueIndex;not null" json:"figi"`
	Currency      string          `gorm:"not null" json:"currency"`
	Lot           int             `gorm:"not null" json:"lot"`
	CurrentPrice  decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"current_price"`
	PreviousPrice decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"previous_price"`
	ChangePercent decimal.Decimal `gorm:"type:numeric(7,2);not null" json:"change_percent"`
	Sector        *string         `json:"sector,omitempty"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Stock model.
func (Stock) TableName() string {
	return "stocks"
}
