package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds cash and the aggregated values of its positions.
// TotalValue, DailyGain, DailyGainPercent and ActivePositions are derived and
// rebuilt from the full position set on every change.
type Portfolio struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `json:"user_id"`
	Name             string          `gorm:"not null" json:"name"`
	TotalValue       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_value"`
	DailyGain        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"daily_gain"`
	DailyGainPercent decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"daily_gain_percent"`
	ActivePositions  int             `gorm:"not null" json:"active_positions"`
	AvailableCash    decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"available_cash"`
	RiskProfile      string          `gorm:"not null" json:"risk_profile"`
	Budget           decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"budget"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Portfolio model.
func (Portfolio) TableName() string {
	return "portfolios"
}
