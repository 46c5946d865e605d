package service

import (
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"github.com/shopspring/decimal"
)

// Rounding applied when derived values are stored.
const (
	moneyPlaces   = 2
	pricePlaces   = 4
	percentPlaces = 2
)

// MaxPositionQuantity caps the shares held in one position, and with it the
// quantity of a single order.
const MaxPositionQuantity int64 = 1_000_000_000

var (
	hundred = decimal.NewFromInt(100)

	// money columns are NUMERIC(15,2)
	maxOrderValue = decimal.New(1, 12)
)

// percentOf returns part/whole*100 rounded to percentPlaces, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(percentPlaces)
}

// Revalue derives the valuation fields of p from its quantity, average price
// and the current market price:
//
//	currentValue = quantity * currentPrice
//	unrealizedPnL = currentValue - quantity * averagePrice
//	unrealizedPnLPercent = unrealizedPnL / (quantity * averagePrice) * 100
func Revalue(p *entity.Position, currentPrice decimal.Decimal) {
	qty := decimal.NewFromInt(p.Quantity)
	value := qty.Mul(currentPrice)
	cost := qty.Mul(p.AveragePrice)
	pnl := value.Sub(cost)

	p.CurrentValue = value.Round(moneyPlaces)
	p.UnrealizedPnL = pnl.Round(moneyPlaces)
	p.UnrealizedPnLPercent = percentOf(pnl, cost)
}

// WeightedAveragePrice is the cost basis per share after adding qty shares at
// price to a lot of oldQty shares bought at oldAvg.
func WeightedAveragePrice(oldQty int64, oldAvg decimal.Decimal, qty int64, price decimal.Decimal) decimal.Decimal {
	total := oldQty + qty
	if total == 0 {
		return decimal.Zero
	}
	cost := decimal.NewFromInt(oldQty).Mul(oldAvg).Add(decimal.NewFromInt(qty).Mul(price))
	return cost.Div(decimal.NewFromInt(total)).Round(pricePlaces)
}

// Aggregate rebuilds the derived portfolio fields from scratch out of its
// position set. Closed positions contribute nothing.
func Aggregate(portfolio *entity.Portfolio, positions []entity.Position) {
	positionsValue := decimal.Zero
	gain := decimal.Zero
	active := 0
	for _, p := range positions {
		if !p.IsOpen() {
			continue
		}
		positionsValue = positionsValue.Add(p.CurrentValue)
		gain = gain.Add(p.UnrealizedPnL)
		active++
	}

	portfolio.TotalValue = positionsValue.Add(portfolio.AvailableCash).Round(moneyPlaces)
	portfolio.DailyGain = gain.Round(moneyPlaces)
	portfolio.DailyGainPercent = percentOf(portfolio.DailyGain, portfolio.TotalValue.Sub(portfolio.DailyGain))
	portfolio.ActivePositions = active
}
