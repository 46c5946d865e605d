package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestWeightedAveragePrice(t *testing.T) {
	tests := []struct {
		name   string
		oldQty int64
		oldAvg string
		qty    int64
		price  string
		want   string
	}{
		{name: "equal lots", oldQty: 10, oldAvg: "100", qty: 10, price: "200", want: "150.00"},
		{name: "sber top up", oldQty: 100, oldAvg: "250", qty: 50, price: "280", want: "260.00"},
		{name: "first lot", oldQty: 0, oldAvg: "0", qty: 7, price: "128.5", want: "128.5"},
		{name: "repeating fraction", oldQty: 1, oldAvg: "100", qty: 2, price: "101", want: "100.6667"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAveragePrice(tt.oldQty, d(tt.oldAvg), tt.qty, d(tt.price))
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestRevalue(t *testing.T) {
	p := entity.Position{Quantity: 150, AveragePrice: d("260")}
	Revalue(&p, d("265.50"))

	assertDecimal(t, "39825.00", p.CurrentValue)
	assertDecimal(t, "825.00", p.UnrealizedPnL)
	assertDecimal(t, "2.12", p.UnrealizedPnLPercent)
}

func TestRevalue_ZeroCostBasis(t *testing.T) {
	p := entity.Position{Quantity: 10, AveragePrice: decimal.Zero}
	Revalue(&p, d("5"))

	assertDecimal(t, "50", p.CurrentValue)
	assertDecimal(t, "50", p.UnrealizedPnL)
	assertDecimal(t, "0", p.UnrealizedPnLPercent)
}

func TestAggregate(t *testing.T) {
	closedAt := time.Now()
	portfolio := entity.Portfolio{AvailableCash: d("15332")}
	positions := []entity.Position{
		{Quantity: 174, CurrentValue: d("46197"), UnrealizedPnL: d("2697")},
		{Quantity: 3, CurrentValue: d("19260"), UnrealizedPnL: d("360")},
		{Quantity: 0, CurrentValue: d("999"), UnrealizedPnL: d("999"), ClosedAt: &closedAt},
	}

	Aggregate(&portfolio, positions)

	assertDecimal(t, "80789", portfolio.TotalValue)
	assertDecimal(t, "3057", portfolio.DailyGain)
	// 3057 / (80789 - 3057) * 100
	assertDecimal(t, "3.93", portfolio.DailyGainPercent)
	assert.Equal(t, 2, portfolio.ActivePositions)
}

func TestAggregate_ZeroDenominator(t *testing.T) {
	portfolio := entity.Portfolio{AvailableCash: decimal.Zero}
	positions := []entity.Position{{Quantity: 1, CurrentValue: d("10"), UnrealizedPnL: d("10")}}

	Aggregate(&portfolio, positions)

	assertDecimal(t, "10", portfolio.TotalValue)
	assertDecimal(t, "0", portfolio.DailyGainPercent)
}

func TestAggregate_IsIdempotent(t *testing.T) {
	portfolio := entity.Portfolio{AvailableCash: d("100.10")}
	positions := []entity.Position{{Quantity: 3, AveragePrice: d("33.3333")}}
	Revalue(&positions[0], d("35.17"))

	Aggregate(&portfolio, positions)
	first := portfolio
	for i := 0; i < 5; i++ {
		Revalue(&positions[0], d("35.17"))
		Aggregate(&portfolio, positions)
	}

	assert.True(t, first.TotalValue.Equal(portfolio.TotalValue))
	assert.True(t, portfolio.TotalValue.Equal(positions[0].CurrentValue.Add(portfolio.AvailableCash)))
}
