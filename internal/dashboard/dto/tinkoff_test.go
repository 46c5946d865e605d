package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTinkoffQuotation_Decimal(t *testing.T) {
	tests := []struct {
		name string
		q    TinkoffQuotation
		want string
	}{
		{name: "whole", q: TinkoffQuotation{Units: "265", Nano: 0}, want: "265"},
		{name: "fraction", q: TinkoffQuotation{Units: "265", Nano: 500000000}, want: "265.5"},
		{name: "small nano", q: TinkoffQuotation{Units: "0", Nano: 1}, want: "0.000000001"},
		{name: "negative", q: TinkoffQuotation{Units: "-3", Nano: -250000000}, want: "-3.25"},
		{name: "bad units", q: TinkoffQuotation{Units: "x", Nano: 10000000}, want: "0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.q.Decimal().Equal(decimal.RequireFromString(tt.want)), "got %s", tt.q.Decimal())
		})
	}
}
