package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
)

func TestTradeService_SberScenario(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t, nil)

	require.NoError(t, env.repos.Stocks.Create(ctx, &entity.Stock{
		Ticker: "SBER", Name: "Сбербанк", FIGI: "BBG004730N88", Currency: "RUB", Lot: 10,
		CurrentPrice: d("265.50"), PreviousPrice: d("260"),
	}))
	portfolio := &entity.Portfolio{Name: "test", RiskProfile: "Умеренный", AvailableCash: d("100000")}
	require.NoError(t, env.repos.Portfolios.Create(ctx, portfolio))

	resp, err := env.trades.Buy(ctx, portfolio.ID, &dto.BuyRequest{Ticker: "sber", Quantity: 100, Price: d("250")})
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Position.Quantity)
	assertDecimal(t, "250", resp.Position.AveragePrice)
	assertDecimal(t, "26550", resp.Position.CurrentValue)

	resp, err = env.trades.Buy(ctx, portfolio.ID, &dto.BuyRequest{Ticker: "SBER", Quantity: 50, Price: d("280")})
	require.NoError(t, err)
	assert.Equal(t, int64(150), resp.Position.Quantity)
	assertDecimal(t, "260", resp.Position.AveragePrice)
	assertDecimal(t, "39825", resp.Position.CurrentValue)
	assertDecimal(t, "825", resp.Position.UnrealizedPnL)

	resp, err = env.trades.Sell(ctx, portfolio.ID, &dto.SellRequest{Ticker: "SBER", Quantity: 60})
	require.NoError(t, err)
	assert.Equal(t, int64(90), resp.Position.Quantity)
	assertDecimal(t, "260", resp.Position.AveragePrice)
	assertDecimal(t, "23895", resp.Position.CurrentValue)
	assertDecimal(t, "495", resp.Position.UnrealizedPnL)
	assertDecimal(t, "2.12", resp.Position.UnrealizedPnLPercent)

	// 100000 - 25000 - 14000 + 60*265.50
	assertDecimal(t, "76930", resp.Portfolio.AvailableCash)
	assertDecimal(t, "100825", resp.Portfolio.TotalValue)
	assert.Equal(t, 1, resp.Portfolio.ActivePositions)

	stored := env.portfolio(t, portfolio.ID)
	assertDecimal(t, "100825", stored.TotalValue)
	assert.Len(t, env.publisher.byStream(common.RedisStreamTradeExecuted), 3)
}

func TestTradeService_SellMoreThanHeld(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)
	before := env.position(t, 1, "SBER")
	portfolioBefore := env.portfolio(t, 1)

	_, err := env.trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "SBER", Quantity: 175})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInsufficientShares)

	after := env.position(t, 1, "SBER")
	assert.Equal(t, before.Quantity, after.Quantity)
	assertDecimal(t, before.AveragePrice.String(), after.AveragePrice)
	assertDecimal(t, portfolioBefore.AvailableCash.String(), env.portfolio(t, 1).AvailableCash)
}

func TestTradeService_UnknownTickerCreatesNothing(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)

	_, err := env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "XXXX", Quantity: 1, Price: d("10")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	open, err := env.repos.Positions.FindOpenByPortfolio(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, open, 4)
	assertDecimal(t, "15332", env.portfolio(t, 1).AvailableCash)
	assert.Empty(t, env.publisher.byStream(common.RedisStreamTradeExecuted))
}

func TestTradeService_UnknownPortfolio(t *testing.T) {
	env := newSeededEnv(t, nil)

	_, err := env.trades.Buy(context.Background(), 42, &dto.BuyRequest{Ticker: "SBER", Quantity: 1, Price: d("10")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTradeService_Validation(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)

	tests := []struct {
		name string
		run  func() error
	}{
		{"buy zero quantity", func() error {
			_, err := env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 0, Price: d("10")})
			return err
		}},
		{"buy zero price", func() error {
			_, err := env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 1, Price: d("0")})
			return err
		}},
		{"buy empty ticker", func() error {
			_, err := env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "  ", Quantity: 1, Price: d("10")})
			return err
		}},
		{"sell negative quantity", func() error {
			_, err := env.trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "SBER", Quantity: -1})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), apperror.ErrValidation)
		})
	}
}

func TestTradeService_FullSellSoftClosesAndBuyReopens(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)
	original := env.position(t, 1, "MGNT")

	resp, err := env.trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "MGNT", Quantity: 2})
	require.NoError(t, err)
	assert.True(t, resp.Position.Closed)
	assert.Equal(t, 3, resp.Portfolio.ActivePositions)
	assert.Len(t, resp.Portfolio.Positions, 3)
	// sold at the current price, so the total is unchanged
	assertDecimal(t, "26692", resp.Portfolio.AvailableCash)
	assertDecimal(t, "93434", resp.Portfolio.TotalValue)

	closed := env.position(t, 1, "MGNT")
	assert.False(t, closed.IsOpen())
	assert.NotNil(t, closed.ClosedAt)
	assertDecimal(t, "5800", closed.AveragePrice)

	_, err = env.trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "MGNT", Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	resp, err = env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "MGNT", Quantity: 1, Price: d("5000")})
	require.NoError(t, err)
	assert.Equal(t, original.ID, resp.Position.ID)
	assert.Equal(t, int64(1), resp.Position.Quantity)
	assertDecimal(t, "5000", resp.Position.AveragePrice)
	assert.False(t, resp.Position.Closed)
	assert.Equal(t, 4, resp.Portfolio.ActivePositions)
}

func TestTradeService_RequireSufficientCash(t *testing.T) {
	cfg := testConfig()
	cfg.Portfolio.RequireSufficientCash = true
	env := newSeededEnv(t, cfg)

	_, err := env.trades.Buy(context.Background(), 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 100, Price: d("265.50")})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, int64(174), env.position(t, 1, "SBER").Quantity)

	_, err = env.trades.Buy(context.Background(), 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 10, Price: d("265.50")})
	require.NoError(t, err)
	assertDecimal(t, "12677", env.portfolio(t, 1).AvailableCash)
}

func TestTradeService_NegativeCashAllowedByDefault(t *testing.T) {
	env := newSeededEnv(t, nil)

	resp, err := env.trades.Buy(context.Background(), 1, &dto.BuyRequest{Ticker: "LKOH", Quantity: 10, Price: d("6420")})
	require.NoError(t, err)
	// 15332 - 64200
	assertDecimal(t, "-48868", resp.Portfolio.AvailableCash)
	assert.True(t, resp.Portfolio.TotalValue.Equal(sumOpenValues(resp.Portfolio).Add(resp.Portfolio.AvailableCash)))
}

func sumOpenValues(p dto.PortfolioResponse) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.Positions {
		total = total.Add(pos.CurrentValue)
	}
	return total
}

func TestTradeService_BuyRejectsOversizedOrders(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)

	tests := []struct {
		name string
		req  dto.BuyRequest
	}{
		{"quantity overflows int64", dto.BuyRequest{Ticker: "SBER", Quantity: math.MaxInt64, Price: d("1")}},
		{"quantity above limit", dto.BuyRequest{Ticker: "SBER", Quantity: MaxPositionQuantity + 1, Price: d("1")}},
		{"position would exceed limit", dto.BuyRequest{Ticker: "SBER", Quantity: MaxPositionQuantity - 100, Price: d("1")}},
		{"order value too large", dto.BuyRequest{Ticker: "SBER", Quantity: 1_000_000, Price: d("2000000")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.trades.Buy(ctx, 1, &req)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			sber := env.position(t, 1, "SBER")
			assert.Equal(t, int64(174), sber.Quantity)
			assert.True(t, sber.IsOpen())
			assertDecimal(t, "15332", env.portfolio(t, 1).AvailableCash)
		})
	}
}

func TestTradeService_BuyUpToPositionLimit(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)

	resp, err := env.trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "GAZP", Quantity: MaxPositionQuantity - 10, Price: d("100")})
	require.NoError(t, err)
	assert.Equal(t, MaxPositionQuantity, resp.Position.Quantity)
}

func TestTradeService_FailureBeforeLedgerLeavesNothingCommitted(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)

	repos := *env.repos
	repos.Stocks = &failingStocks{StockRepository: env.repos.Stocks, err: errors.New("db down")}
	trades := env.tradesOver(&repos)

	_, err := trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 10, Price: d("265.50")})
	require.Error(t, err)
	_, err = trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "SBER", Quantity: 10})
	require.Error(t, err)

	assert.Equal(t, int64(174), env.position(t, 1, "SBER").Quantity)
	p := env.portfolio(t, 1)
	assertDecimal(t, "15332", p.AvailableCash)
	assertDecimal(t, "93434", p.TotalValue)
	assert.Empty(t, env.publisher.byStream(common.RedisStreamTradeExecuted))
}

func TestTradeService_RecomputeFailureRevertsPosition(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)
	require.NoError(t, env.repos.Stocks.Create(ctx, &entity.Stock{
		Ticker: "ROSN", Name: "Роснефть", FIGI: "BBG004731354R", Currency: "RUB", Lot: 1,
		CurrentPrice: d("560"), PreviousPrice: d("550"),
	}))

	repos := *env.repos
	repos.Portfolios = &failingPortfolioUpdates{PortfolioRepository: env.repos.Portfolios, err: errors.New("db down")}
	trades := env.tradesOver(&repos)
	before := env.position(t, 1, "SBER")

	_, err := trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "SBER", Quantity: 10, Price: d("265.50")})
	require.Error(t, err)
	after := env.position(t, 1, "SBER")
	assert.Equal(t, before.Quantity, after.Quantity)
	assertDecimal(t, before.AveragePrice.String(), after.AveragePrice)
	assertDecimal(t, before.CurrentValue.String(), after.CurrentValue)

	_, err = trades.Sell(ctx, 1, &dto.SellRequest{Ticker: "SBER", Quantity: 174})
	require.Error(t, err)
	after = env.position(t, 1, "SBER")
	assert.Equal(t, int64(174), after.Quantity)
	assert.True(t, after.IsOpen())

	// a position created by the failed buy is left soft-closed
	_, err = trades.Buy(ctx, 1, &dto.BuyRequest{Ticker: "ROSN", Quantity: 5, Price: d("560")})
	require.Error(t, err)
	rosn := env.position(t, 1, "ROSN")
	assert.False(t, rosn.IsOpen())
	assert.Zero(t, rosn.Quantity)

	p := env.portfolio(t, 1)
	assertDecimal(t, "15332", p.AvailableCash)
	assertDecimal(t, "93434", p.TotalValue)
	assert.Equal(t, 4, p.ActivePositions)
	assert.Empty(t, env.publisher.byStream(common.RedisStreamTradeExecuted))
}
