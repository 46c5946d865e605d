package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

func TestHistoryService_MarketSeries(t *testing.T) {
	env := newSeededEnv(t, nil)
	t1 := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	env.tinkoff.On("GetCandles", mock.Anything, "BBG004730N88", mock.Anything, mock.Anything, dto.CandleIntervalHour).
		Return([]dto.Candle{{Time: t2, Close: d("266")}, {Time: t1, Close: d("265")}}, nil)
	env.tinkoff.On("GetCandles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, dto.CandleIntervalHour).
		Return([]dto.Candle{{Time: t1, Close: d("100")}}, nil)

	resp, err := env.history.History(context.Background(), 1, 0)
	require.NoError(t, err)

	assert.Equal(t, dto.HistorySourceMarket, resp.Source)
	assert.Equal(t, DefaultHistoryDays, resp.Days)
	require.Len(t, resp.Points, 2)
	assert.True(t, resp.Points[0].Timestamp.Equal(t1))
	// 174*265 + (3+2+10)*100
	assertDecimal(t, "47610", resp.Points[0].Value)
	// only SBER has a candle at t2
	assertDecimal(t, "46284", resp.Points[1].Value)
	env.tinkoff.AssertNumberOfCalls(t, "GetCandles", 4)
}

func TestHistoryService_KeepsLast24Points(t *testing.T) {
	env := newSeededEnv(t, nil)
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	candles := make([]dto.Candle, 30)
	for i := range candles {
		candles[i] = dto.Candle{Time: start.Add(time.Duration(i) * time.Hour), Close: d("1")}
	}
	env.tinkoff.On("GetCandles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, dto.CandleIntervalHour).
		Return(candles, nil)

	resp, err := env.history.History(context.Background(), 1, 3)
	require.NoError(t, err)

	require.Len(t, resp.Points, 24)
	assert.True(t, resp.Points[0].Timestamp.Equal(start.Add(6*time.Hour)))
	assert.True(t, resp.Points[23].Timestamp.Equal(start.Add(29*time.Hour)))
	assertDecimal(t, "189", resp.Points[23].Value)
}

func TestHistoryService_FallsBackToSyntheticSeries(t *testing.T) {
	env := newSeededEnv(t, nil)
	env.tinkoff.On("GetCandles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, dto.CandleIntervalHour).
		Return(nil, apperror.Upstream("candles", errors.New("connection refused")))

	resp, err := env.history.History(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, dto.HistorySourceSynthetic, resp.Source)
	require.Len(t, resp.Points, 24)
	assertDecimal(t, "90582", resp.Points[0].Value)
	assertDecimal(t, "93434", resp.Points[23].Value)
	for i := 1; i < len(resp.Points); i++ {
		assert.Equal(t, time.Hour, resp.Points[i].Timestamp.Sub(resp.Points[i-1].Timestamp))
		assert.True(t, resp.Points[i].Value.GreaterThanOrEqual(resp.Points[i-1].Value))
	}
}

func TestHistoryService_Validation(t *testing.T) {
	env := newSeededEnv(t, nil)

	for _, days := range []int{-1, MaxHistoryDays + 1} {
		_, err := env.history.History(context.Background(), 1, days)
		assert.ErrorIs(t, err, apperror.ErrValidation, "days=%d", days)
	}

	_, err := env.history.History(context.Background(), 5, 7)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSyntheticHistory_IsDeterministic(t *testing.T) {
	env := newSeededEnv(t, nil)
	now := time.Date(2024, 5, 6, 15, 42, 0, 0, time.UTC)

	a := SyntheticHistory(env.portfolio(t, 1), now)
	b := SyntheticHistory(env.portfolio(t, 1), now)
	assert.Equal(t, a, b)
	assert.True(t, a[23].Timestamp.Equal(time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)))
}

func TestHistoryService_UsesRecordedPricesWhenCandlesFail(t *testing.T) {
	ctx := context.Background()
	env := newSeededEnv(t, nil)
	now := time.Date(2024, 5, 6, 15, 30, 0, 0, time.UTC)
	env.history.(*historyService).now = func() time.Time { return now }

	env.tinkoff.On("GetCandles", mock.Anything, mock.Anything, mock.Anything, mock.Anything, dto.CandleIntervalHour).
		Return(nil, apperror.Upstream("candles", errors.New("connection refused")))

	sber, gazp := env.stock(t, "SBER").ID, env.stock(t, "GAZP").ID
	for _, row := range []entity.MarketData{
		{StockID: sber, Timestamp: time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC), Price: d("1")},
		{StockID: sber, Timestamp: time.Date(2024, 5, 6, 13, 50, 0, 0, time.UTC), Price: d("267")},
		{StockID: sber, Timestamp: time.Date(2024, 5, 6, 13, 10, 0, 0, time.UTC), Price: d("265")},
		{StockID: sber, Timestamp: time.Date(2024, 5, 6, 14, 20, 0, 0, time.UTC), Price: d("270")},
		{StockID: gazp, Timestamp: time.Date(2024, 5, 6, 13, 30, 0, 0, time.UTC), Price: d("130")},
	} {
		row := row
		require.NoError(t, env.repos.MarketData.Create(ctx, &row))
	}

	resp, err := env.history.History(ctx, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, dto.HistorySourceRecorded, resp.Source)
	require.Len(t, resp.Points, 2)
	assert.True(t, resp.Points[0].Timestamp.Equal(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)))
	// 174*267 + 10*130, the last SBER price in the hour wins
	assertDecimal(t, "47758", resp.Points[0].Value)
	assertDecimal(t, "46980", resp.Points[1].Value)
}
