package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/quotecache"
)

func newTestTinkoff(t *testing.T, baseURL, token string, ttl time.Duration) TinkoffRepository {
	t.Helper()
	cfg := &config.Config{Tinkoff: config.Tinkoff{
		BaseURL:             baseURL,
		Token:               token,
		Timeout:             2 * time.Second,
		MaxRequestPerMinute: 60000,
	}}
	return NewTinkoffRepository(cfg, quotecache.New(ttl, 0), metrics.New(), logger.NewNop())
}

func TestTinkoffRepository_GetLastPrices(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, tinkoffLastPricesEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req dto.TinkoffLastPricesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"BBG004730N88"}, req.FIGI)

		_, _ = w.Write([]byte(`{"lastPrices":[{"figi":"BBG004730N88","price":{"units":"265","nano":500000000},"time":"2024-03-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "secret", time.Minute)

	prices, err := repo.GetLastPrices(context.Background(), []string{"BBG004730N88"})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "BBG004730N88", prices[0].FIGI)
	assert.True(t, prices[0].Price.Equal(decimal.RequireFromString("265.5")))

	// identical request inside the TTL is served from the cache
	_, err = repo.GetLastPrices(context.Background(), []string{"BBG004730N88"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTinkoffRepository_CacheExpiry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"lastPrices":[]}`))
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "secret", 30*time.Millisecond)

	_, err := repo.GetLastPrices(context.Background(), []string{"A"})
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = repo.GetLastPrices(context.Background(), []string{"A"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTinkoffRepository_GetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tinkoffCandlesEndpoint, r.URL.Path)

		var req dto.TinkoffCandlesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, dto.CandleIntervalDay, req.Interval)
		assert.Equal(t, "2024-02-29T00:00:00.000Z", req.From)
		assert.Equal(t, "2024-03-01T00:00:00.000Z", req.To)

		_, _ = w.Write([]byte(`{"candles":[{
			"open":{"units":"259","nano":0},
			"high":{"units":"262","nano":100000000},
			"low":{"units":"258","nano":0},
			"close":{"units":"260","nano":0},
			"volume":"12345",
			"time":"2024-02-29T07:00:00Z"}]}`))
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "secret", time.Minute)
	from := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	candles, err := repo.GetCandles(context.Background(), "BBG004730N88", from, to, dto.CandleIntervalDay)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.True(t, candles[0].Close.Equal(decimal.NewFromInt(260)))
	assert.True(t, candles[0].High.Equal(decimal.RequireFromString("262.1")))
	assert.Equal(t, int64(12345), candles[0].Volume)
}

func TestTinkoffRepository_GetInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tinkoffSharesEndpoint, r.URL.Path)
		_, _ = w.Write([]byte(`{"instruments":[{"figi":"BBG004730ZJ9","ticker":"GAZP","name":"Газпром","currency":"rub","lot":10,"sector":"energy"}]}`))
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "secret", time.Minute)
	instruments, err := repo.GetInstruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 1)
	assert.Equal(t, "GAZP", instruments[0].Ticker)
	assert.Equal(t, 10, instruments[0].Lot)
}

func TestTinkoffRepository_NonOKIsUpstreamUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "secret", time.Minute)

	_, err := repo.GetLastPrices(context.Background(), []string{"A"})
	assert.ErrorIs(t, err, apperror.ErrUpstreamUnavailable)

	// failures are not cached
	_, err = repo.GetLastPrices(context.Background(), []string{"A"})
	assert.ErrorIs(t, err, apperror.ErrUpstreamUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTinkoffRepository_MissingToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	repo := newTestTinkoff(t, srv.URL, "", time.Minute)

	_, err := repo.GetCandles(context.Background(), "A", time.Now().Add(-time.Hour), time.Now(), dto.CandleIntervalHour)
	assert.ErrorIs(t, err, apperror.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, errMissingToken)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTinkoffRepository_EmptyFigis(t *testing.T) {
	repo := newTestTinkoff(t, "http://127.0.0.1:0", "secret", time.Minute)
	prices, err := repo.GetLastPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}
