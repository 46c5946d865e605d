package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/quotecache"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	tinkoffSharesEndpoint     = "/tinkoff.public.invest.api.contract.v1.InstrumentsService/Shares"
	tinkoffLastPricesEndpoint = "/tinkoff.public.invest.api.contract.v1.MarketDataService/GetLastPrices"
	tinkoffCandlesEndpoint    = "/tinkoff.public.invest.api.contract.v1.MarketDataService/GetCandles"

	tinkoffTimeLayout = "2006-01-02T15:04:05.000Z"
)

var errMissingToken = errors.New("tinkoff api token not configured")

// TinkoffRepository is the market-data provider backed by the Tinkoff Invest REST API.
// Every failure wraps apperror.ErrUpstreamUnavailable; an empty slice means no data.
type TinkoffRepository interface {
	GetInstruments(ctx context.Context) ([]dto.Instrument, error)
	GetLastPrices(ctx context.Context, figis []string) ([]dto.LastPrice, error)
	GetCandles(ctx context.Context, figi string, from, to time.Time, interval string) ([]dto.Candle, error)
}

type tinkoffRepository struct {
	cfg            config.Tinkoff
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	cache          *quotecache.Cache
	metrics        *metrics.Metrics
}

// NewTinkoffRepository creates a Tinkoff client whose responses are memoized in cache.
func NewTinkoffRepository(cfg *config.Config, cache *quotecache.Cache, m *metrics.Metrics, log *logger.Logger) TinkoffRepository {
	perMinute := cfg.Tinkoff.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 300
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &tinkoffRepository{
		cfg: cfg.Tinkoff,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Tinkoff.Timeout,
		},
		requestLimiter: requestLimiter,
		cache:          cache,
		metrics:        m,
	}
}

func (r *tinkoffRepository) GetInstruments(ctx context.Context) ([]dto.Instrument, error) {
	body, err := r.call(ctx, tinkoffSharesEndpoint, struct{}{})
	if err != nil {
		return nil, err
	}

	var response dto.TinkoffSharesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperror.Upstream("decode shares", err)
	}

	instruments := make([]dto.Instrument, 0, len(response.Instruments))
	for _, v := range response.Instruments {
		instruments = append(instruments, dto.Instrument{
			FIGI:     v.FIGI,
			Ticker:   v.Ticker,
			Name:     v.Name,
			Currency: v.Currency,
			Lot:      v.Lot,
			Sector:   v.Sector,
		})
	}
	return instruments, nil
}

func (r *tinkoffRepository) GetLastPrices(ctx context.Context, figis []string) ([]dto.LastPrice, error) {
	if len(figis) == 0 {
		return []dto.LastPrice{}, nil
	}

	body, err := r.call(ctx, tinkoffLastPricesEndpoint, dto.TinkoffLastPricesRequest{FIGI: figis})
	if err != nil {
		return nil, err
	}

	var response dto.TinkoffLastPricesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperror.Upstream("decode last prices", err)
	}

	prices := make([]dto.LastPrice, 0, len(response.LastPrices))
	for _, v := range response.LastPrices {
		prices = append(prices, dto.LastPrice{
			FIGI:  v.FIGI,
			Price: v.Price.Decimal(),
			Time:  v.Time,
		})
	}
	return prices, nil
}

func (r *tinkoffRepository) GetCandles(ctx context.Context, figi string, from, to time.Time, interval string) ([]dto.Candle, error) {
	request := dto.TinkoffCandlesRequest{
		FIGI:     figi,
		From:     from.UTC().Format(tinkoffTimeLayout),
		To:       to.UTC().Format(tinkoffTimeLayout),
		Interval: interval,
	}
	body, err := r.call(ctx, tinkoffCandlesEndpoint, request)
	if err != nil {
		return nil, err
	}

	var response dto.TinkoffCandlesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperror.Upstream("decode candles", err)
	}

	candles := make([]dto.Candle, 0, len(response.Candles))
	for _, v := range response.Candles {
		volume, _ := strconv.ParseInt(v.Volume, 10, 64)
		candles = append(candles, dto.Candle{
			Time:   v.Time,
			Open:   v.Open.Decimal(),
			High:   v.High.Decimal(),
			Low:    v.Low.Decimal(),
			Close:  v.Close.Decimal(),
			Volume: volume,
		})
	}
	return candles, nil
}

// call returns the raw response body for endpoint, served from the quote cache
// when an identical request was made within its TTL.
func (r *tinkoffRepository) call(ctx context.Context, endpoint string, request interface{}) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	key := endpoint + ":" + string(payload)

	if v, ok := r.cache.Get(key); ok {
		r.metrics.ObserveCacheLookup(true)
		return v.([]byte), nil
	}
	r.metrics.ObserveCacheLookup(false)

	v, err := r.cache.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return r.sendRequest(ctx, endpoint, payload)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (r *tinkoffRepository) sendRequest(ctx context.Context, endpoint string, payload []byte) (body []byte, err error) {
	name := path.Base(endpoint)
	fields := []zap.Field{
		zap.String("endpoint", name),
		zap.Int("max_request_per_minute", r.cfg.MaxRequestPerMinute),
		zap.String("payload", string(payload)),
	}

	if r.cfg.Token == "" {
		r.log.WarnContext(ctx, "Tinkoff API token not configured", fields...)
		return nil, apperror.Upstream("tinkoff "+name, errMissingToken)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, apperror.Upstream("tinkoff "+name, err)
	}

	started := time.Now()
	defer func() { r.metrics.ObserveUpstream(name, started, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, apperror.Upstream("tinkoff "+name, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Tinkoff API", fields...)
		return nil, apperror.Upstream("tinkoff "+name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Tinkoff API", fields...)
		return nil, apperror.Upstream("tinkoff "+name, fmt.Errorf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Tinkoff API", fields...)
		return nil, apperror.Upstream("tinkoff "+name, err)
	}

	r.log.DebugContext(ctx, "Tinkoff API request completed", fields...)
	return body, nil
}
