package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository/memory"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"
)

type mockTinkoff struct {
	mock.Mock
}

func (m *mockTinkoff) GetInstruments(ctx context.Context) ([]dto.Instrument, error) {
	args := m.Called(ctx)
	instruments, _ := args.Get(0).([]dto.Instrument)
	return instruments, args.Error(1)
}

func (m *mockTinkoff) GetLastPrices(ctx context.Context, figis []string) ([]dto.LastPrice, error) {
	args := m.Called(ctx, figis)
	prices, _ := args.Get(0).([]dto.LastPrice)
	return prices, args.Error(1)
}

func (m *mockTinkoff) GetCandles(ctx context.Context, figi string, from, to time.Time, interval string) ([]dto.Candle, error) {
	args := m.Called(ctx, figi, from, to, interval)
	candles, _ := args.Get(0).([]dto.Candle)
	return candles, args.Error(1)
}

type publishedEvent struct {
	stream  string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, stream string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{stream: stream, payload: payload})
	return nil
}

func (p *recordingPublisher) byStream(stream string) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []interface{}
	for _, e := range p.events {
		if e.stream == stream {
			out = append(out, e.payload)
		}
	}
	return out
}

type memoryLastPrices struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	at     map[string]time.Time
}

func newMemoryLastPrices() *memoryLastPrices {
	return &memoryLastPrices{prices: map[string]decimal.Decimal{}, at: map[string]time.Time{}}
}

func (r *memoryLastPrices) Save(_ context.Context, ticker string, price decimal.Decimal, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices[ticker] = price
	r.at[ticker] = at
	return nil
}

func (r *memoryLastPrices) Get(_ context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prices[ticker]
	if !ok {
		return decimal.Zero, time.Time{}, repository.ErrRecordNotFound
	}
	return p, r.at[ticker], nil
}

type testEnv struct {
	cfg        *config.Config
	repos      *repository.Repositories
	tinkoff    *mockTinkoff
	publisher  *recordingPublisher
	lastPrices *memoryLastPrices
	metrics    *metrics.Metrics

	trades     TradeService
	portfolios PortfolioService
	history    HistoryService
	stocks     StockService
	refresh    RefreshService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Refresh.TrackedTickers = []string{"SBER", "GAZP", "LKOH", "MGNT", "ROSN", "NVTK", "YNDX", "OZON"}
	cfg.Refresh.Timeout = "1m"
	cfg.Advisory.SentimentMaxAge = time.Hour
	return cfg
}

// newEnv wires every service over an empty in-memory store.
func newEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	log := logger.NewNop()
	repos := memory.NewRepositories(memory.NewStore())
	env := &testEnv{
		cfg:        cfg,
		repos:      repos,
		tinkoff:    &mockTinkoff{},
		publisher:  &recordingPublisher{},
		lastPrices: newMemoryLastPrices(),
		metrics:    metrics.New(),
	}

	aggregator := NewAggregator(repos)
	locker := NewPortfolioLocker()
	advisory := NewStaticAdvisoryProvider(repos)

	env.trades = NewTradeService(cfg, repos, NewLedger(repos, log), aggregator, locker, env.publisher, env.metrics, log)
	env.portfolios = NewPortfolioService(repos, aggregator, locker, advisory, log)
	env.history = NewHistoryService(repos, env.tinkoff, log)
	env.stocks = NewStockService(repos, advisory, env.lastPrices, log)
	env.refresh = NewRefreshService(cfg, repos, env.tinkoff, env.lastPrices, aggregator, locker, env.publisher, env.metrics, log)
	return env
}

// newSeededEnv is newEnv plus the demo data set (portfolio 1).
func newSeededEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	env := newEnv(t, cfg)
	require.NoError(t, Seed(context.Background(), env.repos, logger.NewNop()))
	return env
}

func (e *testEnv) stock(t *testing.T, ticker string) *entity.Stock {
	t.Helper()
	s, err := e.repos.Stocks.FindByTicker(context.Background(), ticker)
	require.NoError(t, err)
	return s
}

func (e *testEnv) portfolio(t *testing.T, id uint) *entity.Portfolio {
	t.Helper()
	p, err := e.repos.Portfolios.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) position(t *testing.T, portfolioID uint, ticker string) *entity.Position {
	t.Helper()
	p, err := e.repos.Positions.FindByPortfolioAndStock(context.Background(), portfolioID, e.stock(t, ticker).ID)
	require.NoError(t, err)
	return p
}

type failingStocks struct {
	repository.StockRepository
	err error
}

func (r *failingStocks) FindAll(context.Context) ([]entity.Stock, error) {
	return nil, r.err
}

type failingPortfolioUpdates struct {
	repository.PortfolioRepository
	err error
}

func (r *failingPortfolioUpdates) Update(context.Context, *entity.Portfolio) error {
	return r.err
}

// tradesOver builds a trade service over repos that share e's store.
func (e *testEnv) tradesOver(repos *repository.Repositories) TradeService {
	log := logger.NewNop()
	return NewTradeService(e.cfg, repos, NewLedger(repos, log), NewAggregator(repos), NewPortfolioLocker(), e.publisher, e.metrics, log)
}
