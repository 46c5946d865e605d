package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	defaultRefreshTimeout      = 2 * time.Minute
	defaultRefreshHistoryLimit = 20
	maxRefreshHistoryLimit     = 100
)

// RefreshService pulls market prices for the tracked universe and revalues
// every portfolio from them.
type RefreshService interface {
	Refresh(ctx context.Context, trigger string) (*dto.RefreshResult, error)
	History(ctx context.Context, limit int) ([]dto.RefreshHistoryResponse, error)
}

// NewRefreshService creates a new refresh service.
func NewRefreshService(
	cfg *config.Config,
	repos *repository.Repositories,
	tinkoff repository.TinkoffRepository,
	lastPrices repository.LastPriceRepository,
	aggregator *Aggregator,
	locker *PortfolioLocker,
	publisher repository.EventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) RefreshService {
	timeout, err := time.ParseDuration(cfg.Refresh.Timeout)
	if err != nil || timeout <= 0 {
		timeout = defaultRefreshTimeout
	}

	tracked := make(map[string]struct{}, len(cfg.Refresh.TrackedTickers))
	for _, t := range cfg.Refresh.TrackedTickers {
		tracked[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
	}

	return &refreshService{
		tracked:    tracked,
		timeout:    timeout,
		repos:      repos,
		tinkoff:    tinkoff,
		lastPrices: lastPrices,
		aggregator: aggregator,
		locker:     locker,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}

type refreshService struct {
	runMu      sync.Mutex
	tracked    map[string]struct{}
	timeout    time.Duration
	repos      *repository.Repositories
	tinkoff    repository.TinkoffRepository
	lastPrices repository.LastPriceRepository
	aggregator *Aggregator
	locker     *PortfolioLocker
	publisher  repository.EventPublisher
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time
}

// Refresh runs one refresh. Runs never overlap; a second caller waits for the
// first to finish.
func (s *refreshService) Refresh(ctx context.Context, trigger string) (*dto.RefreshResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	history := &entity.RefreshHistory{
		Trigger:   trigger,
		Status:    entity.RefreshStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.repos.RefreshHistory.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create refresh history: %w", err)
	}

	result := &dto.RefreshResult{
		HistoryID: history.ID,
		Trigger:   trigger,
		Updated:   []string{},
		Skipped:   []dto.SkippedStock{},
		StartedAt: history.StartedAt,
	}

	if err := s.run(ctx, result); err != nil {
		s.finish(ctx, history, result, err)
		return nil, err
	}
	s.finish(ctx, history, result, nil)
	return result, nil
}

func (s *refreshService) run(ctx context.Context, result *dto.RefreshResult) error {
	universe, err := s.universe(ctx)
	if err != nil {
		return err
	}

	if len(universe) > 0 {
		figis := make([]string, 0, len(universe))
		for _, st := range universe {
			figis = append(figis, st.FIGI)
		}

		prices, err := s.tinkoff.GetLastPrices(ctx, figis)
		if err != nil {
			return err
		}
		byFIGI := make(map[string]dto.LastPrice, len(prices))
		for _, p := range prices {
			byFIGI[p.FIGI] = p
		}

		for _, st := range universe {
			lp, ok := byFIGI[st.FIGI]
			if !ok {
				s.skip(ctx, result, st.Ticker, "no last price")
				continue
			}
			if err := s.updateStock(ctx, st, lp); err != nil {
				s.skip(ctx, result, st.Ticker, err.Error())
				continue
			}
			result.Updated = append(result.Updated, st.Ticker)
		}
	}

	revalued, err := s.revalueAll(ctx)
	if err != nil {
		return err
	}
	result.PortfoliosRevalued = revalued
	return nil
}

// universe returns the stored stocks whose ticker is tracked.
func (s *refreshService) universe(ctx context.Context) ([]entity.Stock, error) {
	stocks, err := s.repos.Stocks.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	universe := make([]entity.Stock, 0, len(stocks))
	for _, st := range stocks {
		if _, ok := s.tracked[st.Ticker]; ok {
			universe = append(universe, st)
		}
	}
	return universe, nil
}

func (s *refreshService) updateStock(ctx context.Context, stock entity.Stock, lp dto.LastPrice) error {
	current := lp.Price.Round(pricePlaces)

	today := utils.StartOfDay(s.now().In(utils.GetMskTimeLocation()))
	yesterday := today.AddDate(0, 0, -1)
	candles, err := s.tinkoff.GetCandles(ctx, stock.FIGI, yesterday, today, dto.CandleIntervalDay)
	if err != nil {
		return fmt.Errorf("previous close: %w", err)
	}
	previous := current
	if len(candles) > 0 {
		previous = candles[0].Close.Round(pricePlaces)
	}

	stock.CurrentPrice = current
	stock.PreviousPrice = previous
	stock.ChangePercent = changePercent(current, previous)
	if err := s.repos.Stocks.Update(ctx, &stock); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}

	at := lp.Time
	if at.IsZero() {
		at = s.now()
	}
	if err := s.repos.MarketData.Create(ctx, &entity.MarketData{StockID: stock.ID, Timestamp: at, Price: current}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record market data", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
	}
	if err := s.lastPrices.Save(ctx, stock.Ticker, current, at); err != nil {
		s.logger.WarnContext(ctx, "Failed to save last price", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
	}
	return nil
}

func (s *refreshService) skip(ctx context.Context, result *dto.RefreshResult, ticker, reason string) {
	s.logger.ErrorContext(ctx, "Skipping stock in refresh", logger.StringField("ticker", ticker), logger.StringField("reason", reason))
	result.Skipped = append(result.Skipped, dto.SkippedStock{Ticker: ticker, Reason: reason})
}

// revalueAll revalues the open positions of every portfolio at the current
// stock prices and recomputes each portfolio.
func (s *refreshService) revalueAll(ctx context.Context) (int, error) {
	portfolios, err := s.repos.Portfolios.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load portfolios: %w", err)
	}
	stocks, err := stockIndex(ctx, s.repos.Stocks)
	if err != nil {
		return 0, err
	}

	for _, p := range portfolios {
		if err := s.revalue(ctx, p.ID, stocks); err != nil {
			return 0, err
		}
	}
	return len(portfolios), nil
}

func (s *refreshService) revalue(ctx context.Context, portfolioID uint, stocks map[uint]entity.Stock) error {
	unlock := s.locker.Lock(portfolioID)
	defer unlock()

	// reload under the lock so a concurrent trade is not overwritten
	portfolio, err := s.repos.Portfolios.FindByID(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to load portfolio %d: %w", portfolioID, err)
	}
	positions, err := s.repos.Positions.FindOpenByPortfolio(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	for i := range positions {
		stock, ok := stocks[positions[i].StockID]
		if !ok {
			continue
		}
		Revalue(&positions[i], stock.CurrentPrice)
		if err := s.repos.Positions.Update(ctx, &positions[i]); err != nil {
			return fmt.Errorf("failed to update position %d: %w", positions[i].ID, err)
		}
	}

	if _, err := s.aggregator.Recompute(ctx, portfolio); err != nil {
		return err
	}
	return nil
}

func (s *refreshService) finish(ctx context.Context, history *entity.RefreshHistory, result *dto.RefreshResult, runErr error) {
	completedAt := s.now()
	result.CompletedAt = completedAt

	history.CompletedAt = &completedAt
	history.StocksUpdated = len(result.Updated)
	history.StocksSkipped = len(result.Skipped)
	if runErr != nil {
		history.Status = entity.RefreshStatusFailed
		history.ErrorMessage = runErr.Error()
	} else {
		history.Status = entity.RefreshStatusCompleted
	}
	result.Status = string(history.Status)

	if raw, err := json.Marshal(result); err == nil {
		history.Result = datatypes.JSON(raw)
	}

	// the run context may already be past its deadline
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.repos.RefreshHistory.Update(storeCtx, history); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update refresh history", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}

	skipped := make([]string, 0, len(result.Skipped))
	for _, sk := range result.Skipped {
		skipped = append(skipped, sk.Ticker)
	}
	event := dto.RefreshCompletedEvent{
		HistoryID:     history.ID,
		Trigger:       history.Trigger,
		Status:        string(history.Status),
		StocksUpdated: history.StocksUpdated,
		StocksSkipped: history.StocksSkipped,
		Skipped:       skipped,
		ErrorMessage:  history.ErrorMessage,
		CompletedAt:   completedAt,
	}
	if err := s.publisher.Publish(storeCtx, common.RedisStreamRefreshCompleted, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish refresh event", logger.ErrorField(err))
	}

	s.metrics.ObserveRefresh(history.Trigger, strings.ToLower(string(history.Status)), history.StocksUpdated, history.StocksSkipped)

	if runErr != nil {
		s.logger.ErrorContext(ctx, "Refresh failed", logger.Field("history_id", history.ID), logger.ErrorField(runErr))
		return
	}
	s.logger.InfoContext(ctx, "Refresh completed",
		logger.Field("history_id", history.ID),
		logger.StringField("trigger", history.Trigger),
		logger.IntField("updated", history.StocksUpdated),
		logger.IntField("skipped", history.StocksSkipped),
		logger.IntField("portfolios", result.PortfoliosRevalued))
}

func (s *refreshService) History(ctx context.Context, limit int) ([]dto.RefreshHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultRefreshHistoryLimit
	}
	if limit > maxRefreshHistoryLimit {
		limit = maxRefreshHistoryLimit
	}

	rows, err := s.repos.RefreshHistory.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh history: %w", err)
	}
	resp := make([]dto.RefreshHistoryResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, mapToRefreshHistoryResponse(h))
	}
	return resp, nil
}

// changePercent is the day-over-day move in percent, 0 when previous is 0.
func changePercent(current, previous decimal.Decimal) decimal.Decimal {
	return percentOf(current.Sub(previous), previous)
}
