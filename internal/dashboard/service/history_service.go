package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 90
	historyPoints      = 24
)

// HistoryService builds the value history of a portfolio from hourly candles.
type HistoryService interface {
	History(ctx context.Context, portfolioID uint, days int) (*dto.HistoryResponse, error)
}

// NewHistoryService creates a new history service.
func NewHistoryService(repos *repository.Repositories, tinkoff repository.TinkoffRepository, log *logger.Logger) HistoryService {
	return &historyService{
		portfolios: repos.Portfolios,
		positions:  repos.Positions,
		stocks:     repos.Stocks,
		marketData: repos.MarketData,
		tinkoff:    tinkoff,
		logger:     log,
		now:        time.Now,
	}
}

type historyService struct {
	portfolios repository.PortfolioRepository
	positions  repository.PositionRepository
	stocks     repository.StockRepository
	marketData repository.MarketDataRepository
	tinkoff    repository.TinkoffRepository
	logger     *logger.Logger
	now        func() time.Time
}

// History returns at most 24 points. days of 0 means DefaultHistoryDays.
// When any candle request fails the prices recorded by past refreshes are used,
// and when there are none the series is interpolated from cost basis to
// current value.
func (s *historyService) History(ctx context.Context, portfolioID uint, days int) (*dto.HistoryResponse, error) {
	if days == 0 {
		days = DefaultHistoryDays
	}
	if days < 1 || days > MaxHistoryDays {
		return nil, apperror.Validation(fmt.Sprintf("days must be between 1 and %d", MaxHistoryDays))
	}

	portfolio, err := s.portfolios.FindByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("portfolio", portfolioID)
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	positions, err := s.positions.FindOpenByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.HistoryResponse{PortfolioID: portfolioID, Days: days}

	points, err := s.marketHistory(ctx, positions, stocks, now, days)
	if err != nil {
		s.logger.WarnContext(ctx, "Candle history unavailable",
			logger.Field("portfolio_id", portfolioID), logger.ErrorField(err))

		recorded, rerr := s.recordedHistory(ctx, positions, now, days)
		if rerr != nil {
			s.logger.ErrorContext(ctx, "Failed to load recorded prices", logger.Field("portfolio_id", portfolioID), logger.ErrorField(rerr))
		}
		if len(recorded) > 0 {
			resp.Source = dto.HistorySourceRecorded
			resp.Points = recorded
			return resp, nil
		}

		resp.Source = dto.HistorySourceSynthetic
		resp.Points = SyntheticHistory(portfolio, now)
		return resp, nil
	}

	resp.Source = dto.HistorySourceMarket
	resp.Points = points
	return resp, nil
}

func (s *historyService) marketHistory(ctx context.Context, positions []entity.Position, stocks map[uint]entity.Stock, now time.Time, days int) ([]dto.HistoryPoint, error) {
	to := now.Truncate(time.Minute)
	from := to.AddDate(0, 0, -days)

	results := make([][]dto.Candle, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range positions {
		i, figi := i, stocks[p.StockID].FIGI
		g.Go(func() error {
			candles, err := s.tinkoff.GetCandles(gctx, figi, from, to, dto.CandleIntervalHour)
			if err != nil {
				return fmt.Errorf("candles for %s: %w", figi, err)
			}
			results[i] = candles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := make(map[int64]decimal.Decimal)
	for i, candles := range results {
		qty := decimal.NewFromInt(positions[i].Quantity)
		for _, c := range candles {
			key := c.Time.Unix()
			buckets[key] = buckets[key].Add(c.Close.Mul(qty))
		}
	}
	return bucketPoints(buckets), nil
}

// recordedHistory values the open positions hourly from the prices stored by
// refresh runs. Each stock contributes its last recorded price in the hour.
func (s *historyService) recordedHistory(ctx context.Context, positions []entity.Position, now time.Time, days int) ([]dto.HistoryPoint, error) {
	since := now.AddDate(0, 0, -days)

	buckets := make(map[int64]decimal.Decimal)
	for _, p := range positions {
		rows, err := s.marketData.FindSince(ctx, p.StockID, since)
		if err != nil {
			return nil, fmt.Errorf("recorded prices for stock %d: %w", p.StockID, err)
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })

		hourly := make(map[int64]decimal.Decimal)
		for _, row := range rows {
			hourly[row.Timestamp.Truncate(time.Hour).Unix()] = row.Price
		}
		qty := decimal.NewFromInt(p.Quantity)
		for key, price := range hourly {
			buckets[key] = buckets[key].Add(price.Mul(qty))
		}
	}
	return bucketPoints(buckets), nil
}

// bucketPoints turns value buckets keyed by Unix time into the last
// historyPoints points in time order.
func bucketPoints(buckets map[int64]decimal.Decimal) []dto.HistoryPoint {
	points := make([]dto.HistoryPoint, 0, len(buckets))
	for ts, value := range buckets {
		points = append(points, dto.HistoryPoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Value:     value.Round(moneyPlaces),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	if len(points) > historyPoints {
		points = points[len(points)-historyPoints:]
	}
	return points
}

// SyntheticHistory returns 24 hourly points ending at the current hour, moving
// linearly from the cost basis (totalValue - dailyGain) to totalValue.
func SyntheticHistory(portfolio *entity.Portfolio, now time.Time) []dto.HistoryPoint {
	end := portfolio.TotalValue
	start := end.Sub(portfolio.DailyGain)
	step := end.Sub(start).Div(decimal.NewFromInt(historyPoints - 1))
	last := now.Truncate(time.Hour)

	points := make([]dto.HistoryPoint, historyPoints)
	for i := range points {
		value := start.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == historyPoints-1 {
			value = end
		}
		points[i] = dto.HistoryPoint{
			Timestamp: last.Add(-time.Duration(historyPoints-1-i) * time.Hour),
			Value:     value.Round(moneyPlaces),
		}
	}
	return points
}
