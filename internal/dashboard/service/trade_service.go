package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"

	"github.com/shopspring/decimal"
)

// TradeService applies buy and sell orders to a portfolio: ledger update,
// cash bookkeeping and a full recompute of the portfolio, as one step.
type TradeService interface {
	Buy(ctx context.Context, portfolioID uint, req *dto.BuyRequest) (*dto.TradeResponse, error)
	Sell(ctx context.Context, portfolioID uint, req *dto.SellRequest) (*dto.TradeResponse, error)
}

// NewTradeService creates a new trade service.
func NewTradeService(
	cfg *config.Config,
	repos *repository.Repositories,
	ledger Ledger,
	aggregator *Aggregator,
	locker *PortfolioLocker,
	publisher repository.EventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) TradeService {
	return &tradeService{
		requireCash: cfg.Portfolio.RequireSufficientCash,
		portfolios:  repos.Portfolios,
		positions:   repos.Positions,
		stocks:      repos.Stocks,
		ledger:      ledger,
		aggregator:  aggregator,
		locker:      locker,
		publisher:   publisher,
		metrics:     m,
		logger:      log,
	}
}

type tradeService struct {
	requireCash bool
	portfolios  repository.PortfolioRepository
	positions   repository.PositionRepository
	stocks      repository.StockRepository
	ledger      Ledger
	aggregator  *Aggregator
	locker      *PortfolioLocker
	publisher   repository.EventPublisher
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// Buy debits quantity*price from the available cash.
func (s *tradeService) Buy(ctx context.Context, portfolioID uint, req *dto.BuyRequest) (resp *dto.TradeResponse, err error) {
	defer func() { s.metrics.ObserveTrade("buy", tradeResult(err)) }()

	unlock := s.locker.Lock(portfolioID)
	defer unlock()

	ticker := NormalizeTicker(req.Ticker)
	if err := validateBuy(ticker, req.Quantity, req.Price); err != nil {
		return nil, err
	}

	portfolio, err := s.loadPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	cost := decimal.NewFromInt(req.Quantity).Mul(req.Price).Round(moneyPlaces)
	if s.requireCash && cost.GreaterThan(portfolio.AvailableCash) {
		return nil, apperror.Validation(fmt.Sprintf("insufficient cash: order costs %s, available %s", cost, portfolio.AvailableCash))
	}

	// everything that can fail after the ledger write is loaded up front
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	change, err := s.ledger.Buy(ctx, portfolioID, ticker, req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}

	portfolio.AvailableCash = portfolio.AvailableCash.Sub(cost)
	return s.settle(ctx, dto.TradeSideBuy, portfolio, stocks, change, req.Quantity, req.Price)
}

// Sell credits quantity*currentPrice to the available cash.
func (s *tradeService) Sell(ctx context.Context, portfolioID uint, req *dto.SellRequest) (resp *dto.TradeResponse, err error) {
	defer func() { s.metrics.ObserveTrade("sell", tradeResult(err)) }()

	unlock := s.locker.Lock(portfolioID)
	defer unlock()

	ticker := NormalizeTicker(req.Ticker)
	if err := validateSell(ticker, req.Quantity); err != nil {
		return nil, err
	}

	portfolio, err := s.loadPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	change, err := s.ledger.Sell(ctx, portfolioID, ticker, req.Quantity)
	if err != nil {
		return nil, err
	}

	proceeds := decimal.NewFromInt(req.Quantity).Mul(change.Stock.CurrentPrice).Round(moneyPlaces)
	portfolio.AvailableCash = portfolio.AvailableCash.Add(proceeds)
	return s.settle(ctx, dto.TradeSideSell, portfolio, stocks, change, req.Quantity, change.Stock.CurrentPrice)
}

// settle recomputes the portfolio after a ledger change. When that fails the
// position is restored so no partial trade stays committed.
func (s *tradeService) settle(ctx context.Context, side string, portfolio *entity.Portfolio, stocks map[uint]entity.Stock, change *PositionChange, quantity int64, price decimal.Decimal) (*dto.TradeResponse, error) {
	positions, err := s.aggregator.Recompute(ctx, portfolio)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to recompute portfolio after trade, reverting position",
			logger.ErrorField(err),
			logger.Field("portfolio_id", portfolio.ID),
			logger.StringField("ticker", change.Stock.Ticker))
		s.revert(ctx, change)
		return nil, err
	}

	event := dto.TradeExecutedEvent{
		PortfolioID:      portfolio.ID,
		Side:             side,
		Ticker:           change.Stock.Ticker,
		Quantity:         quantity,
		Price:            price,
		PositionQuantity: change.Position.Quantity,
		AveragePrice:     change.Position.AveragePrice,
		AvailableCash:    portfolio.AvailableCash,
		TotalValue:       portfolio.TotalValue,
		ExecutedAt:       time.Now(),
	}
	if err := s.publisher.Publish(ctx, common.RedisStreamTradeExecuted, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish trade event", logger.ErrorField(err))
	}

	s.logger.InfoContext(ctx, "Trade settled",
		logger.StringField("side", side),
		logger.Field("portfolio_id", portfolio.ID),
		logger.StringField("ticker", change.Stock.Ticker),
		logger.StringField("available_cash", portfolio.AvailableCash.String()),
		logger.StringField("total_value", portfolio.TotalValue.String()),
	)

	return &dto.TradeResponse{
		Side:      side,
		Position:  mapToPositionResponse(change.Position, change.Stock),
		Portfolio: mapToPortfolioResponse(*portfolio, positions, stocks),
	}, nil
}

func (s *tradeService) revert(ctx context.Context, change *PositionChange) {
	var restore entity.Position
	if change.Previous != nil {
		restore = *change.Previous
	} else {
		closedAt := time.Now()
		restore = change.Position
		restore.Quantity = 0
		restore.CurrentValue = decimal.Zero
		restore.UnrealizedPnL = decimal.Zero
		restore.UnrealizedPnLPercent = decimal.Zero
		// a created position cannot be deleted, so it is left soft-closed
		restore.ClosedAt = &closedAt
	}
	if err := s.positions.Update(ctx, &restore); err != nil {
		s.logger.ErrorContext(ctx, "Failed to revert position", logger.ErrorField(err), logger.Field("position_id", restore.ID))
	}
}

func (s *tradeService) loadPortfolio(ctx context.Context, id uint) (*entity.Portfolio, error) {
	portfolio, err := s.portfolios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("portfolio", id)
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return portfolio, nil
}

func tradeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrValidation):
		return "validation"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperror.ErrInsufficientShares):
		return "insufficient_shares"
	default:
		return "error"
	}
}
