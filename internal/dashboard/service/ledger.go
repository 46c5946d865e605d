package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/shopspring/decimal"
)

// PositionChange is the outcome of a ledger operation. Previous holds the
// position as it was before the operation, nil when the position was created.
type PositionChange struct {
	Position entity.Position
	Previous *entity.Position
	Stock    entity.Stock
	Closed   bool
}

// Ledger owns quantity and cost basis per (portfolio, stock) pair.
// It does not touch portfolio totals; callers run the aggregation afterwards.
type Ledger interface {
	Buy(ctx context.Context, portfolioID uint, ticker string, quantity int64, price decimal.Decimal) (*PositionChange, error)
	Sell(ctx context.Context, portfolioID uint, ticker string, quantity int64) (*PositionChange, error)
}

// NewLedger creates a ledger over the given repositories.
func NewLedger(repos *repository.Repositories, log *logger.Logger) Ledger {
	return &ledger{
		portfolios: repos.Portfolios,
		stocks:     repos.Stocks,
		positions:  repos.Positions,
		logger:     log,
		now:        time.Now,
	}
}

type ledger struct {
	portfolios repository.PortfolioRepository
	stocks     repository.StockRepository
	positions  repository.PositionRepository
	logger     *logger.Logger
	now        func() time.Time
}

// NormalizeTicker trims and upper-cases a ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func validateBuy(ticker string, quantity int64, price decimal.Decimal) error {
	if ticker == "" {
		return apperror.Validation("ticker is required")
	}
	if quantity <= 0 {
		return apperror.Validation("quantity must be greater than zero")
	}
	if quantity > MaxPositionQuantity {
		return apperror.Validation(fmt.Sprintf("quantity must not exceed %d", MaxPositionQuantity))
	}
	if !price.IsPositive() {
		return apperror.Validation("price must be greater than zero")
	}
	if decimal.NewFromInt(quantity).Mul(price).GreaterThan(maxOrderValue) {
		return apperror.Validation(fmt.Sprintf("order value must not exceed %s", maxOrderValue))
	}
	return nil
}

func validateSell(ticker string, quantity int64) error {
	if ticker == "" {
		return apperror.Validation("ticker is required")
	}
	if quantity <= 0 {
		return apperror.Validation("quantity must be greater than zero")
	}
	return nil
}

func (l *ledger) Buy(ctx context.Context, portfolioID uint, ticker string, quantity int64, price decimal.Decimal) (*PositionChange, error) {
	ticker = NormalizeTicker(ticker)
	if err := validateBuy(ticker, quantity, price); err != nil {
		return nil, err
	}

	stock, err := l.resolve(ctx, portfolioID, ticker)
	if err != nil {
		return nil, err
	}

	existing, err := l.positions.FindByPortfolioAndStock(ctx, portfolioID, stock.ID)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load position: %w", err)
	}

	change := &PositionChange{Stock: *stock}
	switch {
	case existing == nil:
		position := entity.Position{
			PortfolioID:    portfolioID,
			StockID:        stock.ID,
			Quantity:       quantity,
			AveragePrice:   price.Round(pricePlaces),
			Recommendation: entity.PositionRecommendationHold,
		}
		Revalue(&position, stock.CurrentPrice)
		if err := l.positions.Create(ctx, &position); err != nil {
			return nil, fmt.Errorf("failed to create position: %w", err)
		}
		change.Position = position

	default:
		previous := *existing
		change.Previous = &previous

		position := *existing
		if position.IsOpen() {
			if quantity > MaxPositionQuantity-position.Quantity {
				return nil, apperror.Validation(fmt.Sprintf("position %s would exceed %d shares", ticker, MaxPositionQuantity))
			}
			position.AveragePrice = WeightedAveragePrice(position.Quantity, position.AveragePrice, quantity, price)
			position.Quantity += quantity
		} else {
			// a soft-closed position starts over with a fresh cost basis
			position.Quantity = quantity
			position.AveragePrice = price.Round(pricePlaces)
			position.ClosedAt = nil
		}
		Revalue(&position, stock.CurrentPrice)
		if err := l.positions.Update(ctx, &position); err != nil {
			return nil, fmt.Errorf("failed to update position: %w", err)
		}
		change.Position = position
	}

	l.logger.InfoContext(ctx, "Position bought",
		logger.Field("portfolio_id", portfolioID),
		logger.StringField("ticker", ticker),
		logger.Field("quantity", quantity),
		logger.StringField("price", price.String()),
		logger.Field("position_quantity", change.Position.Quantity),
		logger.StringField("average_price", change.Position.AveragePrice.String()),
	)
	return change, nil
}

func (l *ledger) Sell(ctx context.Context, portfolioID uint, ticker string, quantity int64) (*PositionChange, error) {
	ticker = NormalizeTicker(ticker)
	if err := validateSell(ticker, quantity); err != nil {
		return nil, err
	}

	stock, err := l.resolve(ctx, portfolioID, ticker)
	if err != nil {
		return nil, err
	}

	existing, err := l.positions.FindByPortfolioAndStock(ctx, portfolioID, stock.ID)
	if errors.Is(err, repository.ErrRecordNotFound) || (err == nil && !existing.IsOpen()) {
		return nil, apperror.NotFound("position", ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load position: %w", err)
	}
	if quantity > existing.Quantity {
		return nil, apperror.InsufficientShares(ticker, existing.Quantity, quantity)
	}

	previous := *existing
	position := *existing
	change := &PositionChange{Stock: *stock, Previous: &previous}

	if quantity == position.Quantity {
		closedAt := l.now()
		position.Quantity = 0
		position.CurrentValue = decimal.Zero
		position.UnrealizedPnL = decimal.Zero
		position.UnrealizedPnLPercent = decimal.Zero
		position.ClosedAt = &closedAt
		change.Closed = true
	} else {
		position.Quantity -= quantity
		Revalue(&position, stock.CurrentPrice)
	}

	if err := l.positions.Update(ctx, &position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	change.Position = position

	l.logger.InfoContext(ctx, "Position sold",
		logger.Field("portfolio_id", portfolioID),
		logger.StringField("ticker", ticker),
		logger.Field("quantity", quantity),
		logger.Field("position_quantity", position.Quantity),
		logger.Field("closed", change.Closed),
	)
	return change, nil
}

// resolve checks that the portfolio exists and returns the stock for ticker.
func (l *ledger) resolve(ctx context.Context, portfolioID uint, ticker string) (*entity.Stock, error) {
	if _, err := l.portfolios.FindByID(ctx, portfolioID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("portfolio", portfolioID)
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	stock, err := l.stocks.FindByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("stock", ticker)
		}
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	return stock, nil
}
