package service

import (
	"context"
	"fmt"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

// Aggregator recomputes and stores portfolio totals from the full set of open
// positions. Callers hold the portfolio lock.
type Aggregator struct {
	portfolios repository.PortfolioRepository
	positions  repository.PositionRepository
}

func NewAggregator(repos *repository.Repositories) *Aggregator {
	return &Aggregator{portfolios: repos.Portfolios, positions: repos.Positions}
}

// Recompute rebuilds portfolio totals, persists the portfolio and returns the
// open positions the totals were built from.
func (a *Aggregator) Recompute(ctx context.Context, portfolio *entity.Portfolio) ([]entity.Position, error) {
	positions, err := a.positions.FindOpenByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	Aggregate(portfolio, positions)
	if err := a.portfolios.Update(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to update portfolio: %w", err)
	}
	return positions, nil
}
