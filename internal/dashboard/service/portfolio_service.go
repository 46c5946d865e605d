package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/shopspring/decimal"
)

// CashAllocationName labels the cash slice of an allocation breakdown.
const CashAllocationName = "Денежные средства"

// PortfolioService defines the read side of a portfolio plus its settings.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, id uint) (*dto.PortfolioResponse, error)
	UpdatePortfolio(ctx context.Context, id uint, req *dto.UpdatePortfolioRequest) (*dto.PortfolioResponse, error)
	Allocation(ctx context.Context, id uint) (*dto.AllocationResponse, error)
	Recommendations(ctx context.Context, id uint) ([]dto.RecommendationResponse, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(
	repos *repository.Repositories,
	aggregator *Aggregator,
	locker *PortfolioLocker,
	advisory AdvisoryProvider,
	log *logger.Logger,
) PortfolioService {
	return &portfolioService{
		portfolios: repos.Portfolios,
		positions:  repos.Positions,
		stocks:     repos.Stocks,
		aggregator: aggregator,
		locker:     locker,
		advisory:   advisory,
		logger:     log,
	}
}

type portfolioService struct {
	portfolios repository.PortfolioRepository
	positions  repository.PositionRepository
	stocks     repository.StockRepository
	aggregator *Aggregator
	locker     *PortfolioLocker
	advisory   AdvisoryProvider
	logger     *logger.Logger
}

func (s *portfolioService) GetPortfolio(ctx context.Context, id uint) (*dto.PortfolioResponse, error) {
	portfolio, err := s.findPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.FindOpenByPortfolio(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	resp := mapToPortfolioResponse(*portfolio, positions, stocks)
	return &resp, nil
}

// UpdatePortfolio applies the non-nil fields of req. A cash change reruns the
// aggregation so totalValue stays consistent.
func (s *portfolioService) UpdatePortfolio(ctx context.Context, id uint, req *dto.UpdatePortfolioRequest) (*dto.PortfolioResponse, error) {
	if err := validatePortfolioUpdate(req); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(id)
	defer unlock()

	portfolio, err := s.findPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		portfolio.Name = strings.TrimSpace(*req.Name)
	}
	if req.RiskProfile != nil {
		portfolio.RiskProfile = strings.TrimSpace(*req.RiskProfile)
	}
	if req.Budget != nil {
		portfolio.Budget = req.Budget.Round(moneyPlaces)
	}
	if req.AvailableCash != nil {
		portfolio.AvailableCash = req.AvailableCash.Round(moneyPlaces)
	}

	positions, err := s.aggregator.Recompute(ctx, portfolio)
	if err != nil {
		return nil, err
	}
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Portfolio updated",
		logger.Field("portfolio_id", id),
		logger.StringField("name", portfolio.Name),
		logger.StringField("risk_profile", portfolio.RiskProfile),
		logger.StringField("budget", portfolio.Budget.String()),
		logger.StringField("available_cash", portfolio.AvailableCash.String()))

	resp := mapToPortfolioResponse(*portfolio, positions, stocks)
	return &resp, nil
}

func validatePortfolioUpdate(req *dto.UpdatePortfolioRequest) error {
	if req == nil {
		return apperror.Validation("request body is required")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperror.Validation("name must not be empty")
	}
	if req.RiskProfile != nil && strings.TrimSpace(*req.RiskProfile) == "" {
		return apperror.Validation("risk profile must not be empty")
	}
	if req.Budget != nil && req.Budget.IsNegative() {
		return apperror.Validation("budget must not be negative")
	}
	return nil
}

// Allocation returns each open position's share of totalValue, then cash.
// Percentages are zero when the portfolio is worth nothing.
func (s *portfolioService) Allocation(ctx context.Context, id uint) (*dto.AllocationResponse, error) {
	portfolio, err := s.findPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.FindOpenByPortfolio(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	resp := &dto.AllocationResponse{
		PortfolioID: portfolio.ID,
		TotalValue:  portfolio.TotalValue,
		Items:       make([]dto.AllocationItem, 0, len(positions)+1),
	}
	for _, p := range positions {
		stock := stocks[p.StockID]
		resp.Items = append(resp.Items, dto.AllocationItem{
			Ticker:  stock.Ticker,
			Name:    stock.Name,
			Value:   p.CurrentValue,
			Percent: percentOf(p.CurrentValue, portfolio.TotalValue),
		})
	}
	if portfolio.AvailableCash.GreaterThan(decimal.Zero) {
		resp.Items = append(resp.Items, dto.AllocationItem{
			Name:    CashAllocationName,
			Value:   portfolio.AvailableCash,
			Percent: percentOf(portfolio.AvailableCash, portfolio.TotalValue),
		})
	}
	return resp, nil
}

func (s *portfolioService) Recommendations(ctx context.Context, id uint) ([]dto.RecommendationResponse, error) {
	if _, err := s.findPortfolio(ctx, id); err != nil {
		return nil, err
	}

	recs, err := s.advisory.Recommendations(ctx, id)
	if err != nil {
		return nil, err
	}
	stocks, err := stockIndex(ctx, s.stocks)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		resp = append(resp, mapToRecommendationResponse(r, stocks))
	}
	return resp, nil
}

func (s *portfolioService) findPortfolio(ctx context.Context, id uint) (*entity.Portfolio, error) {
	portfolio, err := s.portfolios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("portfolio", id)
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return portfolio, nil
}
