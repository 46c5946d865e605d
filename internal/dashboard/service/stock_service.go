package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
)

// StockService defines the read operations on stocks.
type StockService interface {
	ListStocks(ctx context.Context) ([]dto.StockResponse, error)
	Sentiment(ctx context.Context, ticker string) (*dto.SentimentResponse, error)
	LastPrice(ctx context.Context, ticker string) (*dto.LastPriceResponse, error)
}

// NewStockService creates a new stock service.
func NewStockService(repos *repository.Repositories, advisory AdvisoryProvider, lastPrices repository.LastPriceRepository, log *logger.Logger) StockService {
	return &stockService{
		stocks:     repos.Stocks,
		advisory:   advisory,
		lastPrices: lastPrices,
		logger:     log,
	}
}

type stockService struct {
	stocks     repository.StockRepository
	advisory   AdvisoryProvider
	lastPrices repository.LastPriceRepository
	logger     *logger.Logger
}

func (s *stockService) ListStocks(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, err := s.stocks.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}

	resp := make([]dto.StockResponse, 0, len(stocks))
	for _, st := range stocks {
		resp = append(resp, mapToStockResponse(st))
	}
	return resp, nil
}

func (s *stockService) Sentiment(ctx context.Context, ticker string) (*dto.SentimentResponse, error) {
	stock, err := s.findStock(ctx, ticker)
	if err != nil {
		return nil, err
	}

	sentiment, err := s.advisory.Sentiment(ctx, *stock)
	if err != nil {
		return nil, err
	}
	resp := mapToSentimentResponse(stock.Ticker, *sentiment)
	return &resp, nil
}

func (s *stockService) LastPrice(ctx context.Context, ticker string) (*dto.LastPriceResponse, error) {
	stock, err := s.findStock(ctx, ticker)
	if err != nil {
		return nil, err
	}

	price, at, err := s.lastPrices.Get(ctx, stock.Ticker)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("last price", stock.Ticker)
		}
		return nil, fmt.Errorf("failed to load last price: %w", err)
	}
	return &dto.LastPriceResponse{Ticker: stock.Ticker, Price: price, Timestamp: at}, nil
}

func (s *stockService) findStock(ctx context.Context, ticker string) (*entity.Stock, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, apperror.Validation("ticker is required")
	}
	stock, err := s.stocks.FindByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("stock", ticker)
		}
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	return stock, nil
}
