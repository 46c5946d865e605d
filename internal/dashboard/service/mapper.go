package service

import (
	"context"
	"fmt"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

func mapToStockResponse(s entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:            s.ID,
		Ticker:        s.Ticker,
		Name:          s.Name,
		FIGI:          s.FIGI,
		Currency:      s.Currency,
		Lot:           s.Lot,
		CurrentPrice:  s.CurrentPrice,
		PreviousPrice: s.PreviousPrice,
		ChangePercent: s.ChangePercent,
		Sector:        s.Sector,
		UpdatedAt:     s.UpdatedAt,
	}
}

func mapToPositionResponse(p entity.Position, s entity.Stock) dto.PositionResponse {
	return dto.PositionResponse{
		ID:                   p.ID,
		PortfolioID:          p.PortfolioID,
		Quantity:             p.Quantity,
		AveragePrice:         p.AveragePrice,
		CurrentValue:         p.CurrentValue,
		UnrealizedPnL:        p.UnrealizedPnL,
		UnrealizedPnLPercent: p.UnrealizedPnLPercent,
		Recommendation:       p.Recommendation,
		Closed:               !p.IsOpen(),
		Stock:                mapToStockResponse(s),
	}
}

func mapToPortfolioResponse(p entity.Portfolio, positions []entity.Position, stocks map[uint]entity.Stock) dto.PortfolioResponse {
	resp := dto.PortfolioResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		Name:             p.Name,
		TotalValue:       p.TotalValue,
		DailyGain:        p.DailyGain,
		DailyGainPercent: p.DailyGainPercent,
		ActivePositions:  p.ActivePositions,
		AvailableCash:    p.AvailableCash,
		RiskProfile:      p.RiskProfile,
		Budget:           p.Budget,
		UpdatedAt:        p.UpdatedAt,
		Positions:        make([]dto.PositionResponse, 0, len(positions)),
	}
	for _, pos := range positions {
		resp.Positions = append(resp.Positions, mapToPositionResponse(pos, stocks[pos.StockID]))
	}
	return resp
}

func mapToRecommendationResponse(r entity.Recommendation, stocks map[uint]entity.Stock) dto.RecommendationResponse {
	resp := dto.RecommendationResponse{
		ID:          r.ID,
		PortfolioID: r.PortfolioID,
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		RiskLevel:   r.RiskLevel,
		Potential:   r.Potential,
		CreatedAt:   r.CreatedAt,
	}
	if r.StockID != nil {
		resp.Ticker = stocks[*r.StockID].Ticker
	}
	if r.TargetPrice.Valid {
		target := r.TargetPrice.Decimal
		resp.TargetPrice = &target
	}
	return resp
}

func mapToSentimentResponse(ticker string, n entity.NewsSentiment) dto.SentimentResponse {
	resp := dto.SentimentResponse{
		Ticker:        ticker,
		Sentiment:     n.Sentiment,
		BullishPoints: []string(n.BullishPoints),
		BearishPoints: []string(n.BearishPoints),
		UpdatedAt:     n.UpdatedAt,
	}
	if resp.BullishPoints == nil {
		resp.BullishPoints = []string{}
	}
	if resp.BearishPoints == nil {
		resp.BearishPoints = []string{}
	}
	return resp
}

func mapToRefreshHistoryResponse(h entity.RefreshHistory) dto.RefreshHistoryResponse {
	return dto.RefreshHistoryResponse{
		ID:            h.ID,
		Trigger:       h.Trigger,
		Status:        string(h.Status),
		StocksUpdated: h.StocksUpdated,
		StocksSkipped: h.StocksSkipped,
		ErrorMessage:  h.ErrorMessage,
		Result:        []byte(h.Result),
		StartedAt:     h.StartedAt,
		CompletedAt:   h.CompletedAt,
	}
}

// stockIndex loads every stock keyed by ID.
func stockIndex(ctx context.Context, stocks repository.StockRepository) (map[uint]entity.Stock, error) {
	all, err := stocks.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	index := make(map[uint]entity.Stock, len(all))
	for _, s := range all {
		index[s.ID] = s
	}
	return index, nil
}
