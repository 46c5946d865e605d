// Package memory is the process-lifetime repository backend. Each entity type
// lives in its own arena keyed by identity; rows are copied on the way in and
// out so callers never share state with the store.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

// Store owns the arenas of every entity type.
type Store struct {
	mu  sync.RWMutex
	seq *Sequence
	now func() time.Time

	portfolios      map[uint]entity.Portfolio
	stocks          map[uint]entity.Stock
	positions       map[uint]entity.Position
	recommendations map[uint]entity.Recommendation
	sentiments      map[uint]entity.NewsSentiment
	marketData      map[uint]entity.MarketData
	refreshHistory  map[uint]entity.RefreshHistory
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		seq:             NewSequence(),
		now:             time.Now,
		portfolios:      make(map[uint]entity.Portfolio),
		stocks:          make(map[uint]entity.Stock),
		positions:       make(map[uint]entity.Position),
		recommendations: make(map[uint]entity.Recommendation),
		sentiments:      make(map[uint]entity.NewsSentiment),
		marketData:      make(map[uint]entity.MarketData),
		refreshHistory:  make(map[uint]entity.RefreshHistory),
	}
}

// NewRepositories exposes the store through the repository interfaces.
func NewRepositories(store *Store) *repository.Repositories {
	return &repository.Repositories{
		Portfolios:      &portfolioRepository{store: store},
		Stocks:          &stockRepository{store: store},
		Positions:       &positionRepository{store: store},
		Recommendations: &recommendationRepository{store: store},
		Sentiments:      &newsSentimentRepository{store: store},
		MarketData:      &marketDataRepository{store: store},
		RefreshHistory:  &refreshHistoryRepository{store: store},
	}
}

// assignID picks the identity for a new row. Rows that arrive with an ID keep it.
func (s *Store) assignID(kind string, id uint) uint {
	if id == 0 {
		return s.seq.Next(kind)
	}
	s.seq.Observe(kind, id)
	return id
}

func sortedByID[T any](rows map[uint]T, keep func(T) bool) []T {
	ids := make([]uint, 0, len(rows))
	for id, row := range rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, rows[id])
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneStock(s entity.Stock) entity.Stock {
	if s.Sector != nil {
		sector := *s.Sector
		s.Sector = &sector
	}
	return s
}

func clonePosition(p entity.Position) entity.Position {
	p.ClosedAt = cloneTime(p.ClosedAt)
	return p
}

func cloneRecommendation(r entity.Recommendation) entity.Recommendation {
	if r.StockID != nil {
		id := *r.StockID
		r.StockID = &id
	}
	return r
}

func cloneSentiment(n entity.NewsSentiment) entity.NewsSentiment {
	n.BullishPoints = append([]string(nil), n.BullishPoints...)
	n.BearishPoints = append([]string(nil), n.BearishPoints...)
	return n
}

func cloneRefreshHistory(h entity.RefreshHistory) entity.RefreshHistory {
	h.Result = append([]byte(nil), h.Result...)
	h.CompletedAt = cloneTime(h.CompletedAt)
	return h
}
