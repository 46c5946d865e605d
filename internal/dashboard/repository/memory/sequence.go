package memory

import "sync"

// Entity kinds with their own identity sequence.
const (
	KindPortfolio      = "portfolio"
	KindStock          = "stock"
	KindPosition       = "position"
	KindRecommendation = "recommendation"
	KindNewsSentiment  = "news_sentiment"
	KindMarketData     = "market_data"
	KindRefreshHistory = "refresh_history"
)

// Sequence hands out auto-incrementing identities, one counter per entity kind.
type Sequence struct {
	mu   sync.Mutex
	last map[string]uint
}

// NewSequence creates an empty sequence service.
func NewSequence() *Sequence {
	return &Sequence{last: make(map[string]uint)}
}

// Next returns the next identity for kind, starting at 1.
func (s *Sequence) Next(kind string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[kind]++
	return s.last[kind]
}

// Observe records an identity assigned outside the sequence so that Next never
// hands it out again.
func (s *Sequence) Observe(kind string, id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last[kind] {
		s.last[kind] = id
	}
}
