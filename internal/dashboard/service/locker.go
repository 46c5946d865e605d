package service

import "sync"

// PortfolioLocker serializes ledger and aggregation work per portfolio.
// Positions never move between portfolios, so one mutex per portfolio is enough.
type PortfolioLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewPortfolioLocker() *PortfolioLocker {
	return &PortfolioLocker{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the portfolio mutex and returns its release function.
func (l *PortfolioLocker) Lock(portfolioID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[portfolioID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[portfolioID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
