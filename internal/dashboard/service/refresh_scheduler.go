package service

import (
	"context"
	"fmt"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler defines the cron driven price refresh loop.
type RefreshScheduler interface {
	Start(ctx context.Context)
	Next(from time.Time) time.Time
}

// NewRefreshScheduler parses the configured cron expression and returns a
// scheduler that runs scheduled refreshes.
func NewRefreshScheduler(cfg *config.Config, refresh RefreshService, log *logger.Logger) (RefreshScheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Refresh.CronExpression)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh cron expression %q: %w", cfg.Refresh.CronExpression, err)
	}
	return &refreshScheduler{
		expression: cfg.Refresh.CronExpression,
		schedule:   schedule,
		refresh:    refresh,
		logger:     log,
	}, nil
}

type refreshScheduler struct {
	expression string
	schedule   cron.Schedule
	refresh    RefreshService
	logger     *logger.Logger
}

func (s *refreshScheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Start blocks until ctx is done, running a refresh at every scheduled time.
func (s *refreshScheduler) Start(ctx context.Context) {
	s.logger.Info("Refresh scheduler started", logger.StringField("cron", s.expression))

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Refresh scheduler stopping")
			return
		case <-timer.C:
			if _, err := s.refresh.Refresh(ctx, dto.RefreshTriggerScheduled); err != nil {
				s.logger.Error("Scheduled refresh failed", logger.ErrorField(err))
			}
		}
	}
}
