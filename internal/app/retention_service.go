package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemcp/internal/config"
	"github.com/dokzlo13/huemcp/internal/ledger"
)

// RetentionService periodically removes old invocation records.
type RetentionService struct {
	cfg    *config.Config
	ledger *ledger.Ledger
}

// NewRetentionService creates a new RetentionService. A nil ledger disables it.
func NewRetentionService(cfg *config.Config, l *ledger.Ledger) *RetentionService {
	return &RetentionService{
		cfg:    cfg,
		ledger: l,
	}
}

// Start begins the cleanup loop if the ledger is enabled.
func (s *RetentionService) Start(ctx context.Context) {
	if s.ledger == nil {
		return
	}

	go s.run(ctx)
}

func (s *RetentionService) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Ledger.CleanupInterval.Duration())
	defer ticker.Stop()

	s.cleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *RetentionService) cleanup(ctx context.Context) {
	retention := s.cfg.Ledger.Retention()

	deleted, err := s.ledger.DeleteOlderThan(ctx, retention)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old ledger entries")
	} else if deleted > 0 {
		log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old ledger entries")
	}
}
