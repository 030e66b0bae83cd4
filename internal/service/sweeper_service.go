package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/config"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/repository"
)

// SweeperService reconciles attempts whose round duration elapsed without a
// submit, usually because the client disconnected. Each overdue attempt is
// force-submitted; the grace window keeps the sweep from racing an honest
// last-second submit.
type SweeperService interface {
	ReconcileOverdue() error
}

type sweeperService struct {
	attemptRepo repository.TestAttemptRepository
	attempts    AttemptService
	grace       time.Duration
}

func NewSweeperService(cfg *config.Config, attemptRepo repository.TestAttemptRepository, attempts AttemptService) SweeperService {
	return &sweeperService{
		attemptRepo: attemptRepo,
		attempts:    attempts,
		grace:       time.Duration(cfg.Sweeper.GraceSeconds) * time.Second,
	}
}

func (s *sweeperService) ReconcileOverdue() error {
	overdue, err := s.attemptRepo.FindOverdue(time.Now(), s.grace)
	if err != nil {
		return fmt.Errorf("finding overdue attempts: %w", err)
	}
	if len(overdue) == 0 {
		return nil
	}

	log.Info().Int("count", len(overdue)).Msg("Sweeping overdue attempts")
	for _, attempt := range overdue {
		if _, err := s.attempts.ForceSubmit(attempt.ID); err != nil {
			if apperr.IsConflict(err) {
				// Finalized between the query and the sweep; nothing to do.
				log.Debug().Uint("attemptID", attempt.ID).Msg("Overdue attempt already finalized")
				continue
			}
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to sweep overdue attempt")
		}
	}
	return nil
}
