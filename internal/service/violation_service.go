package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/gorm"
)

// ViolationService records client-reported proctoring violations and enforces
// the auto-submission policy. The violation log is append-only and
// order-preserving; only tab_switch drives auto-submission (refresh is
// counted but is not a trigger), and the threshold is hard, not rolling.
type ViolationService interface {
	LogViolation(attemptID, userID uint, violationType model.ViolationType) (*dto.ViolationResponse, error)
}

type violationService struct {
	attemptRepo repository.TestAttemptRepository
	rules       RulesService
	attempts    AttemptService
}

func NewViolationService(
	attemptRepo repository.TestAttemptRepository,
	rules RulesService,
	attempts AttemptService,
) ViolationService {
	return &violationService{attemptRepo: attemptRepo, rules: rules, attempts: attempts}
}

func (s *violationService) LogViolation(attemptID, userID uint, violationType model.ViolationType) (*dto.ViolationResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("attempt %d does not exist", attemptID)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if !OwnsAttempt(userID, attempt) {
		return nil, apperr.Forbiddenf("attempt %d does not belong to you", attemptID)
	}
	if attempt.Status.Terminal() {
		return nil, apperr.Conflictf("violations cannot be logged against a finished attempt")
	}

	entry := model.ViolationLog{Type: violationType, Timestamp: time.Now()}
	updated, err := s.attemptRepo.RecordViolation(
		attemptID,
		entry,
		violationType == model.ViolationTabSwitch,
		violationType == model.ViolationRefresh,
	)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptFinalized) {
			return nil, apperr.Conflictf("violations cannot be logged against a finished attempt")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("attempt %d does not exist", attemptID)
		}
		return nil, fmt.Errorf("recording violation on attempt %d: %w", attemptID, err)
	}

	log.Info().Uint("attemptID", attemptID).Str("type", string(violationType)).
		Int("tabSwitchCount", updated.TabSwitchCount).Msg("Violation logged")

	resp := &dto.ViolationResponse{
		AttemptID:           updated.ID,
		Type:                string(violationType),
		TabSwitchCount:      updated.TabSwitchCount,
		RefreshAttemptCount: updated.RefreshAttemptCount,
		Status:              string(updated.Status),
	}

	if violationType != model.ViolationTabSwitch {
		return resp, nil
	}

	policy, err := s.rules.ResolveEffective(updated.RoundID)
	if err != nil {
		return nil, fmt.Errorf("resolving policy for round %d: %w", updated.RoundID, err)
	}
	if policy.AutoSubmitOnViolation && updated.TabSwitchCount >= policy.MaxTabSwitchWarnings {
		if _, err := s.attempts.ForceSubmit(updated.ID); err != nil {
			if !apperr.IsConflict(err) {
				return nil, fmt.Errorf("auto-submitting attempt %d: %w", updated.ID, err)
			}
			// A manual submit won the race; the attempt is terminal either way.
			log.Debug().Uint("attemptID", updated.ID).Msg("Auto-submit lost race to manual submit")
		}
		resp.AutoSubmitted = true
		resp.Status = string(model.AttemptAutoSubmitted)
		log.Warn().Uint("attemptID", updated.ID).Uint("userID", userID).
			Int("tabSwitchCount", updated.TabSwitchCount).Msg("Attempt auto-submitted by violation policy")
	}
	return resp, nil
}
