package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/gorm"
)

// RulesService resolves the effective proctoring policy for a round:
// round-level rules win, event-level rules are the fallback, and a strict
// default is synthesized and persisted at the round level when neither exists.
type RulesService interface {
	ResolveEffective(roundID uint) (*model.EffectiveRuleSet, error)
}

type rulesService struct {
	roundRepo repository.RoundRepository
	ruleRepo  repository.RuleRepository
}

func NewRulesService(roundRepo repository.RoundRepository, ruleRepo repository.RuleRepository) RulesService {
	return &rulesService{roundRepo: roundRepo, ruleRepo: ruleRepo}
}

func (s *rulesService) ResolveEffective(roundID uint) (*model.EffectiveRuleSet, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("round %d does not exist", roundID)
		}
		return nil, fmt.Errorf("loading round %d: %w", roundID, err)
	}

	roundRules, err := s.ruleRepo.FindByRoundID(roundID)
	if err == nil {
		return &model.EffectiveRuleSet{RuleSet: roundRules.RuleSet, RoundID: roundID, Source: model.RuleSourceRound}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading round rules for round %d: %w", roundID, err)
	}

	eventRules, err := s.ruleRepo.FindByEventID(round.EventID)
	if err == nil {
		return &model.EffectiveRuleSet{RuleSet: eventRules.RuleSet, RoundID: roundID, Source: model.RuleSourceEvent}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading event rules for event %d: %w", round.EventID, err)
	}

	// Neither level is configured: persist strict defaults at the round level
	// so the next resolution is stable.
	synthesized := &model.RoundRules{RoundID: roundID, RuleSet: model.DefaultRuleSet()}
	if err := s.ruleRepo.CreateRoundRules(synthesized); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another request created them first; use theirs.
			existing, ferr := s.ruleRepo.FindByRoundID(roundID)
			if ferr != nil {
				return nil, fmt.Errorf("reloading round rules for round %d: %w", roundID, ferr)
			}
			return &model.EffectiveRuleSet{RuleSet: existing.RuleSet, RoundID: roundID, Source: model.RuleSourceRound}, nil
		}
		return nil, fmt.Errorf("persisting default rules for round %d: %w", roundID, err)
	}
	log.Info().Uint("roundID", roundID).Msg("Synthesized default proctoring rules for round")
	return &model.EffectiveRuleSet{RuleSet: synthesized.RuleSet, RoundID: roundID, Source: model.RuleSourceDefault}, nil
}
