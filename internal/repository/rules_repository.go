package repository

import (
	"github.com/symposium-hq/sympro/internal/model"
	"gorm.io/gorm"
)

type RuleRepository interface {
	FindByEventID(eventID uint) (*model.EventRules, error)
	CreateEventRules(rules *model.EventRules) error
	UpdateEventRules(rules *model.EventRules) error
	FindByRoundID(roundID uint) (*model.RoundRules, error)
	CreateRoundRules(rules *model.RoundRules) error
	UpdateRoundRules(rules *model.RoundRules) error
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) FindByEventID(eventID uint) (*model.EventRules, error) {
	var rules model.EventRules
	if err := r.db.Where("event_id = ?", eventID).First(&rules).Error; err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *ruleRepository) CreateEventRules(rules *model.EventRules) error {
	return r.db.Create(rules).Error
}

func (r *ruleRepository) UpdateEventRules(rules *model.EventRules) error {
	return r.db.Save(rules).Error
}

func (r *ruleRepository) FindByRoundID(roundID uint) (*model.RoundRules, error) {
	var rules model.RoundRules
	if err := r.db.Where("round_id = ?", roundID).First(&rules).Error; err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *ruleRepository) CreateRoundRules(rules *model.RoundRules) error {
	return r.db.Create(rules).Error
}

func (r *ruleRepository) UpdateRoundRules(rules *model.RoundRules) error {
	return r.db.Save(rules).Error
}
