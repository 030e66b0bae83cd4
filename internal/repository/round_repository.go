package repository

import (
	"github.com/symposium-hq/sympro/internal/model"
	"gorm.io/gorm"
)

type RoundRepository interface {
	Create(round *model.Round) error
	FindByID(id uint) (*model.Round, error)
	FindByEventID(eventID uint) ([]model.Round, error)
	Update(round *model.Round) error
	Delete(id uint) error
}

type roundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *model.Round) error {
	return r.db.Create(round).Error
}

func (r *roundRepository) FindByID(id uint) (*model.Round, error) {
	var round model.Round
	if err := r.db.First(&round, id).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) FindByEventID(eventID uint) ([]model.Round, error) {
	var rounds []model.Round
	if err := r.db.Where("event_id = ?", eventID).Order("round_number ASC").Find(&rounds).Error; err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *roundRepository) Update(round *model.Round) error {
	return r.db.Save(round).Error
}

func (r *roundRepository) Delete(id uint) error {
	return r.db.Delete(&model.Round{}, id).Error
}
