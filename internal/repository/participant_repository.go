package repository

import (
	"github.com/symposium-hq/sympro/internal/model"
	"gorm.io/gorm"
)

type ParticipantRepository interface {
	Create(participant *model.Participant) error
	FindByEventID(eventID uint) ([]model.Participant, error)
	FindByUserID(userID uint) ([]model.Participant, error)
	FindByEventAndUser(eventID, userID uint) (*model.Participant, error)
	Update(participant *model.Participant) error
	CountDistinctUsers() (int64, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *model.Participant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) FindByEventID(eventID uint) ([]model.Participant, error) {
	var participants []model.Participant
	if err := r.db.Where("event_id = ?", eventID).Order("registered_at ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) FindByUserID(userID uint) ([]model.Participant, error) {
	var participants []model.Participant
	if err := r.db.Where("user_id = ?", userID).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) FindByEventAndUser(eventID, userID uint) (*model.Participant, error) {
	var participant model.Participant
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) Update(participant *model.Participant) error {
	return r.db.Save(participant).Error
}

func (r *participantRepository) CountDistinctUsers() (int64, error) {
	var count int64
	err := r.db.Model(&model.Participant{}).Distinct("user_id").Count(&count).Error
	return count, err
}
