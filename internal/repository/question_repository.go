package repository

import (
	"github.com/symposium-hq/sympro/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByRoundID(roundID uint) ([]model.Question, error)
	SumPointsByRoundID(roundID uint) (int, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByRoundID(roundID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("round_id = ?", roundID).Order("question_number ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// SumPointsByRoundID feeds the attempt's frozen MaxScore at start time.
func (r *questionRepository) SumPointsByRoundID(roundID uint) (int, error) {
	var total int64
	err := r.db.Model(&model.Question{}).
		Where("round_id = ?", roundID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
