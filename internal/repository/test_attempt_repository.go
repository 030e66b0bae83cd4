package repository

import (
	"errors"
	"time"

	"github.com/symposium-hq/sympro/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAttemptFinalized is returned by RecordViolation and Finalize when the
// attempt has already reached a terminal status. The test_attempts row is the
// serialization boundary: both operations re-check status under the row lock
// so two concurrent submits always yield exactly one success.
var ErrAttemptFinalized = errors.New("attempt already finalized")

// AttemptFinalization bundles everything persisted when an attempt reaches a
// terminal state. Grading writes and the status transition commit together or
// not at all.
type AttemptFinalization struct {
	AttemptID   uint
	Status      model.AttemptStatus
	TotalScore  int
	SubmittedAt time.Time
	CompletedAt time.Time
	Answers     []model.Answer
}

type TestAttemptRepository interface {
	Create(attempt *model.TestAttempt) error
	FindByID(id uint) (*model.TestAttempt, error)
	FindByUserAndRound(userID, roundID uint) (*model.TestAttempt, error)
	FindByUserID(userID uint) ([]model.TestAttempt, error)
	FindByRoundID(roundID uint) ([]model.TestAttempt, error)
	FindByRoundAndStatus(roundID uint, status model.AttemptStatus) ([]model.TestAttempt, error)
	FindByEventAndStatus(eventID uint, status model.AttemptStatus) ([]model.TestAttempt, error)
	FindAll() ([]model.TestAttempt, error)
	FindAllByStatus(status model.AttemptStatus) ([]model.TestAttempt, error)
	FindOverdue(asOf time.Time, grace time.Duration) ([]model.TestAttempt, error)
	RecordViolation(attemptID uint, entry model.ViolationLog, incTabSwitch, incRefresh bool) (*model.TestAttempt, error)
	Finalize(f AttemptFinalization) error
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *testAttemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindByUserAndRound(userID, roundID uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.Where("user_id = ? AND round_id = ?", userID, roundID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindByUserID(userID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) FindByRoundID(roundID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Where("round_id = ?", roundID).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) FindByRoundAndStatus(roundID uint, status model.AttemptStatus) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Where("round_id = ? AND status = ?", roundID, status).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) FindByEventAndStatus(eventID uint, status model.AttemptStatus) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.
		Joins("JOIN rounds ON rounds.id = test_attempts.round_id").
		Where("rounds.event_id = ? AND test_attempts.status = ?", eventID, status).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) FindAll() ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) FindAllByStatus(status model.AttemptStatus) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Where("status = ?", status).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// FindOverdue returns in_progress attempts whose round duration elapsed
// before asOf minus the grace window.
func (r *testAttemptRepository) FindOverdue(asOf time.Time, grace time.Duration) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.
		Joins("JOIN rounds ON rounds.id = test_attempts.round_id").
		Where("test_attempts.status = ?", model.AttemptInProgress).
		Where("test_attempts.started_at + make_interval(mins => rounds.duration) <= ?", asOf.Add(-grace)).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// RecordViolation appends the log entry and bumps counters in a row-locked
// read-modify-write so concurrent violation calls are both recorded.
func (r *testAttemptRepository) RecordViolation(attemptID uint, entry model.ViolationLog, incTabSwitch, incRefresh bool) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&attempt, attemptID).Error; err != nil {
			return err
		}
		if attempt.Status != model.AttemptInProgress {
			return ErrAttemptFinalized
		}
		attempt.ViolationLogs = append(attempt.ViolationLogs, entry)
		if incTabSwitch {
			attempt.TabSwitchCount++
		}
		if incRefresh {
			attempt.RefreshAttemptCount++
		}
		return tx.Save(&attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Finalize performs the terminal transition as a compare-and-swap on
// status=in_progress and persists the graded answers in the same transaction.
func (r *testAttemptRepository) Finalize(f AttemptFinalization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND status = ?", f.AttemptID, model.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":       f.Status,
				"total_score":  f.TotalScore,
				"submitted_at": f.SubmittedAt,
				"completed_at": f.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAttemptFinalized
		}
		for i := range f.Answers {
			err := tx.Model(&model.Answer{}).
				Where("id = ?", f.Answers[i].ID).
				Updates(map[string]interface{}{
					"is_correct":     f.Answers[i].IsCorrect,
					"points_awarded": f.Answers[i].PointsAwarded,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
