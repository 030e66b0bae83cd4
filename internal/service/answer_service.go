package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/gorm"
)

// AnswerService upserts a participant's answer per question within an
// attempt. Answers are mutable only while the attempt is in_progress; a
// resubmission overwrites the text of the existing row and leaves grading
// fields untouched.
type AnswerService interface {
	SaveAnswer(attemptID, userID, questionID uint, answerText string) (*dto.AnswerResponse, error)
}

type answerService struct {
	attemptRepo  repository.TestAttemptRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewAnswerService(
	attemptRepo repository.TestAttemptRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
) AnswerService {
	return &answerService{attemptRepo: attemptRepo, questionRepo: questionRepo, answerRepo: answerRepo}
}

func (s *answerService) SaveAnswer(attemptID, userID, questionID uint, answerText string) (*dto.AnswerResponse, error) {
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
		return nil, apperr.Conflictf("attempt %d has already been submitted", attemptID)
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("question %d does not exist", questionID)
		}
		return nil, fmt.Errorf("loading question %d: %w", questionID, err)
	}
	if question.RoundID != attempt.RoundID {
		return nil, apperr.Validationf("question %d is not part of this round", questionID)
	}

	existing, err := s.answerRepo.FindByAttemptAndQuestion(attemptID, questionID)
	switch {
	case err == nil:
		existing.Answer = answerText
		if err := s.answerRepo.Update(existing); err != nil {
			return nil, fmt.Errorf("updating answer %d: %w", existing.ID, err)
		}
		return toAnswerResponse(existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		correct := false
		answer := &model.Answer{
			AttemptID:     attemptID,
			QuestionID:    questionID,
			Answer:        answerText,
			IsCorrect:     &correct,
			PointsAwarded: 0,
			AnsweredAt:    time.Now(),
		}
		if err := s.answerRepo.Create(answer); err != nil {
			// Two saves raced past the lookup; the unique index on
			// (attempt_id, question_id) keeps it a single row.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				raced, ferr := s.answerRepo.FindByAttemptAndQuestion(attemptID, questionID)
				if ferr != nil {
					return nil, fmt.Errorf("reloading answer after race: %w", ferr)
				}
				raced.Answer = answerText
				if err := s.answerRepo.Update(raced); err != nil {
					return nil, fmt.Errorf("updating answer %d: %w", raced.ID, err)
				}
				return toAnswerResponse(raced)
			}
			return nil, fmt.Errorf("creating answer: %w", err)
		}
		log.Debug().Uint("attemptID", attemptID).Uint("questionID", questionID).Msg("Answer saved")
		return toAnswerResponse(answer)
	default:
		return nil, fmt.Errorf("loading answer for attempt %d question %d: %w", attemptID, questionID, err)
	}
}

func toAnswerResponse(answer *model.Answer) (*dto.AnswerResponse, error) {
	var resp dto.AnswerResponse
	if err := copier.Copy(&resp, answer); err != nil {
		return nil, fmt.Errorf("copying answer to response: %w", err)
	}
	return &resp, nil
}
