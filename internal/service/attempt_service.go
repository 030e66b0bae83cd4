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

// AttemptService is the single authoritative state machine for test attempts:
// in_progress -> completed (participant submit) or in_progress ->
// auto_submitted (violation policy or overdue sweep). No transition leaves a
// terminal state.
type AttemptService interface {
	Start(userID, roundID uint) (*dto.AttemptDetailResponse, error)
	Get(attemptID uint, caller model.Caller) (*dto.AttemptDetailResponse, error)
	ListMine(userID uint) ([]dto.AttemptSummaryResponse, error)
	Submit(attemptID, userID uint) (*dto.AttemptDetailResponse, error)
	// ForceSubmit is the system path used by the violation tracker and the
	// overdue sweeper; it finalizes as auto_submitted.
	ForceSubmit(attemptID uint) (*dto.AttemptDetailResponse, error)
}

type attemptService struct {
	roundRepo    repository.RoundRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.TestAttemptRepository
	answerRepo   repository.AnswerRepository
}

func NewAttemptService(
	roundRepo repository.RoundRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.TestAttemptRepository,
	answerRepo repository.AnswerRepository,
) AttemptService {
	return &attemptService{
		roundRepo:    roundRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
	}
}

// Start creates the participant's one and only attempt for a round. A second
// start is rejected regardless of the first attempt's status. MaxScore is the
// sum of the round's question points at this instant and never changes.
func (s *attemptService) Start(userID, roundID uint) (*dto.AttemptDetailResponse, error) {
	if _, err := s.roundRepo.FindByID(roundID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("round %d does not exist", roundID)
		}
		return nil, fmt.Errorf("loading round %d: %w", roundID, err)
	}

	if _, err := s.attemptRepo.FindByUserAndRound(userID, roundID); err == nil {
		return nil, apperr.Conflictf("an attempt for round %d already exists", roundID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing attempt: %w", err)
	}

	maxScore, err := s.questionRepo.SumPointsByRoundID(roundID)
	if err != nil {
		return nil, fmt.Errorf("computing max score for round %d: %w", roundID, err)
	}

	attempt := model.TestAttempt{
		RoundID:   roundID,
		UserID:    userID,
		StartedAt: time.Now(),
		Status:    model.AttemptInProgress,
		MaxScore:  maxScore,
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		// The unique index on (round_id, user_id) closes the check-then-create race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("an attempt for round %d already exists", roundID)
		}
		return nil, fmt.Errorf("creating attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("userID", userID).Uint("roundID", roundID).
		Int("maxScore", maxScore).Msg("Attempt started")
	return s.buildDetail(&attempt)
}

// Get returns the attempt enriched with its round, questions and answers.
func (s *attemptService) Get(attemptID uint, caller model.Caller) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if !CanReadAttempt(caller, attempt) {
		return nil, apperr.Forbiddenf("attempt %d does not belong to you", attemptID)
	}
	return s.buildDetail(attempt)
}

func (s *attemptService) ListMine(userID uint) ([]dto.AttemptSummaryResponse, error) {
	attempts, err := s.attemptRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing attempts for user %d: %w", userID, err)
	}
	summaries := make([]dto.AttemptSummaryResponse, 0, len(attempts))
	for _, a := range attempts {
		var summary dto.AttemptSummaryResponse
		if err := copier.Copy(&summary, &a); err != nil {
			return nil, fmt.Errorf("copying attempt %d to summary: %w", a.ID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Submit finalizes the caller's own in_progress attempt as completed. A second
// submit fails with Conflict rather than silently no-opping, so client retry
// bugs surface instead of masking double-score hazards.
func (s *attemptService) Submit(attemptID, userID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if !OwnsAttempt(userID, attempt) {
		return nil, apperr.Forbiddenf("attempt %d does not belong to you", attemptID)
	}
	if attempt.Status.Terminal() {
		return nil, apperr.Conflictf("attempt %d has already been submitted", attemptID)
	}
	return s.finalize(attempt, model.AttemptCompleted)
}

func (s *attemptService) ForceSubmit(attemptID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.Terminal() {
		return nil, apperr.Conflictf("attempt %d has already been submitted", attemptID)
	}
	return s.finalize(attempt, model.AttemptAutoSubmitted)
}

// finalize grades every answer and performs the terminal transition in one
// repository transaction. The transition is a compare-and-swap on
// status=in_progress, so concurrent submits end with exactly one winner.
func (s *attemptService) finalize(attempt *model.TestAttempt, status model.AttemptStatus) (*dto.AttemptDetailResponse, error) {
	questions, err := s.questionRepo.FindByRoundID(attempt.RoundID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for round %d: %w", attempt.RoundID, err)
	}
	answers, err := s.answerRepo.FindByAttemptID(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for attempt %d: %w", attempt.ID, err)
	}

	graded, total := gradeAnswers(questions, answers)
	now := time.Now()
	err = s.attemptRepo.Finalize(repository.AttemptFinalization{
		AttemptID:   attempt.ID,
		Status:      status,
		TotalScore:  total,
		SubmittedAt: now,
		CompletedAt: now,
		Answers:     graded,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAttemptFinalized) {
			return nil, apperr.Conflictf("attempt %d has already been submitted", attempt.ID)
		}
		return nil, fmt.Errorf("finalizing attempt %d: %w", attempt.ID, err)
	}

	log.Info().Uint("attemptID", attempt.ID).Str("status", string(status)).
		Int("totalScore", total).Int("maxScore", attempt.MaxScore).Msg("Attempt finalized")

	final, err := s.findAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(final)
}

func (s *attemptService) findAttempt(attemptID uint) (*model.TestAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("attempt %d does not exist", attemptID)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	return attempt, nil
}

func (s *attemptService) buildDetail(attempt *model.TestAttempt) (*dto.AttemptDetailResponse, error) {
	var resp dto.AttemptDetailResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("copying attempt %d to response: %w", attempt.ID, err)
	}
	resp.ViolationLogs = attempt.ViolationLogs

	round, err := s.roundRepo.FindByID(attempt.RoundID)
	if err == nil {
		var roundResp dto.RoundResponse
		if err := copier.Copy(&roundResp, round); err == nil {
			resp.Round = &roundResp
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading round %d: %w", attempt.RoundID, err)
	}

	questions, err := s.questionRepo.FindByRoundID(attempt.RoundID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for round %d: %w", attempt.RoundID, err)
	}
	resp.Questions = make([]dto.AttemptQuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.AttemptQuestionResponse{
			ID:             q.ID,
			QuestionType:   string(q.QuestionType),
			QuestionText:   q.QuestionText,
			QuestionNumber: q.QuestionNumber,
			Points:         q.Points,
			Options:        q.Options,
		})
	}

	answers, err := s.answerRepo.FindByAttemptID(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for attempt %d: %w", attempt.ID, err)
	}
	resp.Answers = make([]dto.AnswerResponse, 0, len(answers))
	for _, a := range answers {
		var ansResp dto.AnswerResponse
		if err := copier.Copy(&ansResp, &a); err != nil {
			return nil, fmt.Errorf("copying answer %d to response: %w", a.ID, err)
		}
		resp.Answers = append(resp.Answers, ansResp)
	}
	return &resp, nil
}
