package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoundService covers the administrative surface of rounds: CRUD, round-level
// proctoring rules and the round's question bank.
type RoundService interface {
	Create(eventID uint, req dto.RoundCreateRequest) (*dto.RoundResponse, error)
	Get(roundID uint) (*dto.RoundResponse, error)
	ListByEvent(eventID uint) ([]dto.RoundResponse, error)
	Update(roundID uint, req dto.RoundUpdateRequest) (*dto.RoundResponse, error)
	Delete(roundID uint) error
	UpsertRules(roundID uint, req dto.RuleSetRequest) (*dto.RuleSetResponse, error)
	CreateQuestion(roundID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error)
	ListQuestions(roundID uint) ([]dto.QuestionResponse, error)
	UpdateQuestion(questionID uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(questionID uint) error
}

type roundService struct {
	eventRepo    repository.EventRepository
	roundRepo    repository.RoundRepository
	ruleRepo     repository.RuleRepository
	questionRepo repository.QuestionRepository
}

func NewRoundService(
	eventRepo repository.EventRepository,
	roundRepo repository.RoundRepository,
	ruleRepo repository.RuleRepository,
	questionRepo repository.QuestionRepository,
) RoundService {
	return &roundService{
		eventRepo:    eventRepo,
		roundRepo:    roundRepo,
		ruleRepo:     ruleRepo,
		questionRepo: questionRepo,
	}
}

func (s *roundService) Create(eventID uint, req dto.RoundCreateRequest) (*dto.RoundResponse, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}

	round := model.Round{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		RoundNumber: req.RoundNumber,
		Duration:    req.Duration,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.RoundUpcoming,
	}
	if err := s.roundRepo.Create(&round); err != nil {
		return nil, fmt.Errorf("creating round: %w", err)
	}
	log.Info().Uint("roundID", round.ID).Uint("eventID", eventID).Msg("Round created")
	return toRoundResponse(&round)
}

func (s *roundService) Get(roundID uint) (*dto.RoundResponse, error) {
	round, err := s.findRound(roundID)
	if err != nil {
		return nil, err
	}
	return toRoundResponse(round)
}

func (s *roundService) ListByEvent(eventID uint) ([]dto.RoundResponse, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	rounds, err := s.roundRepo.FindByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("listing rounds for event %d: %w", eventID, err)
	}
	responses := make([]dto.RoundResponse, 0, len(rounds))
	for i := range rounds {
		resp, err := toRoundResponse(&rounds[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *roundService) Update(roundID uint, req dto.RoundUpdateRequest) (*dto.RoundResponse, error) {
	round, err := s.findRound(roundID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		round.Name = *req.Name
	}
	if req.Description != nil {
		round.Description = req.Description
	}
	if req.RoundNumber != nil {
		round.RoundNumber = *req.RoundNumber
	}
	if req.Duration != nil {
		if *req.Duration < 1 {
			return nil, apperr.Validationf("duration must be at least one minute")
		}
		round.Duration = *req.Duration
	}
	if req.StartTime != nil {
		round.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		round.EndTime = req.EndTime
	}
	if req.Status != nil {
		status := model.RoundStatus(*req.Status)
		switch status {
		case model.RoundUpcoming, model.RoundActive, model.RoundCompleted:
			round.Status = status
		default:
			return nil, apperr.Validationf("unknown round status %q", *req.Status)
		}
	}

	if err := s.roundRepo.Update(round); err != nil {
		return nil, fmt.Errorf("updating round %d: %w", roundID, err)
	}
	return toRoundResponse(round)
}

func (s *roundService) Delete(roundID uint) error {
	if _, err := s.findRound(roundID); err != nil {
		return err
	}
	if err := s.roundRepo.Delete(roundID); err != nil {
		return fmt.Errorf("deleting round %d: %w", roundID, err)
	}
	log.Info().Uint("roundID", roundID).Msg("Round deleted")
	return nil
}

func (s *roundService) UpsertRules(roundID uint, req dto.RuleSetRequest) (*dto.RuleSetResponse, error) {
	if _, err := s.findRound(roundID); err != nil {
		return nil, err
	}

	ruleSet := toRuleSet(req)
	existing, err := s.ruleRepo.FindByRoundID(roundID)
	switch {
	case err == nil:
		existing.RuleSet = ruleSet
		if err := s.ruleRepo.UpdateRoundRules(existing); err != nil {
			return nil, fmt.Errorf("updating round rules: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = &model.RoundRules{RoundID: roundID, RuleSet: ruleSet}
		if err := s.ruleRepo.CreateRoundRules(existing); err != nil {
			return nil, fmt.Errorf("creating round rules: %w", err)
		}
	default:
		return nil, fmt.Errorf("loading round rules: %w", err)
	}

	var resp dto.RuleSetResponse
	if err := copier.Copy(&resp, &existing.RuleSet); err != nil {
		return nil, fmt.Errorf("copying rules to response: %w", err)
	}
	resp.RoundID = roundID
	resp.Source = string(model.RuleSourceRound)
	return &resp, nil
}

func (s *roundService) CreateQuestion(roundID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error) {
	if _, err := s.findRound(roundID); err != nil {
		return nil, err
	}

	questionType := model.QuestionType(req.QuestionType)
	if !model.ValidQuestionType(questionType) {
		return nil, apperr.Validationf("unknown question type %q", req.QuestionType)
	}
	if questionType.AutoGradable() && (req.CorrectAnswer == nil || *req.CorrectAnswer == "") {
		return nil, apperr.Validationf("%s questions require a correct answer", req.QuestionType)
	}

	question := model.Question{
		RoundID:        roundID,
		QuestionType:   questionType,
		QuestionText:   req.QuestionText,
		QuestionNumber: req.QuestionNumber,
		Points:         req.Points,
		Options:        datatypes.NewJSONSlice(req.Options),
		CorrectAnswer:  req.CorrectAnswer,
		ExpectedOutput: req.ExpectedOutput,
		TestCases:      datatypes.JSON(req.TestCases),
	}
	if err := s.questionRepo.Create(&question); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}
	log.Info().Uint("questionID", question.ID).Uint("roundID", roundID).Msg("Question created")
	return toQuestionResponse(&question)
}

func (s *roundService) ListQuestions(roundID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.findRound(roundID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindByRoundID(roundID)
	if err != nil {
		return nil, fmt.Errorf("listing questions for round %d: %w", roundID, err)
	}
	responses := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp, err := toQuestionResponse(&questions[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *roundService) UpdateQuestion(questionID uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("question %d does not exist", questionID)
		}
		return nil, fmt.Errorf("loading question %d: %w", questionID, err)
	}

	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.QuestionNumber != nil {
		question.QuestionNumber = *req.QuestionNumber
	}
	if req.Points != nil {
		if *req.Points < 1 {
			return nil, apperr.Validationf("points must be at least 1")
		}
		question.Points = *req.Points
	}
	if req.Options != nil {
		question.Options = datatypes.NewJSONSlice(req.Options)
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.ExpectedOutput != nil {
		question.ExpectedOutput = req.ExpectedOutput
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating question %d: %w", questionID, err)
	}
	return toQuestionResponse(question)
}

func (s *roundService) DeleteQuestion(questionID uint) error {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("question %d does not exist", questionID)
		}
		return fmt.Errorf("loading question %d: %w", questionID, err)
	}
	// Existing answers keep their question_id; grading simply skips answers
	// whose question is gone.
	if err := s.questionRepo.Delete(questionID); err != nil {
		return fmt.Errorf("deleting question %d: %w", questionID, err)
	}
	log.Info().Uint("questionID", questionID).Msg("Question deleted")
	return nil
}

func (s *roundService) findRound(roundID uint) (*model.Round, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("round %d does not exist", roundID)
		}
		return nil, fmt.Errorf("loading round %d: %w", roundID, err)
	}
	return round, nil
}

func toRoundResponse(round *model.Round) (*dto.RoundResponse, error) {
	var resp dto.RoundResponse
	if err := copier.Copy(&resp, round); err != nil {
		return nil, fmt.Errorf("copying round to response: %w", err)
	}
	return &resp, nil
}

func toQuestionResponse(question *model.Question) (*dto.QuestionResponse, error) {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("copying question to response: %w", err)
	}
	resp.Options = question.Options
	return &resp, nil
}
