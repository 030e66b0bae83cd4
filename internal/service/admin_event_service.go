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
	"gorm.io/gorm"
)

// EventService covers the administrative surface of events: CRUD, event-level
// proctoring rules and participant registration.
type EventService interface {
	Create(req dto.EventCreateRequest, createdBy uint) (*dto.EventResponse, error)
	Get(eventID uint) (*dto.EventResponse, error)
	List() ([]dto.EventResponse, error)
	Update(eventID uint, req dto.EventUpdateRequest) (*dto.EventResponse, error)
	Delete(eventID uint) error
	UpsertRules(eventID uint, req dto.RuleSetRequest) (*dto.RuleSetResponse, error)
	RegisterParticipant(eventID, userID uint) (*dto.ParticipantResponse, error)
	ListParticipants(eventID uint) ([]dto.ParticipantResponse, error)
}

type eventService struct {
	eventRepo       repository.EventRepository
	ruleRepo        repository.RuleRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
}

func NewEventService(
	eventRepo repository.EventRepository,
	ruleRepo repository.RuleRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
) EventService {
	return &eventService{
		eventRepo:       eventRepo,
		ruleRepo:        ruleRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
	}
}

func (s *eventService) Create(req dto.EventCreateRequest, createdBy uint) (*dto.EventResponse, error) {
	event := model.Event{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      model.EventDraft,
		CreatedBy:   createdBy,
	}
	if err := s.eventRepo.Create(&event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	log.Info().Uint("eventID", event.ID).Str("name", event.Name).Msg("Event created")
	return toEventResponse(&event)
}

func (s *eventService) Get(eventID uint) (*dto.EventResponse, error) {
	event, err := s.findEvent(eventID)
	if err != nil {
		return nil, err
	}
	return toEventResponse(event)
}

func (s *eventService) List() ([]dto.EventResponse, error) {
	events, err := s.eventRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp, err := toEventResponse(&events[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *eventService) Update(eventID uint, req dto.EventUpdateRequest) (*dto.EventResponse, error) {
	event, err := s.findEvent(eventID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.Status != nil {
		status := model.EventStatus(*req.Status)
		switch status {
		case model.EventDraft, model.EventActive, model.EventCompleted:
			event.Status = status
		default:
			return nil, apperr.Validationf("unknown event status %q", *req.Status)
		}
	}
	if req.StartDate != nil {
		event.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("updating event %d: %w", eventID, err)
	}
	return toEventResponse(event)
}

func (s *eventService) Delete(eventID uint) error {
	if _, err := s.findEvent(eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(eventID); err != nil {
		return fmt.Errorf("deleting event %d: %w", eventID, err)
	}
	log.Info().Uint("eventID", eventID).Msg("Event deleted")
	return nil
}

func (s *eventService) UpsertRules(eventID uint, req dto.RuleSetRequest) (*dto.RuleSetResponse, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return nil, err
	}

	ruleSet := toRuleSet(req)
	existing, err := s.ruleRepo.FindByEventID(eventID)
	switch {
	case err == nil:
		existing.RuleSet = ruleSet
		if err := s.ruleRepo.UpdateEventRules(existing); err != nil {
			return nil, fmt.Errorf("updating event rules: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = &model.EventRules{EventID: eventID, RuleSet: ruleSet}
		if err := s.ruleRepo.CreateEventRules(existing); err != nil {
			return nil, fmt.Errorf("creating event rules: %w", err)
		}
	default:
		return nil, fmt.Errorf("loading event rules: %w", err)
	}

	var resp dto.RuleSetResponse
	if err := copier.Copy(&resp, &existing.RuleSet); err != nil {
		return nil, fmt.Errorf("copying rules to response: %w", err)
	}
	resp.Source = string(model.RuleSourceEvent)
	return &resp, nil
}

func (s *eventService) RegisterParticipant(eventID, userID uint) (*dto.ParticipantResponse, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d does not exist", userID)
		}
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	if _, err := s.participantRepo.FindByEventAndUser(eventID, userID); err == nil {
		return nil, apperr.Conflictf("user %d is already registered for event %d", userID, eventID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking registration: %w", err)
	}

	participant := model.Participant{
		EventID: eventID,
		UserID:  userID,
		Status:  model.ParticipantRegistered,
	}
	if err := s.participantRepo.Create(&participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("user %d is already registered for event %d", userID, eventID)
		}
		return nil, fmt.Errorf("registering participant: %w", err)
	}

	log.Info().Uint("eventID", eventID).Uint("userID", userID).Msg("Participant registered")
	var resp dto.ParticipantResponse
	if err := copier.Copy(&resp, &participant); err != nil {
		return nil, fmt.Errorf("copying participant to response: %w", err)
	}
	return &resp, nil
}

func (s *eventService) ListParticipants(eventID uint) ([]dto.ParticipantResponse, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.FindByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("listing participants for event %d: %w", eventID, err)
	}
	responses := make([]dto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		var resp dto.ParticipantResponse
		if err := copier.Copy(&resp, &p); err != nil {
			return nil, fmt.Errorf("copying participant to response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *eventService) findEvent(eventID uint) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	return event, nil
}

func toEventResponse(event *model.Event) (*dto.EventResponse, error) {
	var resp dto.EventResponse
	if err := copier.Copy(&resp, event); err != nil {
		return nil, fmt.Errorf("copying event to response: %w", err)
	}
	return &resp, nil
}

func toRuleSet(req dto.RuleSetRequest) model.RuleSet {
	return model.RuleSet{
		NoRefresh:             req.NoRefresh,
		NoTabSwitch:           req.NoTabSwitch,
		ForceFullscreen:       req.ForceFullscreen,
		DisableShortcuts:      req.DisableShortcuts,
		AutoSubmitOnViolation: req.AutoSubmitOnViolation,
		MaxTabSwitchWarnings:  req.MaxTabSwitchWarnings,
		AdditionalRules:       req.AdditionalRules,
	}
}
