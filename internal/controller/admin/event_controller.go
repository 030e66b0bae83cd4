package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/controller"
	"github.com/symposium-hq/sympro/internal/controller/middleware"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/service"
)

type EventController struct {
	eventService service.EventService
}

func NewEventController(eventService service.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent godoc
// @Summary (Admin) Create a new event
// @Description Create a symposium event in draft status.
// @Tags Admin - Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body dto.EventCreateRequest true "Event data"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.EventCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateEvent: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.eventService.Create(req, caller.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListEvents godoc
// @Summary (Admin) List all events
// @Tags Admin - Events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EventResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	resp, err := c.eventService.List()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetEvent godoc
// @Summary (Admin) Get an event by ID
// @Tags Admin - Events
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	resp, err := c.eventService.Get(eventID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateEvent godoc
// @Summary (Admin) Update an event
// @Description Partially update event fields; omitted fields are left unchanged.
// @Tags Admin - Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param event body dto.EventUpdateRequest true "Fields to update"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or status"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	var req dto.EventUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.eventService.Update(eventID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteEvent godoc
// @Summary (Admin) Delete an event
// @Description Delete an event and, via cascade, its rounds, questions, rules, participants and attempts.
// @Tags Admin - Events
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	if err := c.eventService.Delete(eventID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpsertEventRules godoc
// @Summary (Admin) Set event-level proctoring rules
// @Description Create or replace the event's proctoring rule set.
// @Tags Admin - Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param rules body dto.RuleSetRequest true "Rule set"
// @Success 200 {object} dto.RuleSetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id}/rules [put]
func (c *EventController) UpsertEventRules(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	var req dto.RuleSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.eventService.UpsertRules(eventID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RegisterParticipant godoc
// @Summary (Admin) Register a participant for an event
// @Tags Admin - Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param participant body dto.ParticipantRegisterRequest true "User to register"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 404 {object} dto.ErrorResponse "Event or user not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /admin/events/{event_id}/participants [post]
func (c *EventController) RegisterParticipant(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	var req dto.ParticipantRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.eventService.RegisterParticipant(eventID, req.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListParticipants godoc
// @Summary (Admin) List an event's participants
// @Tags Admin - Events
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {array} dto.ParticipantResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id}/participants [get]
func (c *EventController) ListParticipants(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	resp, err := c.eventService.ListParticipants(eventID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
