package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/controller"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/service"
)

type RoundController struct {
	roundService service.RoundService
}

func NewRoundController(roundService service.RoundService) *RoundController {
	return &RoundController{roundService: roundService}
}

// CreateRound godoc
// @Summary (Admin) Create a round within an event
// @Tags Admin - Rounds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param round body dto.RoundCreateRequest true "Round data"
// @Success 201 {object} dto.RoundResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id}/rounds [post]
func (c *RoundController) CreateRound(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	var req dto.RoundCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateRound: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.roundService.Create(eventID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListRounds godoc
// @Summary (Admin) List an event's rounds
// @Tags Admin - Rounds
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {array} dto.RoundResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id}/rounds [get]
func (c *RoundController) ListRounds(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	resp, err := c.roundService.ListByEvent(eventID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetRound godoc
// @Summary (Admin) Get a round by ID
// @Tags Admin - Rounds
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 200 {object} dto.RoundResponse
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id} [get]
func (c *RoundController) GetRound(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	resp, err := c.roundService.Get(roundID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateRound godoc
// @Summary (Admin) Update a round
// @Tags Admin - Rounds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Param round body dto.RoundUpdateRequest true "Fields to update"
// @Success 200 {object} dto.RoundResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or status"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id} [put]
func (c *RoundController) UpdateRound(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	var req dto.RoundUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.roundService.Update(roundID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteRound godoc
// @Summary (Admin) Delete a round
// @Tags Admin - Rounds
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id} [delete]
func (c *RoundController) DeleteRound(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	if err := c.roundService.Delete(roundID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpsertRoundRules godoc
// @Summary (Admin) Set round-level proctoring rules
// @Description Round-level rules override the event's rules for this round.
// @Tags Admin - Rounds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Param rules body dto.RuleSetRequest true "Rule set"
// @Success 200 {object} dto.RuleSetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id}/rules [put]
func (c *RoundController) UpsertRoundRules(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	var req dto.RuleSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.roundService.UpsertRules(roundID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to a round
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Param question body dto.QuestionCreateRequest true "Question data"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question type or missing correct answer"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id}/questions [post]
func (c *RoundController) CreateQuestion(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.roundService.CreateQuestion(roundID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary (Admin) List a round's questions
// @Description Administrative view including correct answers.
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /admin/rounds/{round_id}/questions [get]
func (c *RoundController) ListQuestions(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	resp, err := c.roundService.ListQuestions(roundID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionUpdateRequest true "Fields to update"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [put]
func (c *RoundController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := controller.ParseUintParam(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.roundService.UpdateQuestion(questionID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Existing answers keep their reference; grading skips answers whose question is gone.
// @Tags Admin - Questions
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [delete]
func (c *RoundController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := controller.ParseUintParam(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.roundService.DeleteQuestion(questionID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
