package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/controller"
	"github.com/symposium-hq/sympro/internal/controller/middleware"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/service"
)

type AttemptController struct {
	attemptService   service.AttemptService
	answerService    service.AnswerService
	violationService service.ViolationService
}

func NewAttemptController(
	attemptService service.AttemptService,
	answerService service.AnswerService,
	violationService service.ViolationService,
) *AttemptController {
	return &AttemptController{
		attemptService:   attemptService,
		answerService:    answerService,
		violationService: violationService,
	}
}

// StartAttempt godoc
// @Summary (User) Start a test attempt
// @Description Begin the caller's single attempt for a round. A second start, whatever the first attempt's status, is rejected with 409.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 201 {object} dto.AttemptDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Failure 409 {object} dto.ErrorResponse "An attempt already exists for this round"
// @Router /rounds/{round_id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.attemptService.Start(caller.UserID, roundID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetAttempt godoc
// @Summary (User) Get an attempt
// @Description Participants can only read their own attempts; admin roles can read any.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 403 {object} dto.ErrorResponse "Not your attempt"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.attemptService.Get(attemptID, caller)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListMyAttempts godoc
// @Summary (User) List the caller's attempts
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AttemptSummaryResponse
// @Router /attempts/mine [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.attemptService.ListMine(caller.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SaveAnswer godoc
// @Summary (User) Save an answer
// @Description Upsert the caller's answer for one question of an in-progress attempt. Saving again overwrites the previous text.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param answer body dto.SaveAnswerRequest true "Question ID and answer text"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Question is not part of this round"
// @Failure 403 {object} dto.ErrorResponse "Not your attempt"
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{attempt_id}/answers [post]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	attemptID, ok := controller.ParseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.answerService.SaveAnswer(attemptID, caller.UserID, req.QuestionID, req.Answer)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// LogViolation godoc
// @Summary (User) Report a proctoring violation
// @Description The client reports events like tab switches or refreshes. Crossing the tab-switch threshold auto-submits the attempt when the round's rules say so.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param violation body dto.ViolationRequest true "Violation type"
// @Success 200 {object} dto.ViolationResponse
// @Failure 403 {object} dto.ErrorResponse "Not your attempt"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already finished"
// @Router /attempts/{attempt_id}/violations [post]
func (c *AttemptController) LogViolation(ctx *gin.Context) {
	attemptID, ok := controller.ParseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.ViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.violationService.LogViolation(attemptID, caller.UserID, model.ViolationType(req.Type))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary (User) Submit an attempt
// @Description Finalize the attempt: grade auto-gradable answers, compute the total score and mark it completed. Submitting twice returns 409.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 403 {object} dto.ErrorResponse "Not your attempt"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.attemptService.Submit(attemptID, caller.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
