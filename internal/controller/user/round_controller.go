package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/symposium-hq/sympro/internal/controller"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/service"
)

type RoundController struct {
	rulesService       service.RulesService
	leaderboardService service.LeaderboardService
}

func NewRoundController(rulesService service.RulesService, leaderboardService service.LeaderboardService) *RoundController {
	return &RoundController{rulesService: rulesService, leaderboardService: leaderboardService}
}

// GetEffectiveRules godoc
// @Summary (User) Get the effective proctoring rules for a round
// @Description Resolve the rules the client must enforce: round-level if set, else event-level, else strict defaults.
// @Tags User - Rounds
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 200 {object} dto.RuleSetResponse
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /rounds/{round_id}/rules [get]
func (c *RoundController) GetEffectiveRules(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	effective, err := c.rulesService.ResolveEffective(roundID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	var resp dto.RuleSetResponse
	if err := copier.Copy(&resp, &effective.RuleSet); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	resp.RoundID = effective.RoundID
	resp.Source = string(effective.Source)
	ctx.JSON(http.StatusOK, resp)
}

// RoundLeaderboard godoc
// @Summary (User) Round leaderboard
// @Description Completed attempts ranked by score, earlier submission breaking ties. Auto-submitted attempts are excluded.
// @Tags User - Rounds
// @Produce json
// @Security BearerAuth
// @Param round_id path int true "Round ID"
// @Success 200 {array} dto.LeaderboardEntry
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Router /rounds/{round_id}/leaderboard [get]
func (c *RoundController) RoundLeaderboard(ctx *gin.Context) {
	roundID, ok := controller.ParseUintParam(ctx, "round_id")
	if !ok {
		return
	}
	resp, err := c.leaderboardService.RoundLeaderboard(roundID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// EventLeaderboard godoc
// @Summary (User) Event leaderboard
// @Description Per-participant totals over all completed attempts across the event's rounds.
// @Tags User - Rounds
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {array} dto.LeaderboardEntry
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{event_id}/leaderboard [get]
func (c *RoundController) EventLeaderboard(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	resp, err := c.leaderboardService.EventLeaderboard(eventID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
