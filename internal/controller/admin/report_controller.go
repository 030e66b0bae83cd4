package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/symposium-hq/sympro/internal/controller"
	"github.com/symposium-hq/sympro/internal/controller/middleware"
	"github.com/symposium-hq/sympro/internal/service"
)

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GenerateEventReport godoc
// @Summary (Admin) Generate an event report
// @Description Build an immutable snapshot of the event: per-round stats, leaderboards, violations and participant rollups.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 201 {object} dto.ReportResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{event_id}/reports [post]
func (c *ReportController) GenerateEventReport(ctx *gin.Context) {
	eventID, ok := controller.ParseUintParam(ctx, "event_id")
	if !ok {
		return
	}
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.reportService.GenerateEventReport(eventID, caller.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GenerateSymposiumReport godoc
// @Summary (Admin) Generate a symposium-wide report
// @Description Build an immutable snapshot across all events: totals, violation counters and top performers.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.ReportResponse
// @Router /admin/reports/symposium [post]
func (c *ReportController) GenerateSymposiumReport(ctx *gin.Context) {
	caller, _ := middleware.CallerFrom(ctx)
	resp, err := c.reportService.GenerateSymposiumReport(caller.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListReports godoc
// @Summary (Admin) List generated reports
// @Description Use the optional event_id query parameter to filter to one event.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param event_id query int false "Filter by Event ID"
// @Success 200 {array} dto.ReportResponse
// @Router /admin/reports [get]
func (c *ReportController) ListReports(ctx *gin.Context) {
	if eventIDStr := ctx.Query("event_id"); eventIDStr != "" {
		eventID, ok := controller.ParseUintQuery(ctx, "event_id")
		if !ok {
			return
		}
		resp, err := c.reportService.ListByEvent(eventID)
		if err != nil {
			controller.RespondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, resp)
		return
	}

	resp, err := c.reportService.List()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetReport godoc
// @Summary (Admin) Get a report by ID
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param report_id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Router /admin/reports/{report_id} [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	reportID, ok := controller.ParseUintParam(ctx, "report_id")
	if !ok {
		return
	}
	resp, err := c.reportService.Get(reportID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
