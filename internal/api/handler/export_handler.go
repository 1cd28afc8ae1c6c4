package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/service"
	"turnario/backend/pkg/response"
)

type ExportHandler struct {
	svc *service.ExportService
}

// AdherenceXLSX GET /api/v1/export/adherence/team/:id
func (h *ExportHandler) AdherenceXLSX(c *gin.Context) {
	var req dto.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "start_date and end_date are required")
		return
	}

	data, err := h.svc.AdherenceXLSX(c.Request.Context(), c.Param("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("adherence_%s_%s_%s.xlsx", c.Param("id"), req.StartDate, req.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ScheduleICS GET /api/v1/export/team/:id/schedule.ics
func (h *ExportHandler) ScheduleICS(c *gin.Context) {
	var req dto.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "start_date and end_date are required")
		return
	}

	calendar, err := h.svc.ScheduleICS(c.Request.Context(), c.Param("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}

func (h *ExportHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDateFormat), errors.Is(err, service.ErrRangeInvalid):
		response.BadRequest(c, 40002, err.Error())
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, 40403, err.Error())
	default:
		response.InternalError(c)
	}
}
