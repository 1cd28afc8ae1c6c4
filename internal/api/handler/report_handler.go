package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/service"
	"turnario/backend/pkg/response"
)

type ReportHandler struct {
	svc *service.ReportService
}

// ListAbsences GET /api/v1/absences
func (h *ReportHandler) ListAbsences(c *gin.Context) {
	var req dto.ListAbsencesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "invalid query parameters")
		return
	}

	list, total, err := h.svc.ListAbsences(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// WorkerConsolidated GET /api/v1/consolidated/worker/:id
func (h *ReportHandler) WorkerConsolidated(c *gin.Context) {
	var req dto.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "start_date and end_date are required")
		return
	}

	report, err := h.svc.WorkerConsolidated(c.Request.Context(), c.Param("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, report)
}

// TeamConsolidated GET /api/v1/consolidated/team/:id
func (h *ReportHandler) TeamConsolidated(c *gin.Context) {
	var req dto.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "start_date and end_date are required")
		return
	}

	report, err := h.svc.TeamConsolidated(c.Request.Context(), c.Param("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, report)
}

// TeamAdherence GET /api/v1/adherence/team/:id
func (h *ReportHandler) TeamAdherence(c *gin.Context) {
	var req dto.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "start_date and end_date are required")
		return
	}

	report, err := h.svc.TeamAdherence(c.Request.Context(), c.Param("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, report)
}

func (h *ReportHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDateFormat), errors.Is(err, service.ErrRangeInvalid):
		response.BadRequest(c, 40002, err.Error())
	case errors.Is(err, service.ErrTeamNotFound), errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 40403, err.Error())
	default:
		response.InternalError(c)
	}
}
