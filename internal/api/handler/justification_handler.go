package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/service"
	pkgerrors "turnario/backend/pkg/errors"
	"turnario/backend/pkg/response"
)

type JustificationHandler struct {
	svc *service.JustificationService
}

// Submit POST /api/v1/justifications
func (h *JustificationHandler) Submit(c *gin.Context) {
	var req dto.SubmitJustificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	justification, err := h.svc.Submit(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Created(c, justification)
}

// Get GET /api/v1/justifications/:id
func (h *JustificationHandler) Get(c *gin.Context) {
	justification, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, justification)
}

// List GET /api/v1/justifications
func (h *JustificationHandler) List(c *gin.Context) {
	var req dto.ListJustificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "invalid query parameters")
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Approve POST /api/v1/justifications/:id/approve
func (h *JustificationHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// Reject POST /api/v1/justifications/:id/reject
func (h *JustificationHandler) Reject(c *gin.Context) {
	if err := h.svc.Reject(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *JustificationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJustificationTarget),
		errors.Is(err, service.ErrDateFormat):
		response.BadRequest(c, 40002, err.Error())
	case errors.Is(err, service.ErrAbsenceNotFound),
		errors.Is(err, service.ErrJustificationNotFound),
		errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, 40401, err.Error())
	case errors.Is(err, service.ErrPendingExists),
		errors.Is(err, service.ErrAbsenceAdjudicated),
		errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrNoAbsencesForTeamDate):
		response.Conflict(c, 40901, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 40902, err.Error())
	default:
		response.InternalError(c)
	}
}
