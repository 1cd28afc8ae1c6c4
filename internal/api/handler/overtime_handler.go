package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/service"
	pkgerrors "turnario/backend/pkg/errors"
	"turnario/backend/pkg/response"
)

type OvertimeHandler struct {
	svc *service.OvertimeService
}

// List GET /api/v1/overtimes
func (h *OvertimeHandler) List(c *gin.Context) {
	var req dto.ListOvertimesRequest
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

// Get GET /api/v1/overtimes/:id
func (h *OvertimeHandler) Get(c *gin.Context) {
	overtime, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, overtime)
}

// Approve POST /api/v1/overtimes/:id/approve
func (h *OvertimeHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// Reject POST /api/v1/overtimes/:id/reject
func (h *OvertimeHandler) Reject(c *gin.Context) {
	if err := h.svc.Reject(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *OvertimeHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOvertimeNotFound):
		response.NotFound(c, 40402, err.Error())
	case errors.Is(err, service.ErrOvertimeDecided):
		response.Conflict(c, 40903, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 40902, err.Error())
	default:
		response.InternalError(c)
	}
}
