package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/service"
)

// ReconciliationHandler exposes the operational trigger endpoints. They
// keep the dispatch tooling's contract: the documented body is returned
// directly, validation failures are 400, and a run whose units partially
// failed still answers 200 with success=false in the body.
type ReconciliationHandler struct {
	svc    *service.ReconciliationService
	logger *zap.Logger
}

// Manual POST /api/v1/reconciliation/manual
func (h *ReconciliationHandler) Manual(c *gin.Context) {
	var req dto.ManualReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	result, err := h.svc.RunManual(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Forced POST /api/v1/reconciliation/forced
func (h *ReconciliationHandler) Forced(c *gin.Context) {
	var req dto.ForcedReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	result, err := h.svc.RunForced(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReconciliationHandler) respondError(c *gin.Context, err error) {
	switch err {
	case service.ErrTeamRequired, service.ErrDateRequired, service.ErrDateFormat,
		service.ErrDateInFuture, service.ErrRangeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case service.ErrTeamNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		h.logger.Error("reconciliation run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
