package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"turnario/backend/config"
	"turnario/backend/internal/api/handler"
	"turnario/backend/internal/api/middleware"
	"turnario/backend/pkg/jwt"
)

// New builds the gin engine with all routes mounted.
func New(h *handler.Handler, jwtManager *jwt.Manager, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Operational trigger surface: loopback only, no operator token.
	recon := v1.Group("/reconciliation", middleware.LocalOnly())
	{
		recon.POST("/manual", h.Reconciliation.Manual)
		recon.POST("/forced", h.Reconciliation.Forced)
	}

	// Adjudication and reporting surface: operator token required.
	authed := v1.Group("", middleware.Auth(jwtManager))
	{
		authed.POST("/justifications", h.Justification.Submit)
		authed.GET("/justifications", h.Justification.List)
		authed.GET("/justifications/:id", h.Justification.Get)
		authed.POST("/justifications/:id/approve", h.Justification.Approve)
		authed.POST("/justifications/:id/reject", h.Justification.Reject)

		authed.GET("/overtimes", h.Overtime.List)
		authed.GET("/overtimes/:id", h.Overtime.Get)
		authed.POST("/overtimes/:id/approve", h.Overtime.Approve)
		authed.POST("/overtimes/:id/reject", h.Overtime.Reject)

		authed.GET("/absences", h.Report.ListAbsences)
		authed.GET("/consolidated/worker/:id", h.Report.WorkerConsolidated)
		authed.GET("/consolidated/team/:id", h.Report.TeamConsolidated)
		authed.GET("/adherence/team/:id", h.Report.TeamAdherence)

		authed.GET("/export/adherence/team/:id", h.Export.AdherenceXLSX)
		authed.GET("/export/team/:id/schedule.ics", h.Export.ScheduleICS)
	}

	return r
}
