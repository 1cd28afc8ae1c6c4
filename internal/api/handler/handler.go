package handler

import (
	"go.uber.org/zap"

	"turnario/backend/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Reconciliation *ReconciliationHandler
	Justification  *JustificationHandler
	Overtime       *OvertimeHandler
	Report         *ReportHandler
	Export         *ExportHandler
}

func New(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Reconciliation: &ReconciliationHandler{svc: svc.Reconciliation, logger: logger},
		Justification:  &JustificationHandler{svc: svc.Justification},
		Overtime:       &OvertimeHandler{svc: svc.Overtime},
		Report:         &ReportHandler{svc: svc.Report},
		Export:         &ExportHandler{svc: svc.Export},
	}
}
