package service

import (
	"go.uber.org/zap"

	"turnario/backend/config"
	"turnario/backend/internal/repository"
	"turnario/backend/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Reconciliation *ReconciliationService
	Justification  *JustificationService
	Overtime       *OvertimeService
	Report         *ReportService
	Export         *ExportService
}

// New wires the services over one repository aggregate. rdb may be nil;
// everything that uses run markers degrades to database probing.
func New(repo *repository.Repository, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	report := NewReportService(repo, logger)
	return &Service{
		Reconciliation: NewReconciliationService(repo, rdb, &cfg.Recon, logger),
		Justification:  NewJustificationService(repo, logger),
		Overtime:       NewOvertimeService(repo, logger),
		Report:         report,
		Export:         NewExportService(repo, report, logger),
	}
}
