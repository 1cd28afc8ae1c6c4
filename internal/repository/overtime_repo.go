package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"turnario/backend/internal/model"
	pkgerrors "turnario/backend/pkg/errors"
)

// OvertimeFilter narrows overtime listings.
type OvertimeFilter struct {
	Status    string
	TeamID    string
	WorkerID  string
	StartDate string
	EndDate   string
	Offset    int
	Limit     int
}

// OvertimeRepository persists derived overtime records.
type OvertimeRepository interface {
	// UpsertPending inserts a new pending overtime, doing nothing when a
	// live row for the worker/date already exists. Reports whether a row
	// was created.
	UpsertPending(ctx context.Context, overtime *model.Overtime) (bool, error)

	// RefreshHoursWhilePending rewrites the hour figures of a live
	// pending row. Decided rows are never rewritten. Reports whether a
	// row was updated.
	RefreshHoursWhilePending(ctx context.Context, workerID, date string, plannedHours, actualHours, diffHours float64) (bool, error)

	GetByID(ctx context.Context, overtimeID string) (*model.Overtime, error)
	List(ctx context.Context, filter OvertimeFilter) ([]model.Overtime, int64, error)
	ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.Overtime, error)
	ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.Overtime, error)

	// Decide moves an overtime to approved or rejected under optimistic
	// locking. Returns ErrOptimisticLock when the version moved.
	Decide(ctx context.Context, overtimeID, status string, version int, decidedBy *string) error

	// ExistsAny reports whether any overtime row, live or deleted, was
	// ever produced for the team/date.
	ExistsAny(ctx context.Context, teamID, date string) (bool, error)
}

type overtimeRepository struct {
	db *gorm.DB
}

func newOvertimeRepository(db *gorm.DB) OvertimeRepository {
	return &overtimeRepository{db: db}
}

func (r *overtimeRepository) UpsertPending(ctx context.Context, overtime *model.Overtime) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "worker_id"}, {Name: "date"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
		DoNothing:   true,
	}).Create(overtime)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *overtimeRepository) RefreshHoursWhilePending(ctx context.Context, workerID, date string, plannedHours, actualHours, diffHours float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Overtime{}).
		Where("worker_id = ? AND date = ? AND status = ?", workerID, date, model.OvertimeStatusPending).
		Updates(map[string]interface{}{
			"planned_hours": plannedHours,
			"actual_hours":  actualHours,
			"diff_hours":    diffHours,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, overtimeID string) (*model.Overtime, error) {
	var overtime model.Overtime
	if err := r.db.WithContext(ctx).First(&overtime, "overtime_id = ?", overtimeID).Error; err != nil {
		return nil, err
	}
	return &overtime, nil
}

func (r *overtimeRepository) List(ctx context.Context, filter OvertimeFilter) ([]model.Overtime, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Overtime{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TeamID != "" {
		query = query.Where("team_id = ?", filter.TeamID)
	}
	if filter.WorkerID != "" {
		query = query.Where("worker_id = ?", filter.WorkerID)
	}
	if filter.StartDate != "" {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("date <= ?", filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var overtimes []model.Overtime
	err := query.Order("date DESC, created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&overtimes).Error
	return overtimes, total, err
}

func (r *overtimeRepository) ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.Overtime, error) {
	var overtimes []model.Overtime
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND date BETWEEN ? AND ?", teamID, startDate, endDate).
		Order("date").
		Find(&overtimes).Error
	return overtimes, err
}

func (r *overtimeRepository) ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.Overtime, error) {
	var overtimes []model.Overtime
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, startDate, endDate).
		Order("date").
		Find(&overtimes).Error
	return overtimes, err
}

func (r *overtimeRepository) Decide(ctx context.Context, overtimeID, status string, version int, decidedBy *string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Overtime{}).
		Where("overtime_id = ? AND version = ?", overtimeID, version).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    version + 1,
			"decided_by": decidedBy,
			"decided_at": now,
			"updated_by": decidedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *overtimeRepository) ExistsAny(ctx context.Context, teamID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Overtime{}).
		Where("team_id = ? AND date = ?", teamID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
