package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"turnario/backend/internal/model"
	pkgerrors "turnario/backend/pkg/errors"
)

// AbsenceFilter narrows absence listings.
type AbsenceFilter struct {
	Status    string
	TeamID    string
	WorkerID  string
	StartDate string
	EndDate   string
	Offset    int
	Limit     int
}

// AbsenceRepository persists derived absence records.
type AbsenceRepository interface {
	// UpsertPending inserts a new pending absence, doing nothing when a
	// live row for the worker/date already exists. Reports whether a row
	// was created.
	UpsertPending(ctx context.Context, absence *model.Absence) (bool, error)

	GetByID(ctx context.Context, absenceID string) (*model.Absence, error)
	List(ctx context.Context, filter AbsenceFilter) ([]model.Absence, int64, error)
	ListByTeamDate(ctx context.Context, teamID, date string) ([]model.Absence, error)
	ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.Absence, error)
	ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.Absence, error)

	// ReversePending soft-deletes the live pending absence for a
	// worker/date, if any. Adjudicated and under-review rows are left
	// untouched. Reports whether a row was reversed.
	ReversePending(ctx context.Context, workerID, date string, deletedBy *string) (bool, error)

	// UpdateStatus moves an absence between statuses under optimistic
	// locking. Returns ErrOptimisticLock when the version moved.
	UpdateStatus(ctx context.Context, absenceID string, status string, version int, updatedBy *string) error

	// ExistsAny reports whether any absence row, live or reversed, was
	// ever produced for the team/date. Used to probe whether a day was
	// already reconciled.
	ExistsAny(ctx context.Context, teamID, date string) (bool, error)
}

type absenceRepository struct {
	db *gorm.DB
}

func newAbsenceRepository(db *gorm.DB) AbsenceRepository {
	return &absenceRepository{db: db}
}

func (r *absenceRepository) UpsertPending(ctx context.Context, absence *model.Absence) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "worker_id"}, {Name: "date"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
		DoNothing:   true,
	}).Create(absence)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *absenceRepository) GetByID(ctx context.Context, absenceID string) (*model.Absence, error) {
	var absence model.Absence
	if err := r.db.WithContext(ctx).First(&absence, "absence_id = ?", absenceID).Error; err != nil {
		return nil, err
	}
	return &absence, nil
}

func (r *absenceRepository) List(ctx context.Context, filter AbsenceFilter) ([]model.Absence, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Absence{})
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

	var absences []model.Absence
	err := query.Order("date DESC, created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&absences).Error
	return absences, total, err
}

func (r *absenceRepository) ListByTeamDate(ctx context.Context, teamID, date string) ([]model.Absence, error) {
	var absences []model.Absence
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND date = ?", teamID, date).
		Find(&absences).Error
	return absences, err
}

func (r *absenceRepository) ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.Absence, error) {
	var absences []model.Absence
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND date BETWEEN ? AND ?", teamID, startDate, endDate).
		Order("date").
		Find(&absences).Error
	return absences, err
}

func (r *absenceRepository) ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.Absence, error) {
	var absences []model.Absence
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, startDate, endDate).
		Order("date").
		Find(&absences).Error
	return absences, err
}

func (r *absenceRepository) ReversePending(ctx context.Context, workerID, date string, deletedBy *string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Absence{}).
		Where("worker_id = ? AND date = ? AND status = ?", workerID, date, model.AbsenceStatusPending).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *absenceRepository) UpdateStatus(ctx context.Context, absenceID string, status string, version int, updatedBy *string) error {
	result := r.db.WithContext(ctx).Model(&model.Absence{}).
		Where("absence_id = ? AND version = ?", absenceID, version).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    version + 1,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *absenceRepository) ExistsAny(ctx context.Context, teamID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Absence{}).
		Where("team_id = ? AND date = ?", teamID, date).
		Count(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return count > 0, nil
}
