package repository

import (
	"context"

	"gorm.io/gorm"

	"turnario/backend/internal/model"
)

// ActualShiftRepository reads field shift events.
type ActualShiftRepository interface {
	ListByTeamDate(ctx context.Context, teamID, date string) ([]model.ActualShift, error)
	ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.ActualShift, error)
	ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.ActualShift, error)
}

type actualShiftRepository struct {
	db *gorm.DB
}

func newActualShiftRepository(db *gorm.DB) ActualShiftRepository {
	return &actualShiftRepository{db: db}
}

func (r *actualShiftRepository) ListByTeamDate(ctx context.Context, teamID, date string) ([]model.ActualShift, error) {
	var shifts []model.ActualShift
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND date = ?", teamID, date).
		Order("opened_at").
		Find(&shifts).Error
	return shifts, err
}

func (r *actualShiftRepository) ListByTeamRange(ctx context.Context, teamID, startDate, endDate string) ([]model.ActualShift, error) {
	var shifts []model.ActualShift
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND date BETWEEN ? AND ?", teamID, startDate, endDate).
		Order("date, opened_at").
		Find(&shifts).Error
	return shifts, err
}

func (r *actualShiftRepository) ListByWorkerRange(ctx context.Context, workerID, startDate, endDate string) ([]model.ActualShift, error) {
	var shifts []model.ActualShift
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date BETWEEN ? AND ?", workerID, startDate, endDate).
		Order("date, opened_at").
		Find(&shifts).Error
	return shifts, err
}
