package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"turnario/backend/internal/model"
)

// ScheduleRepository reads published planned slots. The reconciliation
// engine never writes to the schedule.
type ScheduleRepository interface {
	// GetPublishedSlot returns the team's slot on a date, or nil when no
	// published period covers it.
	GetPublishedSlot(ctx context.Context, teamID, date string) (*model.PlannedSlot, error)
	ListPublishedSlots(ctx context.Context, teamID, startDate, endDate string) ([]model.PlannedSlot, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func newScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetPublishedSlot(ctx context.Context, teamID, date string) (*model.PlannedSlot, error) {
	var slot model.PlannedSlot
	err := r.db.WithContext(ctx).
		Joins("JOIN schedule_periods ON schedule_periods.period_id = planned_slots.period_id").
		Where("planned_slots.team_id = ? AND planned_slots.date = ?", teamID, date).
		Where("schedule_periods.status = ?", model.PeriodStatusPublished).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleRepository) ListPublishedSlots(ctx context.Context, teamID, startDate, endDate string) ([]model.PlannedSlot, error) {
	var slots []model.PlannedSlot
	err := r.db.WithContext(ctx).
		Joins("JOIN schedule_periods ON schedule_periods.period_id = planned_slots.period_id").
		Where("planned_slots.team_id = ?", teamID).
		Where("planned_slots.date BETWEEN ? AND ?", startDate, endDate).
		Where("schedule_periods.status = ?", model.PeriodStatusPublished).
		Order("planned_slots.date").
		Find(&slots).Error
	return slots, err
}
