package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all data access interfaces. Services depend on
// this struct so tests can swap in in-memory implementations.
type Repository struct {
	db *gorm.DB

	Team          TeamRepository
	Schedule      ScheduleRepository
	Shift         ActualShiftRepository
	Absence       AbsenceRepository
	Overtime      OvertimeRepository
	Justification JustificationRepository
}

// New wires the gorm-backed repositories.
func New(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Team:          newTeamRepository(db),
		Schedule:      newScheduleRepository(db),
		Shift:         newActualShiftRepository(db),
		Absence:       newAbsenceRepository(db),
		Overtime:      newOvertimeRepository(db),
		Justification: newJustificationRepository(db),
	}
}

// Transaction runs fn with every repository bound to one database
// transaction. A returned error rolls everything back.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		// In-memory test repositories have no transaction boundary.
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
