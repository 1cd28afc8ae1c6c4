package service

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"turnario/backend/internal/model"
	"turnario/backend/internal/repository"
	pkgerrors "turnario/backend/pkg/errors"
)

// In-memory repositories backing the service tests. Transaction on a
// nil-db Repository runs the callback directly, so the mocks need no
// transactional bookkeeping.

func newMockRepository() (*repository.Repository, *mockStore) {
	store := &mockStore{
		teams:   map[string]model.Team{},
		workers: map[string]model.Worker{},
	}
	repo := &repository.Repository{
		Team:          &mockTeamRepo{store: store},
		Schedule:      &mockScheduleRepo{store: store},
		Shift:         &mockShiftRepo{store: store},
		Absence:       &mockAbsenceRepo{store: store},
		Overtime:      &mockOvertimeRepo{store: store},
		Justification: &mockJustificationRepo{store: store},
	}
	return repo, store
}

type mockStore struct {
	mu sync.Mutex

	teams          map[string]model.Team
	workers        map[string]model.Worker
	slots          []model.PlannedSlot
	shifts         []model.ActualShift
	absences       []*model.Absence
	overtimes      []*model.Overtime
	justifications []*model.Justification

	seq int
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func liveAbsence(a *model.Absence) bool { return !a.DeletedAt.Valid }

// ── teams ──

type mockTeamRepo struct{ store *mockStore }

func (r *mockTeamRepo) GetByID(_ context.Context, teamID string) (*model.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	team, ok := r.store.teams[teamID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &team, nil
}

func (r *mockTeamRepo) ListActive(_ context.Context) ([]model.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var teams []model.Team
	for _, t := range r.store.teams {
		if t.Active {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (r *mockTeamRepo) ListWorkers(_ context.Context, teamID string) ([]model.Worker, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var workers []model.Worker
	for _, w := range r.store.workers {
		if w.TeamID == teamID && w.Active {
			workers = append(workers, w)
		}
	}
	return workers, nil
}

func (r *mockTeamRepo) GetWorker(_ context.Context, workerID string) (*model.Worker, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	worker, ok := r.store.workers[workerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &worker, nil
}

// ── schedule ──

type mockScheduleRepo struct{ store *mockStore }

func (r *mockScheduleRepo) GetPublishedSlot(_ context.Context, teamID, date string) (*model.PlannedSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.slots {
		if s.TeamID == teamID && s.Date == date {
			slot := s
			return &slot, nil
		}
	}
	return nil, nil
}

func (r *mockScheduleRepo) ListPublishedSlots(_ context.Context, teamID, startDate, endDate string) ([]model.PlannedSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var slots []model.PlannedSlot
	for _, s := range r.store.slots {
		if s.TeamID == teamID && s.Date >= startDate && s.Date <= endDate {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

// ── shifts ──

type mockShiftRepo struct{ store *mockStore }

func (r *mockShiftRepo) ListByTeamDate(_ context.Context, teamID, date string) ([]model.ActualShift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var shifts []model.ActualShift
	for _, sh := range r.store.shifts {
		if sh.TeamID == teamID && sh.Date == date {
			shifts = append(shifts, sh)
		}
	}
	return shifts, nil
}

func (r *mockShiftRepo) ListByTeamRange(_ context.Context, teamID, startDate, endDate string) ([]model.ActualShift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var shifts []model.ActualShift
	for _, sh := range r.store.shifts {
		if sh.TeamID == teamID && sh.Date >= startDate && sh.Date <= endDate {
			shifts = append(shifts, sh)
		}
	}
	return shifts, nil
}

func (r *mockShiftRepo) ListByWorkerRange(_ context.Context, workerID, startDate, endDate string) ([]model.ActualShift, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var shifts []model.ActualShift
	for _, sh := range r.store.shifts {
		if sh.WorkerID == workerID && sh.Date >= startDate && sh.Date <= endDate {
			shifts = append(shifts, sh)
		}
	}
	return shifts, nil
}

// ── absences ──

type mockAbsenceRepo struct{ store *mockStore }

func (r *mockAbsenceRepo) UpsertPending(_ context.Context, absence *model.Absence) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.absences {
		if liveAbsence(a) && a.WorkerID == absence.WorkerID && a.Date == absence.Date {
			return false, nil
		}
	}
	absence.AbsenceID = r.store.nextID("abs")
	r.store.absences = append(r.store.absences, absence)
	return true, nil
}

func (r *mockAbsenceRepo) GetByID(_ context.Context, absenceID string) (*model.Absence, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.absences {
		if a.AbsenceID == absenceID && liveAbsence(a) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAbsenceRepo) List(_ context.Context, filter repository.AbsenceFilter) ([]model.Absence, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Absence
	for _, a := range r.store.absences {
		if !liveAbsence(a) {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.TeamID != "" && a.TeamID != filter.TeamID {
			continue
		}
		if filter.WorkerID != "" && a.WorkerID != filter.WorkerID {
			continue
		}
		if filter.StartDate != "" && a.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && a.Date > filter.EndDate {
			continue
		}
		matched = append(matched, *a)
	}
	return matched, int64(len(matched)), nil
}

func (r *mockAbsenceRepo) ListByTeamDate(_ context.Context, teamID, date string) ([]model.Absence, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Absence
	for _, a := range r.store.absences {
		if liveAbsence(a) && a.TeamID == teamID && a.Date == date {
			matched = append(matched, *a)
		}
	}
	return matched, nil
}

func (r *mockAbsenceRepo) ListByTeamRange(_ context.Context, teamID, startDate, endDate string) ([]model.Absence, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Absence
	for _, a := range r.store.absences {
		if liveAbsence(a) && a.TeamID == teamID && a.Date >= startDate && a.Date <= endDate {
			matched = append(matched, *a)
		}
	}
	return matched, nil
}

func (r *mockAbsenceRepo) ListByWorkerRange(_ context.Context, workerID, startDate, endDate string) ([]model.Absence, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Absence
	for _, a := range r.store.absences {
		if liveAbsence(a) && a.WorkerID == workerID && a.Date >= startDate && a.Date <= endDate {
			matched = append(matched, *a)
		}
	}
	return matched, nil
}

func (r *mockAbsenceRepo) ReversePending(_ context.Context, workerID, date string, deletedBy *string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.absences {
		if liveAbsence(a) && a.WorkerID == workerID && a.Date == date && a.Status == model.AbsenceStatusPending {
			a.DeletedAt.Valid = true
			a.DeletedBy = deletedBy
			return true, nil
		}
	}
	return false, nil
}

func (r *mockAbsenceRepo) UpdateStatus(_ context.Context, absenceID string, status string, version int, updatedBy *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.absences {
		if a.AbsenceID == absenceID && liveAbsence(a) {
			if a.Version != version {
				return pkgerrors.ErrOptimisticLock
			}
			a.Status = status
			a.Version = version + 1
			a.UpdatedBy = updatedBy
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (r *mockAbsenceRepo) ExistsAny(_ context.Context, teamID, date string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.absences {
		if a.TeamID == teamID && a.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// ── overtimes ──

type mockOvertimeRepo struct{ store *mockStore }

func (r *mockOvertimeRepo) UpsertPending(_ context.Context, overtime *model.Overtime) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.overtimes {
		if !o.DeletedAt.Valid && o.WorkerID == overtime.WorkerID && o.Date == overtime.Date {
			return false, nil
		}
	}
	overtime.OvertimeID = r.store.nextID("ot")
	r.store.overtimes = append(r.store.overtimes, overtime)
	return true, nil
}

func (r *mockOvertimeRepo) RefreshHoursWhilePending(_ context.Context, workerID, date string, plannedHours, actualHours, diffHours float64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.overtimes {
		if !o.DeletedAt.Valid && o.WorkerID == workerID && o.Date == date && o.Status == model.OvertimeStatusPending {
			o.PlannedHours = plannedHours
			o.ActualHours = actualHours
			o.DiffHours = diffHours
			return true, nil
		}
	}
	return false, nil
}

func (r *mockOvertimeRepo) GetByID(_ context.Context, overtimeID string) (*model.Overtime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.overtimes {
		if o.OvertimeID == overtimeID && !o.DeletedAt.Valid {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockOvertimeRepo) List(_ context.Context, filter repository.OvertimeFilter) ([]model.Overtime, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Overtime
	for _, o := range r.store.overtimes {
		if o.DeletedAt.Valid {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.TeamID != "" && o.TeamID != filter.TeamID {
			continue
		}
		if filter.WorkerID != "" && o.WorkerID != filter.WorkerID {
			continue
		}
		if filter.StartDate != "" && o.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && o.Date > filter.EndDate {
			continue
		}
		matched = append(matched, *o)
	}
	return matched, int64(len(matched)), nil
}

func (r *mockOvertimeRepo) ListByTeamRange(_ context.Context, teamID, startDate, endDate string) ([]model.Overtime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Overtime
	for _, o := range r.store.overtimes {
		if !o.DeletedAt.Valid && o.TeamID == teamID && o.Date >= startDate && o.Date <= endDate {
			matched = append(matched, *o)
		}
	}
	return matched, nil
}

func (r *mockOvertimeRepo) ListByWorkerRange(_ context.Context, workerID, startDate, endDate string) ([]model.Overtime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Overtime
	for _, o := range r.store.overtimes {
		if !o.DeletedAt.Valid && o.WorkerID == workerID && o.Date >= startDate && o.Date <= endDate {
			matched = append(matched, *o)
		}
	}
	return matched, nil
}

func (r *mockOvertimeRepo) Decide(_ context.Context, overtimeID, status string, version int, decidedBy *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.overtimes {
		if o.OvertimeID == overtimeID && !o.DeletedAt.Valid {
			if o.Version != version {
				return pkgerrors.ErrOptimisticLock
			}
			o.Status = status
			o.Version = version + 1
			o.DecidedBy = decidedBy
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (r *mockOvertimeRepo) ExistsAny(_ context.Context, teamID, date string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.overtimes {
		if o.TeamID == teamID && o.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// ── justifications ──

type mockJustificationRepo struct{ store *mockStore }

func (r *mockJustificationRepo) Create(_ context.Context, justification *model.Justification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	justification.JustificationID = r.store.nextID("just")
	r.store.justifications = append(r.store.justifications, justification)
	return nil
}

func (r *mockJustificationRepo) GetByID(_ context.Context, justificationID string) (*model.Justification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, j := range r.store.justifications {
		if j.JustificationID == justificationID {
			copied := *j
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockJustificationRepo) GetPendingByAbsence(_ context.Context, absenceID string) (*model.Justification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, j := range r.store.justifications {
		if j.AbsenceID != nil && *j.AbsenceID == absenceID && j.Status == model.JustificationStatusPending {
			copied := *j
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *mockJustificationRepo) List(_ context.Context, filter repository.JustificationFilter) ([]model.Justification, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.Justification
	for _, j := range r.store.justifications {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.TeamID != "" && (j.TeamID == nil || *j.TeamID != filter.TeamID) {
			continue
		}
		if filter.Kind != "" && j.Kind != filter.Kind {
			continue
		}
		matched = append(matched, *j)
	}
	return matched, int64(len(matched)), nil
}

func (r *mockJustificationRepo) Decide(_ context.Context, justificationID, status string, version int, decidedBy *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, j := range r.store.justifications {
		if j.JustificationID == justificationID {
			if j.Version != version {
				return pkgerrors.ErrOptimisticLock
			}
			j.Status = status
			j.Version = version + 1
			j.DecidedBy = decidedBy
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}
