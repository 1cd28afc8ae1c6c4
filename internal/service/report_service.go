package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/model"
	"turnario/backend/internal/repository"
)

var ErrWorkerNotFound = errors.New("worker not found")

// ReportService builds consolidated and adherence views from the planned
// schedule and the derived records. All aggregation happens in memory
// over range queries; nothing here writes.
type ReportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewReportService(repo *repository.Repository, logger *zap.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// ListAbsences pages through the absence queue.
func (s *ReportService) ListAbsences(ctx context.Context, req dto.ListAbsencesRequest) ([]model.Absence, int64, error) {
	return s.repo.Absence.List(ctx, repository.AbsenceFilter{
		Status:    req.Status,
		TeamID:    req.TeamID,
		WorkerID:  req.WorkerID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
}

// WorkerConsolidated reports one worker's planned days against what the
// reconciliation engine derived for them.
func (s *ReportService) WorkerConsolidated(ctx context.Context, workerID, startDate, endDate string) (*dto.WorkerConsolidated, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	worker, err := s.repo.Team.GetWorker(ctx, workerID)
	if err != nil {
		return nil, ErrWorkerNotFound
	}

	slots, err := s.repo.Schedule.ListPublishedSlots(ctx, worker.TeamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	absences, err := s.repo.Absence.ListByWorkerRange(ctx, workerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	overtimes, err := s.repo.Overtime.ListByWorkerRange(ctx, workerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	shifts, err := s.repo.Shift.ListByWorkerRange(ctx, workerID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	absenceByDate := make(map[string]model.Absence, len(absences))
	for _, a := range absences {
		absenceByDate[a.Date] = a
	}
	overtimeByDate := make(map[string]model.Overtime, len(overtimes))
	for _, o := range overtimes {
		overtimeByDate[o.Date] = o
	}
	workedByDate := make(map[string]float64)
	for _, sh := range shifts {
		if sh.ClosedAt != nil {
			workedByDate[sh.Date] += sh.ClosedAt.Sub(sh.OpenedAt).Hours()
		}
	}

	report := &dto.WorkerConsolidated{
		WorkerID:  workerID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	for _, slot := range slots {
		entry := dto.DayEntry{
			Date:         slot.Date,
			WorkerID:     workerID,
			WorkerName:   worker.Name,
			PlannedHours: slot.DurationHours,
			ActualHours:  round2(workedByDate[slot.Date]),
		}
		report.PlannedDays++

		if a, ok := absenceByDate[slot.Date]; ok {
			entry.Status = "absence"
			entry.AbsenceStatus = a.Status
			report.AbsenceDays++
		} else {
			entry.Status = "honored"
			report.HonoredDays++
			if _, ok := overtimeByDate[slot.Date]; ok {
				entry.Status = "overtime"
				report.OvertimeDays++
			}
		}
		report.Days = append(report.Days, entry)
	}
	return report, nil
}

// TeamConsolidated reports every rostered worker of a team over a range.
func (s *ReportService) TeamConsolidated(ctx context.Context, teamID, startDate, endDate string) (*dto.TeamConsolidated, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if _, err := s.repo.Team.GetByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	roster, err := s.repo.Team.ListWorkers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.Schedule.ListPublishedSlots(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	absences, err := s.repo.Absence.ListByTeamRange(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	overtimes, err := s.repo.Overtime.ListByTeamRange(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	shifts, err := s.repo.Shift.ListByTeamRange(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	type key struct{ worker, date string }
	absenceBy := make(map[key]model.Absence, len(absences))
	for _, a := range absences {
		absenceBy[key{a.WorkerID, a.Date}] = a
	}
	overtimeBy := make(map[key]model.Overtime, len(overtimes))
	for _, o := range overtimes {
		overtimeBy[key{o.WorkerID, o.Date}] = o
	}
	workedBy := make(map[key]float64)
	for _, sh := range shifts {
		if sh.ClosedAt != nil {
			workedBy[key{sh.WorkerID, sh.Date}] += sh.ClosedAt.Sub(sh.OpenedAt).Hours()
		}
	}

	report := &dto.TeamConsolidated{
		TeamID:    teamID,
		StartDate: startDate,
		EndDate:   endDate,
		Workers:   len(roster),
	}
	for _, slot := range slots {
		for _, w := range roster {
			k := key{w.WorkerID, slot.Date}
			entry := dto.DayEntry{
				Date:         slot.Date,
				WorkerID:     w.WorkerID,
				WorkerName:   w.Name,
				PlannedHours: slot.DurationHours,
				ActualHours:  round2(workedBy[k]),
			}
			if a, ok := absenceBy[k]; ok {
				entry.Status = "absence"
				entry.AbsenceStatus = a.Status
			} else if _, ok := overtimeBy[k]; ok {
				entry.Status = "overtime"
			} else {
				entry.Status = "honored"
			}
			report.Days = append(report.Days, entry)
		}
	}
	return report, nil
}

// TeamAdherence computes the percentage of honored expectations over a
// range. One expectation is one rostered worker on one planned slot; an
// expectation counts as honored when no live absence record exists for
// it.
func (s *ReportService) TeamAdherence(ctx context.Context, teamID, startDate, endDate string) (*dto.TeamAdherence, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if _, err := s.repo.Team.GetByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	roster, err := s.repo.Team.ListWorkers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	slots, err := s.repo.Schedule.ListPublishedSlots(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	absences, err := s.repo.Absence.ListByTeamRange(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	absencesByDate := make(map[string]int, len(absences))
	for _, a := range absences {
		absencesByDate[a.Date]++
	}

	report := &dto.TeamAdherence{
		TeamID:    teamID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	for _, slot := range slots {
		planned := len(roster)
		honored := planned - absencesByDate[slot.Date]
		if honored < 0 {
			honored = 0
		}
		report.Planned += planned
		report.Honored += honored
		report.Days = append(report.Days, dto.AdherenceDay{
			Date:      slot.Date,
			Planned:   planned,
			Honored:   honored,
			Adherence: adherence(honored, planned),
		})
	}
	report.Adherence = adherence(report.Honored, report.Planned)
	return report, nil
}

func adherence(honored, planned int) float64 {
	if planned == 0 {
		return 0
	}
	return round2(float64(honored) / float64(planned) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateRange(startDate, endDate string) error {
	start, err := time.Parse(model.DateLayout, startDate)
	if err != nil {
		return ErrDateFormat
	}
	end, err := time.Parse(model.DateLayout, endDate)
	if err != nil {
		return ErrDateFormat
	}
	if start.After(end) {
		return ErrRangeInvalid
	}
	return nil
}
