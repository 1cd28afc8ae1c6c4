package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"turnario/backend/config"
	"turnario/backend/internal/dto"
	"turnario/backend/internal/model"
	"turnario/backend/internal/recon"
	"turnario/backend/internal/repository"
	"turnario/backend/pkg/redis"
)

var (
	ErrTeamRequired = errors.New("a team id is required unless all teams are selected")
	ErrDateRequired = errors.New("a reference date is required")
	ErrDateFormat   = errors.New("dates must use the YYYY-MM-DD format")
	ErrDateInFuture = errors.New("the reference date must not be in the future")
	ErrRangeInvalid = errors.New("the start date must not be after the end date")
	ErrTeamNotFound = errors.New("team not found")
)

// ReconciliationService matches planned slots against actual shift events
// and persists the derived absence and overtime records. Runs are split
// into (team, date) units executed by a bounded worker pool; a unit
// failure never aborts the other units.
type ReconciliationService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	cfg    *config.ReconConfig
	logger *zap.Logger
	loc    *time.Location

	// now is swappable in tests.
	now func() time.Time
}

func NewReconciliationService(repo *repository.Repository, rdb *redis.Client, cfg *config.ReconConfig, logger *zap.Logger) *ReconciliationService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &ReconciliationService{
		repo:   repo,
		rdb:    rdb,
		cfg:    cfg,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// unit is one (team, date) reconciliation job.
type unit struct {
	teamID string
	date   string
}

// ── entry points ──

// RunManual reconciles one team, or every active team, on one date.
func (s *ReconciliationService) RunManual(ctx context.Context, req dto.ManualReconciliationRequest, actor model.Actor) (*dto.BatchResult, error) {
	if req.DataReferencia == "" {
		return nil, ErrDateRequired
	}
	date, err := time.ParseInLocation(model.DateLayout, req.DataReferencia, s.loc)
	if err != nil {
		return nil, ErrDateFormat
	}
	if date.After(s.today()) {
		return nil, ErrDateInFuture
	}

	teams, err := s.resolveTeams(ctx, req.EquipeID, req.TodasEquipes)
	if err != nil {
		return nil, err
	}

	units := make([]unit, 0, len(teams))
	for _, teamID := range teams {
		units = append(units, unit{teamID: teamID, date: req.DataReferencia})
	}
	return s.runBatch(ctx, units, false, actor), nil
}

// RunForced sweeps a historical window, skipping days that were already
// reconciled and widening the matching window on the days it recomputes.
// Without a team filter the sweep covers every active team.
func (s *ReconciliationService) RunForced(ctx context.Context, req dto.ForcedReconciliationRequest, actor model.Actor) (*dto.BatchResult, error) {
	start, end, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	teams, err := s.resolveTeams(ctx, req.EquipeID, req.EquipeID == "")
	if err != nil {
		return nil, err
	}

	var units []unit
	for _, teamID := range teams {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			units = append(units, unit{teamID: teamID, date: d.Format(model.DateLayout)})
		}
	}
	return s.runBatch(ctx, units, true, actor), nil
}

// RunScheduled reconciles yesterday for every active team. Invoked by the
// nightly scheduler; days that already carry a run marker are skipped so
// a restarted process does not reprocess them.
func (s *ReconciliationService) RunScheduled(ctx context.Context) (*dto.BatchResult, error) {
	yesterday := s.today().AddDate(0, 0, -1).Format(model.DateLayout)

	teams, err := s.resolveTeams(ctx, "", true)
	if err != nil {
		return nil, err
	}

	units := make([]unit, 0, len(teams))
	for _, teamID := range teams {
		if s.rdb.IsReconciled(ctx, teamID, yesterday) {
			continue
		}
		units = append(units, unit{teamID: teamID, date: yesterday})
	}
	return s.runBatch(ctx, units, false, model.SystemActor("scheduler")), nil
}

// ── batch execution ──

func (s *ReconciliationService) runBatch(ctx context.Context, units []unit, forced bool, actor model.Actor) *dto.BatchResult {
	results := make([]dto.UnitResult, len(units))

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, u := range units {
		if ctx.Err() != nil {
			results[i] = dto.UnitResult{
				EquipeID:       u.teamID,
				DataReferencia: u.date,
				Erro:           ctx.Err().Error(),
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u unit) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.reconcileUnit(ctx, u, forced, actor)
		}(i, u)
	}
	wg.Wait()

	batch := &dto.BatchResult{Resultados: results}
	teams := map[string]struct{}{}
	days := map[string]struct{}{}
	for _, r := range results {
		teams[r.EquipeID] = struct{}{}
		days[r.DataReferencia] = struct{}{}
		if r.Sucesso {
			batch.Sucessos++
		} else {
			batch.Erros++
		}
	}
	batch.EquipesProcessadas = len(teams)
	batch.DiasProcessados = len(days)
	batch.Success = batch.Erros == 0
	if batch.Success {
		batch.Message = "reconciliation completed"
	} else {
		batch.Message = fmt.Sprintf("reconciliation completed with %d failed unit(s)", batch.Erros)
	}
	return batch
}

// reconcileUnit runs one (team, date) unit inside its own transaction. A
// panic is contained and reported as that unit's failure.
func (s *ReconciliationService) reconcileUnit(ctx context.Context, u unit, forced bool, actor model.Actor) (result dto.UnitResult) {
	result = dto.UnitResult{EquipeID: u.teamID, DataReferencia: u.date}

	defer func() {
		if r := recover(); r != nil {
			result.Sucesso = false
			result.Erro = fmt.Sprintf("panic: %v", r)
			s.logger.Error("reconciliation unit panicked",
				zap.String("team_id", u.teamID),
				zap.String("date", u.date),
				zap.Any("panic", r),
			)
		}
	}()

	if forced {
		done, err := s.alreadyReconciled(ctx, u)
		if err != nil {
			result.Erro = err.Error()
			return result
		}
		if done {
			result.Sucesso = true
			result.Ignorada = true
			return result
		}
	}

	slot, err := s.repo.Schedule.GetPublishedSlot(ctx, u.teamID, u.date)
	if err != nil {
		result.Erro = err.Error()
		return result
	}
	if slot == nil {
		// Nothing planned, nothing to reconcile.
		result.Sucesso = true
		return result
	}

	roster, err := s.repo.Team.ListWorkers(ctx, u.teamID)
	if err != nil {
		result.Erro = err.Error()
		return result
	}

	shifts, err := s.repo.Shift.ListByTeamDate(ctx, u.teamID, u.date)
	if err != nil {
		result.Erro = err.Error()
		return result
	}

	outcomes, err := s.match(slot, roster, shifts, forced)
	if err != nil {
		result.Erro = err.Error()
		return result
	}

	var absences, overtimes, reversed int
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, out := range outcomes {
			created, reverted, txErr := s.persistOutcome(ctx, tx, u, slot, out, actor)
			if txErr != nil {
				return txErr
			}
			switch out.Kind {
			case recon.OutcomeNoShow:
				if created {
					absences++
				}
			case recon.OutcomeOvertime:
				if created {
					overtimes++
				}
			}
			if reverted {
				reversed++
			}
		}
		return nil
	})
	if err != nil {
		result.Erro = err.Error()
		return result
	}

	if err := s.rdb.MarkReconciled(ctx, u.teamID, u.date, s.cfg.MarkerTTL); err != nil {
		s.logger.Warn("failed to set reconciliation marker",
			zap.String("team_id", u.teamID),
			zap.String("date", u.date),
			zap.Error(err),
		)
	}

	result.Sucesso = true
	result.Ausencias = absences
	result.HorasExtras = overtimes
	result.Revertidas = reversed
	s.logger.Info("reconciliation unit done",
		zap.String("team_id", u.teamID),
		zap.String("date", u.date),
		zap.Bool("forced", forced),
		zap.Int("absences", absences),
		zap.Int("overtimes", overtimes),
		zap.Int("reversed", reversed),
	)
	return result
}

func (s *ReconciliationService) match(slot *model.PlannedSlot, roster []model.Worker, shifts []model.ActualShift, forced bool) ([]recon.WorkerOutcome, error) {
	start, err := slot.StartAt(s.loc)
	if err != nil {
		return nil, fmt.Errorf("resolving slot start: %w", err)
	}

	rSlot := recon.Slot{Start: start, DurationMinutes: slot.DurationMinutes()}
	workerIDs := make([]string, 0, len(roster))
	for _, w := range roster {
		workerIDs = append(workerIDs, w.WorkerID)
	}
	rShifts := make([]recon.Shift, 0, len(shifts))
	for _, sh := range shifts {
		rShifts = append(rShifts, recon.Shift{
			WorkerID: sh.WorkerID,
			OpenedAt: sh.OpenedAt,
			ClosedAt: sh.ClosedAt,
		})
	}

	pol := recon.Policy{
		ToleranceMinutes:         s.cfg.ToleranceMinutes,
		OvertimeThresholdMinutes: s.cfg.OvertimeThresholdMinutes,
		Forced:                   forced,
	}
	return recon.Match(rSlot, workerIDs, rShifts, pol), nil
}

// persistOutcome writes one worker verdict. Absence and overtime inserts
// are idempotent on (worker, date); a verdict that clears the worker
// reverses any stale pending absence from an earlier run.
func (s *ReconciliationService) persistOutcome(ctx context.Context, tx *repository.Repository, u unit, slot *model.PlannedSlot, out recon.WorkerOutcome, actor model.Actor) (created, reverted bool, err error) {
	switch out.Kind {
	case recon.OutcomeNoShow:
		created, err = tx.Absence.UpsertPending(ctx, &model.Absence{
			WorkerID:     out.WorkerID,
			TeamID:       u.teamID,
			Date:         u.date,
			Status:       model.AbsenceStatusPending,
			SystemReason: out.Reason,
			VersionedModel: model.VersionedModel{
				SoftDeleteModel: model.SoftDeleteModel{
					BaseModel: model.BaseModel{CreatedBy: actor.IDRef(), UpdatedBy: actor.IDRef()},
				},
				Version: 1,
			},
		})
		return created, false, err

	case recon.OutcomeOvertime:
		planned := slot.DurationHours
		actual := float64(out.ActualMinutes) / 60
		diff := float64(out.OvertimeMinutes) / 60
		created, err = tx.Overtime.UpsertPending(ctx, &model.Overtime{
			WorkerID:     out.WorkerID,
			TeamID:       u.teamID,
			Date:         u.date,
			PlannedHours: planned,
			ActualHours:  actual,
			DiffHours:    diff,
			Status:       model.OvertimeStatusPending,
			VersionedModel: model.VersionedModel{
				SoftDeleteModel: model.SoftDeleteModel{
					BaseModel: model.BaseModel{CreatedBy: actor.IDRef(), UpdatedBy: actor.IDRef()},
				},
				Version: 1,
			},
		})
		if err != nil {
			return false, false, err
		}
		if !created {
			// Undecided rows track the latest figures.
			if _, err = tx.Overtime.RefreshHoursWhilePending(ctx, out.WorkerID, u.date, planned, actual, diff); err != nil {
				return false, false, err
			}
		}
		// A worker now flagged as overtime clearly worked the day.
		reverted, err = tx.Absence.ReversePending(ctx, out.WorkerID, u.date, actor.IDRef())
		return created, reverted, err

	case recon.OutcomeHonored, recon.OutcomeEarlyClose:
		reverted, err = tx.Absence.ReversePending(ctx, out.WorkerID, u.date, actor.IDRef())
		return false, reverted, err
	}
	return false, false, nil
}

// ── helpers ──

func (s *ReconciliationService) resolveTeams(ctx context.Context, teamID string, allTeams bool) ([]string, error) {
	if allTeams {
		teams, err := s.repo.Team.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(teams))
		for _, t := range teams {
			ids = append(ids, t.TeamID)
		}
		sort.Strings(ids)
		return ids, nil
	}
	if teamID == "" {
		return nil, ErrTeamRequired
	}
	if _, err := s.repo.Team.GetByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	return []string{teamID}, nil
}

func (s *ReconciliationService) resolveRange(req dto.ForcedReconciliationRequest) (time.Time, time.Time, error) {
	today := s.today()

	if req.DataInicio != "" || req.DataFim != "" {
		start, err := time.ParseInLocation(model.DateLayout, req.DataInicio, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrDateFormat
		}
		end, err := time.ParseInLocation(model.DateLayout, req.DataFim, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrDateFormat
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, ErrRangeInvalid
		}
		if end.After(today) {
			end = today
		}
		return start, end, nil
	}

	days := req.DiasHistorico
	if days <= 0 {
		days = s.cfg.ForcedLookbackDays
	}
	return today.AddDate(0, 0, -(days - 1)), today, nil
}

// alreadyReconciled probes the run marker first and falls back to the
// derived tables.
func (s *ReconciliationService) alreadyReconciled(ctx context.Context, u unit) (bool, error) {
	if s.rdb.IsReconciled(ctx, u.teamID, u.date) {
		return true, nil
	}
	if exists, err := s.repo.Absence.ExistsAny(ctx, u.teamID, u.date); err != nil || exists {
		return exists, err
	}
	return s.repo.Overtime.ExistsAny(ctx, u.teamID, u.date)
}

func (s *ReconciliationService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}
