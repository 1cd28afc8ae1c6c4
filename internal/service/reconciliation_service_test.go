package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"turnario/backend/config"
	"turnario/backend/internal/dto"
	"turnario/backend/internal/model"
	"turnario/backend/internal/repository"
)

func testReconConfig() *config.ReconConfig {
	return &config.ReconConfig{
		ToleranceMinutes:         30,
		OvertimeThresholdMinutes: 15,
		ForcedLookbackDays:       30,
		Workers:                  2,
		Timezone:                 "UTC",
		MarkerTTL:                time.Hour,
	}
}

func newTestReconService(t *testing.T) (*ReconciliationService, *repository.Repository, *mockStore) {
	t.Helper()
	repo, store := newMockRepository()
	svc := NewReconciliationService(repo, nil, testReconConfig(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, store
}

func seedTeam(store *mockStore, teamID string, workerIDs ...string) {
	store.teams[teamID] = model.Team{TeamID: teamID, Name: "Team " + teamID, Active: true}
	for _, w := range workerIDs {
		store.workers[w] = model.Worker{WorkerID: w, TeamID: teamID, Name: "Worker " + w, Active: true}
	}
}

func seedSlot(store *mockStore, teamID, date, startTime string, hours float64) {
	store.slots = append(store.slots, model.PlannedSlot{
		SlotID:        store.nextID("slot"),
		TeamID:        teamID,
		Date:          date,
		StartTime:     startTime,
		DurationHours: hours,
	})
}

func seedShift(store *mockStore, teamID, workerID, date string, openedAt time.Time, workedMin int) {
	shift := model.ActualShift{
		ShiftID:  store.nextID("shift"),
		TeamID:   teamID,
		WorkerID: workerID,
		Date:     date,
		OpenedAt: openedAt,
	}
	if workedMin >= 0 {
		closed := openedAt.Add(time.Duration(workedMin) * time.Minute)
		shift.ClosedAt = &closed
	}
	store.shifts = append(store.shifts, shift)
}

func manualReq(teamID, date string) dto.ManualReconciliationRequest {
	return dto.ManualReconciliationRequest{EquipeID: teamID, DataReferencia: date}
}

var testActor = model.Actor{ID: "11111111-1111-1111-1111-111111111111", Name: "op", Kind: model.ActorKindOperator}

func TestRunManualDerivesRecords(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1", "w2", "w3")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)

	open := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	seedShift(store, "t1", "w1", "2026-03-10", open, 480) // honored
	seedShift(store, "t1", "w2", "2026-03-10", open, 600) // overtime
	// w3 has no shift: absence

	result, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor)
	if err != nil {
		t.Fatalf("RunManual: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false: %+v", result)
	}
	if result.Sucessos != 1 || result.Erros != 0 {
		t.Errorf("sucessos/erros = %d/%d, want 1/0", result.Sucessos, result.Erros)
	}

	unit := result.Resultados[0]
	if unit.Ausencias != 1 {
		t.Errorf("Ausencias = %d, want 1", unit.Ausencias)
	}
	if unit.HorasExtras != 1 {
		t.Errorf("HorasExtras = %d, want 1", unit.HorasExtras)
	}

	if len(store.absences) != 1 || store.absences[0].WorkerID != "w3" {
		t.Fatalf("absences = %+v, want one for w3", store.absences)
	}
	if store.absences[0].Status != model.AbsenceStatusPending {
		t.Errorf("absence status = %s, want pending", store.absences[0].Status)
	}
	if len(store.overtimes) != 1 || store.overtimes[0].WorkerID != "w2" {
		t.Fatalf("overtimes = %+v, want one for w2", store.overtimes)
	}
	if store.overtimes[0].DiffHours != 2 {
		t.Errorf("DiffHours = %v, want 2", store.overtimes[0].DiffHours)
	}
}

func TestRunManualIsIdempotent(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1", "w2")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)
	open := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	seedShift(store, "t1", "w1", "2026-03-10", open, 600)

	for i := 0; i < 3; i++ {
		if _, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(store.absences) != 1 {
		t.Errorf("absences = %d, want 1 after repeated runs", len(store.absences))
	}
	if len(store.overtimes) != 1 {
		t.Errorf("overtimes = %d, want 1 after repeated runs", len(store.overtimes))
	}
}

func TestRunManualReversesStalePendingAbsence(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)

	// First run: no shift event arrived yet, w1 gets an absence.
	if _, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(store.absences) != 1 || store.absences[0].DeletedAt.Valid {
		t.Fatalf("expected one live absence after first run")
	}

	// The shift event lands late; the rerun must retract the absence.
	open := time.Date(2026, 3, 10, 8, 5, 0, 0, time.UTC)
	seedShift(store, "t1", "w1", "2026-03-10", open, 480)

	result, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Resultados[0].Revertidas != 1 {
		t.Errorf("Revertidas = %d, want 1", result.Resultados[0].Revertidas)
	}
	if !store.absences[0].DeletedAt.Valid {
		t.Error("stale pending absence was not reversed")
	}
}

func TestRunManualNeverReversesAdjudicatedAbsence(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)

	if _, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// A supervisor already ruled on the absence.
	store.absences[0].Status = model.AbsenceStatusJustified

	open := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	seedShift(store, "t1", "w1", "2026-03-10", open, 480)

	if _, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if store.absences[0].DeletedAt.Valid {
		t.Error("adjudicated absence must never be reversed")
	}
}

func TestRunManualValidation(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")

	cases := []struct {
		name string
		req  dto.ManualReconciliationRequest
		want error
	}{
		{"missing date", dto.ManualReconciliationRequest{EquipeID: "t1"}, ErrDateRequired},
		{"bad date", dto.ManualReconciliationRequest{EquipeID: "t1", DataReferencia: "10/03/2026"}, ErrDateFormat},
		{"future date", dto.ManualReconciliationRequest{EquipeID: "t1", DataReferencia: "2026-03-13"}, ErrDateInFuture},
		{"no team", dto.ManualReconciliationRequest{DataReferencia: "2026-03-10"}, ErrTeamRequired},
		{"unknown team", dto.ManualReconciliationRequest{EquipeID: "ghost", DataReferencia: "2026-03-10"}, ErrTeamNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RunManual(context.Background(), tc.req, testActor); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRunManualUnitFailureDoesNotAbortBatch(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedTeam(store, "t2", "w2")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)
	// Corrupt start time makes t2's unit fail during matching.
	seedSlot(store, "t2", "2026-03-10", "bogus", 8)

	result, err := svc.RunManual(context.Background(), dto.ManualReconciliationRequest{
		TodasEquipes:   true,
		DataReferencia: "2026-03-10",
	}, testActor)
	if err != nil {
		t.Fatalf("RunManual: %v", err)
	}

	if result.Success {
		t.Error("Success should be false when a unit fails")
	}
	if result.Sucessos != 1 || result.Erros != 1 {
		t.Errorf("sucessos/erros = %d/%d, want 1/1", result.Sucessos, result.Erros)
	}
}

func TestRunForcedSkipsAlreadyReconciledDays(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedSlot(store, "t1", "2026-03-09", "08:00", 8)
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)

	// 2026-03-09 already produced an absence in some earlier run.
	store.absences = append(store.absences, &model.Absence{
		AbsenceID: "abs-existing", WorkerID: "w1", TeamID: "t1",
		Date: "2026-03-09", Status: model.AbsenceStatusPending,
		VersionedModel: model.VersionedModel{Version: 1},
	})

	result, err := svc.RunForced(context.Background(), dto.ForcedReconciliationRequest{
		EquipeID:   "t1",
		DataInicio: "2026-03-09",
		DataFim:    "2026-03-10",
	}, testActor)
	if err != nil {
		t.Fatalf("RunForced: %v", err)
	}

	var skipped, processed int
	for _, r := range result.Resultados {
		if r.Ignorada {
			skipped++
		} else {
			processed++
		}
	}
	if skipped != 1 || processed != 1 {
		t.Errorf("skipped/processed = %d/%d, want 1/1", skipped, processed)
	}
	// Only the unprocessed day may gain an absence.
	if len(store.absences) != 2 {
		t.Errorf("absences = %d, want 2", len(store.absences))
	}
}

func TestRunForcedUsesWideMatching(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedSlot(store, "t1", "2026-03-10", "08:00", 8)
	// Opened three hours late: outside tolerance, but forced mode matches it.
	open := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	seedShift(store, "t1", "w1", "2026-03-10", open, 480)

	result, err := svc.RunForced(context.Background(), dto.ForcedReconciliationRequest{
		EquipeID:   "t1",
		DataInicio: "2026-03-10",
		DataFim:    "2026-03-10",
	}, testActor)
	if err != nil {
		t.Fatalf("RunForced: %v", err)
	}
	if len(store.absences) != 0 {
		t.Errorf("absences = %d, want 0 (forced matching accepts the late opening)", len(store.absences))
	}
	if result.Resultados[0].Ausencias != 0 {
		t.Errorf("Ausencias = %d, want 0", result.Resultados[0].Ausencias)
	}
}

func TestRunForcedLookbackEnumeration(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")

	result, err := svc.RunForced(context.Background(), dto.ForcedReconciliationRequest{
		EquipeID:      "t1",
		DiasHistorico: 3,
	}, testActor)
	if err != nil {
		t.Fatalf("RunForced: %v", err)
	}

	// A three-day lookback ends today, 2026-03-12.
	if result.DiasProcessados != 3 {
		t.Errorf("DiasProcessados = %d, want 3", result.DiasProcessados)
	}
	dates := map[string]bool{}
	for _, r := range result.Resultados {
		dates[r.DataReferencia] = true
	}
	for _, d := range []string{"2026-03-10", "2026-03-11", "2026-03-12"} {
		if !dates[d] {
			t.Errorf("missing date %s in %v", d, dates)
		}
	}
}

func TestRunForcedWithoutTeamFilterSweepsAllTeams(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedTeam(store, "t2", "w2")

	result, err := svc.RunForced(context.Background(), dto.ForcedReconciliationRequest{
		DataInicio: "2026-03-10",
		DataFim:    "2026-03-10",
	}, testActor)
	if err != nil {
		t.Fatalf("RunForced: %v", err)
	}
	if result.EquipesProcessadas != 2 {
		t.Errorf("EquipesProcessadas = %d, want 2 (no team filter sweeps every team)", result.EquipesProcessadas)
	}
}

func TestRunForcedRejectsInvertedRange(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")

	_, err := svc.RunForced(context.Background(), dto.ForcedReconciliationRequest{
		EquipeID:   "t1",
		DataInicio: "2026-03-10",
		DataFim:    "2026-03-09",
	}, testActor)
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("err = %v, want ErrRangeInvalid", err)
	}
}

func TestRunScheduledTargetsYesterday(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")
	seedSlot(store, "t1", "2026-03-11", "08:00", 8)

	result, err := svc.RunScheduled(context.Background())
	if err != nil {
		t.Fatalf("RunScheduled: %v", err)
	}
	if result.DiasProcessados != 1 {
		t.Fatalf("DiasProcessados = %d, want 1", result.DiasProcessados)
	}
	if result.Resultados[0].DataReferencia != "2026-03-11" {
		t.Errorf("date = %s, want 2026-03-11", result.Resultados[0].DataReferencia)
	}
	if len(store.absences) != 1 {
		t.Errorf("absences = %d, want 1 (w1 had no shift)", len(store.absences))
	}
}

func TestRunManualNoSlotIsNoOp(t *testing.T) {
	svc, _, store := newTestReconService(t)
	seedTeam(store, "t1", "w1")

	result, err := svc.RunManual(context.Background(), manualReq("t1", "2026-03-10"), testActor)
	if err != nil {
		t.Fatalf("RunManual: %v", err)
	}
	if !result.Success {
		t.Error("a day without a planned slot should succeed as a no-op")
	}
	if len(store.absences) != 0 {
		t.Errorf("absences = %d, want 0", len(store.absences))
	}
}
