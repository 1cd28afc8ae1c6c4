package recon

import (
	"testing"
	"time"
)

var defaultPolicy = Policy{ToleranceMinutes: 30, OvertimeThresholdMinutes: 15}

func slotAt(hour int, durationMin int) Slot {
	return Slot{
		Start:           time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC),
		DurationMinutes: durationMin,
	}
}

func closedShift(worker string, openedAt time.Time, workedMin int) Shift {
	closed := openedAt.Add(time.Duration(workedMin) * time.Minute)
	return Shift{WorkerID: worker, OpenedAt: openedAt, ClosedAt: &closed}
}

func findOutcome(t *testing.T, outs []WorkerOutcome, worker string) WorkerOutcome {
	t.Helper()
	for _, o := range outs {
		if o.WorkerID == worker {
			return o
		}
	}
	t.Fatalf("no outcome for worker %s", worker)
	return WorkerOutcome{}
}

func TestMatchHonoredInsideWindow(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{closedShift("w1", slot.Start.Add(10*time.Minute), 480)}

	outs := Match(slot, []string{"w1"}, shifts, defaultPolicy)
	got := findOutcome(t, outs, "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("Kind = %s, want honored", got.Kind)
	}
	if got.ActualMinutes != 480 {
		t.Errorf("ActualMinutes = %d, want 480", got.ActualMinutes)
	}
}

func TestMatchToleranceBoundaryInclusive(t *testing.T) {
	slot := slotAt(8, 480)

	// Opened exactly at start+30min: still inside.
	atEdge := []Shift{closedShift("w1", slot.Start.Add(30*time.Minute), 480)}
	got := findOutcome(t, Match(slot, []string{"w1"}, atEdge, defaultPolicy), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("opened at boundary: Kind = %s, want honored", got.Kind)
	}

	// One minute past the margin: outside.
	past := []Shift{closedShift("w1", slot.Start.Add(31*time.Minute), 480)}
	got = findOutcome(t, Match(slot, []string{"w1"}, past, defaultPolicy), "w1")
	if got.Kind != OutcomeNoShow {
		t.Errorf("opened past boundary: Kind = %s, want no_show", got.Kind)
	}

	// Same holds on the early side.
	early := []Shift{closedShift("w1", slot.Start.Add(-30*time.Minute), 480)}
	got = findOutcome(t, Match(slot, []string{"w1"}, early, defaultPolicy), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("opened at early boundary: Kind = %s, want honored", got.Kind)
	}
}

func TestMatchForcedAcceptsAnyShiftOfDay(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{closedShift("w1", slot.Start.Add(3*time.Hour), 480)}

	got := findOutcome(t, Match(slot, []string{"w1"}, shifts, defaultPolicy), "w1")
	if got.Kind != OutcomeNoShow {
		t.Errorf("normal policy: Kind = %s, want no_show", got.Kind)
	}

	forced := defaultPolicy
	forced.Forced = true
	got = findOutcome(t, Match(slot, []string{"w1"}, shifts, forced), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("forced policy: Kind = %s, want honored", got.Kind)
	}
}

func TestMatchNoShiftIsNoShow(t *testing.T) {
	slot := slotAt(8, 480)
	got := findOutcome(t, Match(slot, []string{"w1"}, nil, defaultPolicy), "w1")
	if got.Kind != OutcomeNoShow {
		t.Errorf("Kind = %s, want no_show", got.Kind)
	}
	if got.Reason == "" {
		t.Error("no-show outcome should carry a reason")
	}
}

func TestMatchZeroDurationNeverHonored(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{closedShift("w1", slot.Start, 0)}

	for _, forced := range []bool{false, true} {
		pol := defaultPolicy
		pol.Forced = forced
		got := findOutcome(t, Match(slot, []string{"w1"}, shifts, pol), "w1")
		if got.Kind != OutcomeNoShow {
			t.Errorf("forced=%v: Kind = %s, want no_show", forced, got.Kind)
		}
	}
}

func TestMatchOvertimeThreshold(t *testing.T) {
	slot := slotAt(8, 480)

	// Planned + threshold exactly: no overtime yet.
	atThreshold := []Shift{closedShift("w1", slot.Start, 495)}
	got := findOutcome(t, Match(slot, []string{"w1"}, atThreshold, defaultPolicy), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("at threshold: Kind = %s, want honored", got.Kind)
	}

	// One minute beyond: overtime, diff measured from planned duration.
	over := []Shift{closedShift("w1", slot.Start, 496)}
	got = findOutcome(t, Match(slot, []string{"w1"}, over, defaultPolicy), "w1")
	if got.Kind != OutcomeOvertime {
		t.Errorf("past threshold: Kind = %s, want overtime", got.Kind)
	}
	if got.OvertimeMinutes != 16 {
		t.Errorf("OvertimeMinutes = %d, want 16", got.OvertimeMinutes)
	}
}

func TestMatchEarlyCloseShortfall(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{closedShift("w1", slot.Start, 420)}

	got := findOutcome(t, Match(slot, []string{"w1"}, shifts, defaultPolicy), "w1")
	if got.Kind != OutcomeEarlyClose {
		t.Errorf("Kind = %s, want early_close", got.Kind)
	}
	if got.ShortfallMinutes != 60 {
		t.Errorf("ShortfallMinutes = %d, want 60", got.ShortfallMinutes)
	}
}

func TestMatchOpenShiftIsProvisionalHonored(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{{WorkerID: "w1", OpenedAt: slot.Start.Add(5 * time.Minute)}}

	got := findOutcome(t, Match(slot, []string{"w1"}, shifts, defaultPolicy), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("Kind = %s, want honored", got.Kind)
	}
	if !got.Provisional {
		t.Error("open shift should be provisional")
	}
}

func TestMatchWorkersAreIndependent(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{
		closedShift("w1", slot.Start, 480),
		closedShift("w3", slot.Start, 600),
	}

	outs := Match(slot, []string{"w1", "w2", "w3"}, shifts, defaultPolicy)
	if len(outs) != 3 {
		t.Fatalf("len(outs) = %d, want 3", len(outs))
	}
	if got := findOutcome(t, outs, "w1"); got.Kind != OutcomeHonored {
		t.Errorf("w1 Kind = %s, want honored", got.Kind)
	}
	if got := findOutcome(t, outs, "w2"); got.Kind != OutcomeNoShow {
		t.Errorf("w2 Kind = %s, want no_show", got.Kind)
	}
	if got := findOutcome(t, outs, "w3"); got.Kind != OutcomeOvertime {
		t.Errorf("w3 Kind = %s, want overtime", got.Kind)
	}
}

func TestMatchPicksClosestShift(t *testing.T) {
	slot := slotAt(8, 480)
	shifts := []Shift{
		closedShift("w1", slot.Start.Add(-25*time.Minute), 100),
		closedShift("w1", slot.Start.Add(5*time.Minute), 480),
	}

	got := findOutcome(t, Match(slot, []string{"w1"}, shifts, defaultPolicy), "w1")
	if got.Kind != OutcomeHonored {
		t.Errorf("Kind = %s, want honored", got.Kind)
	}
	if got.ActualMinutes != 480 {
		t.Errorf("ActualMinutes = %d, want 480 (closest shift)", got.ActualMinutes)
	}
}
