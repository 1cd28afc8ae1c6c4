// Package recon holds the pure matching core of the reconciliation
// engine. It has no knowledge of storage or transport: callers load the
// planned slot, roster and shift events, and persist the outcomes.
package recon

import "time"

// Outcome kinds for a single worker against a single planned slot.
const (
	OutcomeHonored    = "honored"
	OutcomeNoShow     = "no_show"
	OutcomeEarlyClose = "early_close"
	OutcomeOvertime   = "overtime"
)

// Policy tunes the matching rules for one run.
type Policy struct {
	// ToleranceMinutes is the margin around the planned start within
	// which an opened shift still counts. The window is inclusive on
	// both ends.
	ToleranceMinutes int

	// OvertimeThresholdMinutes is how far the actual duration must
	// exceed the planned duration before an overtime is flagged.
	OvertimeThresholdMinutes int

	// Forced widens matching to any shift of the day, regardless of
	// how far its opening sits from the planned start.
	Forced bool
}

// Slot is the planned work window being reconciled.
type Slot struct {
	Start           time.Time
	DurationMinutes int
}

// Shift is one shift-open event, possibly still unclosed.
type Shift struct {
	WorkerID string
	OpenedAt time.Time
	ClosedAt *time.Time
}

// Duration returns the worked length in whole minutes, or 0 when the
// shift is still open.
func (s Shift) Duration() time.Duration {
	if s.ClosedAt == nil {
		return 0
	}
	return s.ClosedAt.Sub(s.OpenedAt)
}

// WorkerOutcome is the verdict for one rostered worker.
type WorkerOutcome struct {
	WorkerID       string
	Kind           string
	PlannedMinutes int
	ActualMinutes  int

	// ShortfallMinutes is set on early closes: how much shorter the
	// shift was than planned.
	ShortfallMinutes int

	// OvertimeMinutes is set on overtimes: how far the shift exceeded
	// the plan.
	OvertimeMinutes int

	// Provisional marks a matched shift that is still open. The worker
	// counts as honored for now; a later run with the close event
	// settles the final verdict.
	Provisional bool

	// Reason is a short human-readable explanation, recorded on derived
	// absence rows.
	Reason string
}

// Match evaluates every rostered worker against the slot independently
// and returns one outcome per worker, in roster order. Workers never
// affect each other's verdicts.
func Match(slot Slot, roster []string, shifts []Shift, pol Policy) []WorkerOutcome {
	byWorker := make(map[string][]Shift, len(roster))
	for _, sh := range shifts {
		byWorker[sh.WorkerID] = append(byWorker[sh.WorkerID], sh)
	}

	outcomes := make([]WorkerOutcome, 0, len(roster))
	for _, workerID := range roster {
		outcomes = append(outcomes, matchWorker(slot, workerID, byWorker[workerID], pol))
	}
	return outcomes
}

func matchWorker(slot Slot, workerID string, shifts []Shift, pol Policy) WorkerOutcome {
	out := WorkerOutcome{
		WorkerID:       workerID,
		PlannedMinutes: slot.DurationMinutes,
	}

	matched, ok := pickShift(slot, shifts, pol)
	if !ok {
		out.Kind = OutcomeNoShow
		out.Reason = "no shift opened within the tolerance window"
		return out
	}

	if matched.ClosedAt == nil {
		out.Kind = OutcomeHonored
		out.Provisional = true
		return out
	}

	actual := matched.Duration()
	if actual <= 0 {
		out.Kind = OutcomeNoShow
		out.Reason = "shift closed with zero or negative duration"
		return out
	}

	out.ActualMinutes = int(actual / time.Minute)
	planned := time.Duration(slot.DurationMinutes) * time.Minute
	threshold := time.Duration(pol.OvertimeThresholdMinutes) * time.Minute

	switch {
	case actual > planned+threshold:
		out.Kind = OutcomeOvertime
		out.OvertimeMinutes = int((actual - planned) / time.Minute)
	case actual < planned:
		out.Kind = OutcomeEarlyClose
		out.ShortfallMinutes = slot.DurationMinutes - out.ActualMinutes
	default:
		out.Kind = OutcomeHonored
	}
	return out
}

// pickShift selects the worker's shift that matches the slot. Under the
// normal policy only openings inside the tolerance window qualify; the
// forced policy accepts any shift of the day. When several qualify, the
// one opened closest to the planned start wins.
func pickShift(slot Slot, shifts []Shift, pol Policy) (Shift, bool) {
	margin := time.Duration(pol.ToleranceMinutes) * time.Minute
	lo := slot.Start.Add(-margin)
	hi := slot.Start.Add(margin)

	var best Shift
	var bestDist time.Duration
	found := false
	for _, sh := range shifts {
		if !pol.Forced {
			if sh.OpenedAt.Before(lo) || sh.OpenedAt.After(hi) {
				continue
			}
		}
		dist := sh.OpenedAt.Sub(slot.Start)
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best = sh
			bestDist = dist
			found = true
		}
	}
	return best, found
}
