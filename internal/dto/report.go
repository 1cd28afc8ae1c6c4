package dto

// ReportRangeRequest date range for consolidated and adherence reports.
type ReportRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// DayEntry one worker-day in a consolidated report.
type DayEntry struct {
	Date          string  `json:"date"`
	WorkerID      string  `json:"worker_id"`
	WorkerName    string  `json:"worker_name,omitempty"`
	Status        string  `json:"status"`
	PlannedHours  float64 `json:"planned_hours"`
	ActualHours   float64 `json:"actual_hours"`
	AbsenceStatus string  `json:"absence_status,omitempty"`
}

// WorkerConsolidated per-worker report over a range.
type WorkerConsolidated struct {
	WorkerID     string     `json:"worker_id"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	PlannedDays  int        `json:"planned_days"`
	HonoredDays  int        `json:"honored_days"`
	AbsenceDays  int        `json:"absence_days"`
	OvertimeDays int        `json:"overtime_days"`
	Days         []DayEntry `json:"days"`
}

// TeamConsolidated per-team report over a range.
type TeamConsolidated struct {
	TeamID    string     `json:"team_id"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Workers   int        `json:"workers"`
	Days      []DayEntry `json:"days"`
}

// AdherenceDay per-day adherence breakdown.
type AdherenceDay struct {
	Date      string  `json:"date"`
	Planned   int     `json:"planned"`
	Honored   int     `json:"honored"`
	Adherence float64 `json:"adherence"`
}

// TeamAdherence adherence percentage for a team over a range.
// Adherence is honored expectations over planned expectations times 100,
// where one expectation is one rostered worker on one planned slot.
type TeamAdherence struct {
	TeamID    string         `json:"team_id"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Planned   int            `json:"planned"`
	Honored   int            `json:"honored"`
	Adherence float64        `json:"adherence"`
	Days      []AdherenceDay `json:"days"`
}
