package model

// Absence statuses. An absence starts pending, moves to under_review when
// a justification is submitted, and ends justified or unjustified.
const (
	AbsenceStatusPending     = "pending"
	AbsenceStatusUnderReview = "under_review"
	AbsenceStatusJustified   = "justified"
	AbsenceStatusUnjustified = "unjustified"
)

// Absence is a derived record: the reconciliation engine concluded the
// worker did not honor a planned slot. SystemReason records why.
type Absence struct {
	AbsenceID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"absence_id"`
	WorkerID     string `gorm:"type:uuid;not null" json:"worker_id"`
	TeamID       string `gorm:"type:uuid;not null" json:"team_id"`
	Date         string `gorm:"type:date;not null" json:"date"`
	Status       string `gorm:"size:20;not null;default:pending" json:"status"`
	SystemReason string `gorm:"size:255;not null" json:"system_reason"`
	VersionedModel
}

func (Absence) TableName() string { return "absences" }

// Adjudicated reports whether a human already ruled on this absence.
// Adjudicated rows are never reversed or rewritten by reconciliation.
func (a Absence) Adjudicated() bool {
	return a.Status == AbsenceStatusJustified || a.Status == AbsenceStatusUnjustified
}
