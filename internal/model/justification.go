package model

import "time"

// Justification kinds and statuses.
const (
	JustificationKindIndividual = "individual"
	JustificationKindTeam       = "team"

	JustificationStatusPending  = "pending"
	JustificationStatusApproved = "approved"
	JustificationStatusRejected = "rejected"
)

// Justification is a request to excuse one absence (individual) or every
// system-generated absence of a team on one date (team). Approving flips
// the targeted absences to justified; rejecting flips them to unjustified.
type Justification struct {
	JustificationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"justification_id"`
	Kind            string     `gorm:"size:20;not null;default:individual" json:"kind"`
	AbsenceID       *string    `gorm:"type:uuid" json:"absence_id,omitempty"`
	TeamID          *string    `gorm:"type:uuid" json:"team_id,omitempty"`
	Date            *string    `gorm:"type:date" json:"date,omitempty"`
	Reason          string     `gorm:"type:text;not null" json:"reason"`
	AttachmentURL   *string    `gorm:"size:500" json:"attachment_url,omitempty"`
	Status          string     `gorm:"size:20;not null;default:pending" json:"status"`
	DecidedBy       *string    `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

func (Justification) TableName() string { return "justifications" }

// Decided reports whether this justification was already adjudicated.
func (j Justification) Decided() bool {
	return j.Status == JustificationStatusApproved || j.Status == JustificationStatusRejected
}
