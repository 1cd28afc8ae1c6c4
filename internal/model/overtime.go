package model

import "time"

// Overtime statuses.
const (
	OvertimeStatusPending  = "pending"
	OvertimeStatusApproved = "approved"
	OvertimeStatusRejected = "rejected"
)

// Overtime is a derived record: the worker's actual shift exceeded the
// planned duration beyond the configured threshold.
type Overtime struct {
	OvertimeID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"overtime_id"`
	WorkerID     string     `gorm:"type:uuid;not null" json:"worker_id"`
	TeamID       string     `gorm:"type:uuid;not null" json:"team_id"`
	Date         string     `gorm:"type:date;not null" json:"date"`
	PlannedHours float64    `gorm:"type:numeric(5,2);not null" json:"planned_hours"`
	ActualHours  float64    `gorm:"type:numeric(5,2);not null" json:"actual_hours"`
	DiffHours    float64    `gorm:"type:numeric(5,2);not null" json:"diff_hours"`
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	DecidedBy    *string    `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	VersionedModel
}

func (Overtime) TableName() string { return "overtimes" }

// Decided reports whether a human already ruled on this overtime.
func (o Overtime) Decided() bool {
	return o.Status == OvertimeStatusApproved || o.Status == OvertimeStatusRejected
}
