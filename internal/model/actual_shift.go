package model

import "time"

// ActualShift is a field event: a worker opened (and usually closed) a
// shift on a given date. Rows are append-only from the reconciliation
// engine's point of view.
type ActualShift struct {
	ShiftID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	TeamID   string     `gorm:"type:uuid;not null;index" json:"team_id"`
	WorkerID string     `gorm:"type:uuid;not null;index" json:"worker_id"`
	Date     string     `gorm:"type:date;not null" json:"date"`
	OpenedAt time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	BaseModel
}

func (ActualShift) TableName() string { return "actual_shifts" }
