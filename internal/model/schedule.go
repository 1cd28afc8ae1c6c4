package model

import "time"

// Schedule period statuses.
const (
	PeriodStatusDraft     = "draft"
	PeriodStatusPublished = "published"
)

// SchedulePeriod groups the planned slots of a team over a date range.
// Only published periods feed reconciliation.
type SchedulePeriod struct {
	PeriodID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	TeamID      string     `gorm:"type:uuid;not null;index" json:"team_id"`
	StartDate   string     `gorm:"type:date;not null" json:"start_date"`
	EndDate     string     `gorm:"type:date;not null" json:"end_date"`
	Status      string     `gorm:"size:20;not null;default:draft" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	BaseModel
}

func (SchedulePeriod) TableName() string { return "schedule_periods" }

// PlannedSlot is one planned work window for a whole team on one date.
// StartTime is a local wall-clock time in "15:04" form; DurationHours may
// be fractional.
type PlannedSlot struct {
	SlotID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	PeriodID      string  `gorm:"type:uuid;not null" json:"period_id"`
	TeamID        string  `gorm:"type:uuid;not null;index" json:"team_id"`
	Date          string  `gorm:"type:date;not null" json:"date"`
	StartTime     string  `gorm:"size:5;not null" json:"start_time"`
	DurationHours float64 `gorm:"type:numeric(4,2);not null" json:"duration_hours"`
	BaseModel
}

func (PlannedSlot) TableName() string { return "planned_slots" }

// StartAt resolves the slot's wall-clock start into an absolute time in
// the given location.
func (s PlannedSlot) StartAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// DurationMinutes returns the planned length in whole minutes.
func (s PlannedSlot) DurationMinutes() int {
	return int(s.DurationHours * 60)
}
