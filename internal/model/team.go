package model

// Team is a field work unit. Every planned slot and derived record hangs
// off a team.
type Team struct {
	TeamID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	Name   string `gorm:"size:120;not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
	SoftDeleteModel
}

func (Team) TableName() string { return "teams" }

// Worker roles.
const (
	RoleDriver      = "driver"
	RoleElectrician = "electrician"
)

// Worker belongs to exactly one team at a time.
type Worker struct {
	WorkerID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	TeamID       string `gorm:"type:uuid;not null;index" json:"team_id"`
	Name         string `gorm:"size:120;not null" json:"name"`
	Registration string `gorm:"size:40;not null" json:"registration"`
	Role         string `gorm:"size:20;not null;default:electrician" json:"role"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
	SoftDeleteModel
}

func (Worker) TableName() string { return "workers" }
