package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"type:text;column:description" json:"description"`
	Status      string     `gorm:"not null;default:active;index;column:status" json:"status"`
	StartDate   *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	Lead        string     `gorm:"column:lead" json:"lead"`
	CreatedBy   string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string {
	return "project"
}
