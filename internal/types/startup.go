package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	StartupStatusForming   = "forming"
	StartupStatusActive    = "active"
	StartupStatusAcquired  = "acquired"
	StartupStatusDissolved = "dissolved"
)

type Startup struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	FoundedDate *time.Time `gorm:"column:founded_date" json:"founded_date,omitempty"`
	Status      string     `gorm:"not null;default:forming;index;column:status" json:"status"`
	Sector      string     `gorm:"column:sector" json:"sector"`
	Website     string     `gorm:"column:website" json:"website"`
	CreatedBy   string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Startup) TableName() string {
	return "startup"
}
