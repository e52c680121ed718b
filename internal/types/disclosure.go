package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	DisclosureStatusReceived    = "received"
	DisclosureStatusUnderReview = "under_review"
	DisclosureStatusEvaluated   = "evaluated"
	DisclosureStatusFiled       = "filed"
	DisclosureStatusLicensed    = "licensed"
	DisclosureStatusAbandoned   = "abandoned"
)

// Disclosure is an invention disclosure submitted to the IP office.
type Disclosure struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title          string     `gorm:"not null;column:title" json:"title"`
	DocketNumber   string     `gorm:"index;column:docket_number" json:"docket_number"`
	Status         string     `gorm:"not null;default:received;index;column:status" json:"status"`
	Stage          string     `gorm:"column:stage" json:"stage"`
	LeadInventor   string     `gorm:"column:lead_inventor" json:"lead_inventor"`
	Department     string     `gorm:"index;column:department" json:"department"`
	DisclosureDate *time.Time `gorm:"column:disclosure_date" json:"disclosure_date,omitempty"`
	Summary        string     `gorm:"type:text;column:summary" json:"summary"`
	CreatedBy      string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Disclosure) TableName() string {
	return "disclosure"
}
