package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FilingTypeProvisional   = "provisional"
	FilingTypeUtility       = "utility"
	FilingTypePCT           = "pct"
	FilingTypeNationalPhase = "national_phase"
	FilingTypeDesign        = "design"
	FilingTypeContinuation  = "continuation"

	FilingStatusDrafting  = "drafting"
	FilingStatusFiled     = "filed"
	FilingStatusPending   = "pending"
	FilingStatusGranted   = "granted"
	FilingStatusAbandoned = "abandoned"
)

type Filing struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title             string      `gorm:"not null;column:title" json:"title"`
	FilingType        string      `gorm:"not null;column:filing_type" json:"filing_type"`
	Jurisdiction      string      `gorm:"column:jurisdiction" json:"jurisdiction"`
	ApplicationNumber string      `gorm:"index;column:application_number" json:"application_number"`
	Status            string      `gorm:"not null;default:drafting;index;column:status" json:"status"`
	FilingDate        *time.Time  `gorm:"column:filing_date" json:"filing_date,omitempty"`
	GrantDate         *time.Time  `gorm:"column:grant_date" json:"grant_date,omitempty"`
	DisclosureID      *uuid.UUID  `gorm:"type:uuid;index" json:"disclosure_id,omitempty"`
	Disclosure        *Disclosure `gorm:"constraint:OnDelete:SET NULL;foreignKey:DisclosureID;references:ID" json:"disclosure,omitempty"`
	CreatedBy         string      `gorm:"column:created_by" json:"created_by"`
	CreatedAt         time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Filing) TableName() string {
	return "filing"
}
