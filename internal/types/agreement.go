package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AgreementTypeLicense           = "license"
	AgreementTypeOption            = "option"
	AgreementTypeMTA               = "mta"
	AgreementTypeNDA               = "nda"
	AgreementTypeIIA               = "iia"
	AgreementTypeSponsoredResearch = "sponsored_research"

	AgreementStatusDraft       = "draft"
	AgreementStatusNegotiation = "negotiation"
	AgreementStatusActive      = "active"
	AgreementStatusExpired     = "expired"
	AgreementStatusTerminated  = "terminated"
)

type Agreement struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title         string     `gorm:"not null;column:title" json:"title"`
	AgreementType string     `gorm:"not null;column:agreement_type" json:"agreement_type"`
	Counterparty  string     `gorm:"column:counterparty" json:"counterparty"`
	Status        string     `gorm:"not null;default:draft;index;column:status" json:"status"`
	EffectiveDate *time.Time `gorm:"column:effective_date" json:"effective_date,omitempty"`
	ExpiryDate    *time.Time `gorm:"index;column:expiry_date" json:"expiry_date,omitempty"`
	ValueCents    int64      `gorm:"column:value_cents" json:"value_cents"`
	CreatedBy     string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Agreement) TableName() string {
	return "agreement"
}
