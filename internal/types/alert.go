package types

import (
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertTypeAgreementExpiry  AlertType = "agreement_expiry"
	AlertTypeNewDisclosure    AlertType = "new_disclosure"
	AlertTypeCommentReply     AlertType = "comment_reply"
	AlertTypeChecklistDue     AlertType = "checklist_due"
	AlertTypeLinkDeleted      AlertType = "link_deleted"
	AlertTypeProjectMilestone AlertType = "project_milestone"
)

// AlertPriority is derived from the due date at read time and never
// persisted; "now" moves between reads.
type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityLow    AlertPriority = "low"
)

// Alert rows move Active(unread) -> Active(read) -> Dismissed. Dismissed
// is terminal: the row is retained but excluded from every active-list
// query.
type Alert struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type        AlertType   `gorm:"not null;index;column:type" json:"type"`
	Title       string      `gorm:"not null;column:title" json:"title"`
	Description string      `gorm:"type:text;column:description" json:"description"`
	EntityType  *EntityType `gorm:"column:entity_type" json:"entity_type,omitempty"`
	EntityID    *uuid.UUID  `gorm:"type:uuid;column:entity_id" json:"entity_id,omitempty"`
	DueDate     *time.Time  `gorm:"index;column:due_date" json:"due_date,omitempty"`
	IsRead      bool        `gorm:"not null;default:false;column:is_read" json:"is_read"`
	IsDismissed bool        `gorm:"not null;default:false;index;column:is_dismissed" json:"is_dismissed"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (Alert) TableName() string {
	return "alert"
}
