package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActivityActionCreate           ActivityAction = "create"
	ActivityActionUpdate           ActivityAction = "update"
	ActivityActionDelete           ActivityAction = "delete"
	ActivityActionStatusChange     ActivityAction = "status_change"
	ActivityActionStageChange      ActivityAction = "stage_change"
	ActivityActionNoteAdded        ActivityAction = "note_added"
	ActivityActionCommentAdded     ActivityAction = "comment_added"
	ActivityActionChecklistUpdated ActivityAction = "checklist_updated"
	ActivityActionLinkCreated      ActivityAction = "link_created"
	ActivityActionLinkRemoved      ActivityAction = "link_removed"
)

var activityActions = map[ActivityAction]bool{
	ActivityActionCreate:           true,
	ActivityActionUpdate:           true,
	ActivityActionDelete:           true,
	ActivityActionStatusChange:     true,
	ActivityActionStageChange:      true,
	ActivityActionNoteAdded:        true,
	ActivityActionCommentAdded:     true,
	ActivityActionChecklistUpdated: true,
	ActivityActionLinkCreated:      true,
	ActivityActionLinkRemoved:      true,
}

func IsValidActivityAction(a ActivityAction) bool {
	return activityActions[a]
}

// ActivityLog is one immutable entry in the per-entity audit trail.
// The repo exposes no update or delete for this table.
type ActivityLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType  EntityType     `gorm:"not null;index:idx_activity_entity" json:"entity_type"`
	EntityID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_entity" json:"entity_id"`
	Action      ActivityAction `gorm:"not null;index;column:action" json:"action"`
	Description string         `gorm:"type:text;column:description" json:"description"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedBy   string         `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
