package types

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem belongs to exactly one (entity_type, entity_id) pair for
// its whole life; the entity reference is set on create and never moved.
type ChecklistItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType  EntityType `gorm:"not null;index:idx_checklist_entity" json:"entity_type"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_checklist_entity" json:"entity_id"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"type:text;column:description" json:"description"`
	IsCompleted bool       `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	DueDate     *time.Time `gorm:"index;column:due_date" json:"due_date,omitempty"`
	CreatedBy   string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "checklist_item"
}
