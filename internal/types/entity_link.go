package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EntityLink is an undirected association between two records of any
// type. The pair is normalized before insert: the lexicographically
// smaller (type, id) lands on the from side, so the unordered pair
// {(type,id),(type,id)} maps to exactly one row and the composite unique
// index rejects duplicates. Rows are never updated, only created and
// deleted.
type EntityLink struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FromEntityType EntityType     `gorm:"not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_from" json:"from_entity_type"`
	FromEntityID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_from" json:"from_entity_id"`
	ToEntityType   EntityType     `gorm:"not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_to" json:"to_entity_type"`
	ToEntityID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_to" json:"to_entity_id"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedBy      string         `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (EntityLink) TableName() string {
	return "entity_link"
}
