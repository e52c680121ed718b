package types

import (
	"time"

	"github.com/google/uuid"
)

type TeamMember struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string     `gorm:"not null;column:last_name" json:"last_name"`
	Email     string     `gorm:"index;column:email" json:"email"`
	RoleTitle string     `gorm:"column:role_title" json:"role_title"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User      *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CreatedBy string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (TeamMember) TableName() string {
	return "team_member"
}
