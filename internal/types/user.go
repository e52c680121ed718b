package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

var userRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleStaff:   true,
	RoleViewer:  true,
}

func IsValidRole(role string) bool {
	return userRoles[role]
}

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	FirstName       string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;column:last_name" json:"last_name"`
	Role            string    `gorm:"not null;default:staff;column:role" json:"role"`
	AvatarColor     string    `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarMediaKey  string    `gorm:"column:avatar_media_key" json:"avatar_media_key"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
