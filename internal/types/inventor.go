package types

import (
	"time"

	"github.com/google/uuid"
)

type Inventor struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName  string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName   string    `gorm:"not null;column:last_name" json:"last_name"`
	Email      string    `gorm:"index;column:email" json:"email"`
	Department string    `gorm:"index;column:department" json:"department"`
	Title      string    `gorm:"column:title" json:"title"`
	CreatedBy  string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Inventor) TableName() string {
	return "inventor"
}
