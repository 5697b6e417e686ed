package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleViewer  = "viewer"
)

// User is an operator account for the HTTP surface. Only the login flow uses
// it; history records reference the user by token subject, not by FK.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	FullName     *string   `gorm:"type:varchar(100)" json:"full_name"`
	Role         string    `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Audit
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
