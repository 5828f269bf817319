package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// User represents a registered citizen or an administrator of the portal.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized
	Role         string `gorm:"default:citizen" json:"role"`
}

// BeforeCreate is a GORM hook that generates a new UUID for the user
// if the ID has not been set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user may call privileged endpoints such as
// the status update.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
