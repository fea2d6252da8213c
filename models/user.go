package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:100" json:"firstName"`
	LastName  string         `gorm:"size:100" json:"lastName"`
	Email     string         `gorm:"uniqueIndex;size:191" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash, never serialized
	Role      string         `gorm:"size:32;default:user" json:"role"`
	Phone     string         `gorm:"size:32" json:"phone,omitempty"`
	Address   string         `gorm:"size:255" json:"address,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
