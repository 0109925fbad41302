package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates what a staff account may do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleKitchen  Role = "kitchen"
	RoleDispatch Role = "dispatch"
)

// User is a staff account. Customers never log in; they only hit the
// public registration endpoint.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:'kitchen'" json:"role"`
}
