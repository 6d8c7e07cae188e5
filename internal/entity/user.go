package entity

import (
	"time"
)

// Roles form a closed set. Anything outside of it is rejected at
// registration and at role changes.
const (
	RoleClient  = "client"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Clients submit announcements; staff
// (manager/admin) run the workflow.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Username  string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Email     string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Password  string    `json:"-" gorm:"size:128;not null"`
	Role      string    `json:"role" gorm:"size:16;not null;default:client"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may run workflow transitions.
func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
