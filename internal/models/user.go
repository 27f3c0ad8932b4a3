package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles control what a user may do; Badges are the public marker shown
// next to their name on posts and comments.
const (
	RoleGeneral = "general"
	RolePremium = "premium"
	RoleAdmin   = "admin"

	BadgeBronze = "bronze"
	BadgeGold   = "gold"
)

// User represents a registered community member.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role  string `gorm:"not null;default:general" json:"role"`
	Badge string `gorm:"not null;default:bronze" json:"badge"`

	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`

	// PremiumSince is set once when the user upgrades and never cleared.
	PremiumSince *time.Time `json:"premium_since,omitempty"`

	WarningsCount int `gorm:"not null;default:0" json:"warnings_count"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsPremium() bool {
	return u.Role == RolePremium || u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the recognized account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleGeneral, RolePremium, RoleAdmin:
		return true
	}
	return false
}
