// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserRole is the privilege level of an account.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusActive      UserStatus = "active"
	StatusSuspended   UserStatus = "suspended"
	StatusDeactivated UserStatus = "deactivated"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDeactivated:
		return true
	}
	return false
}

// User represents an account in the tactac application.
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Username           string     `gorm:"size:30;not null" json:"username"`
	UsernameLower      string     `gorm:"size:30;not null;uniqueIndex" json:"-"`
	Email              string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password           string     `gorm:"not null" json:"-"`
	Role               UserRole   `gorm:"size:16;not null;default:user;index" json:"role"`
	Status             UserStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	ProfileImage       string     `json:"profileImage"`
	Bio                string     `gorm:"type:text" json:"bio"`
	PostCount          int        `gorm:"not null;default:0" json:"postCount"`
	TotalLikesReceived int        `gorm:"not null;default:0" json:"totalLikesReceived"`
	CreatedAt          time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BeforeSave keeps the case-insensitive lookup keys in step with the display values.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.UsernameLower = strings.ToLower(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the user may act on authenticated endpoints.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// PublicProfile is the view of a user exposed to anyone.
type PublicProfile struct {
	ID                 uint      `json:"id"`
	Username           string    `json:"username"`
	ProfileImage       string    `json:"profileImage"`
	Bio                string    `json:"bio"`
	PostCount          int       `json:"postCount"`
	TotalLikesReceived int       `json:"totalLikesReceived"`
	CreatedAt          time.Time `json:"createdAt"`
}

// OwnProfile is the view of a user exposed to the user themselves and to admins.
type OwnProfile struct {
	PublicProfile
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AuthorSummary is the compact user reference embedded in posts and comments.
type AuthorSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:                 u.ID,
		Username:           u.Username,
		ProfileImage:       u.ProfileImage,
		Bio:                u.Bio,
		PostCount:          u.PostCount,
		TotalLikesReceived: u.TotalLikesReceived,
		CreatedAt:          u.CreatedAt,
	}
}

// Own projects the user onto the profile visible to its owner.
func (u *User) Own() OwnProfile {
	return OwnProfile{
		PublicProfile: u.Public(),
		Email:         u.Email,
		Role:          u.Role,
		Status:        u.Status,
		UpdatedAt:     u.UpdatedAt,
	}
}

// Summary returns the author reference for u.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, Username: u.Username, ProfileImage: u.ProfileImage}
}
