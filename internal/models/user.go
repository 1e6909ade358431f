// Package models contains the persisted records and shared API error types.
package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Provider identifies where an account authenticates.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGitHub Provider = "github"
	ProviderGoogle Provider = "google"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderLocal, ProviderGitHub, ProviderGoogle:
		return true
	}
	return false
}

// User is an identity record. A (provider, provider_id) pair and an email
// each map to at most one row.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     *string    `gorm:"size:30;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"size:120" json:"fullName"`
	Phone        string     `gorm:"size:40" json:"phone"`
	AvatarURL    string     `gorm:"size:500" json:"avatarUrl"`
	Provider     Provider   `gorm:"size:20;not null;default:'local';uniqueIndex:idx_users_provider_identity" json:"provider"`
	ProviderID   *string    `gorm:"size:191;uniqueIndex:idx_users_provider_identity" json:"-"`
	Role         Role       `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	PasswordHash string     `gorm:"not null" json:"-"`
	LocalAuth    bool       `gorm:"not null" json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NeedsOnboarding reports whether the user still has to pick a username.
func (u *User) NeedsOnboarding() bool {
	return u.Username == nil || *u.Username == ""
}

// IsAdmin reports whether the stored role grants admin access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin && u.IsActive
}

// UsernameOrEmpty dereferences Username.
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
