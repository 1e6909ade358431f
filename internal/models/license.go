package models

import "time"

// LicenseStatus is the lifecycle state of a license key.
type LicenseStatus string

const (
	LicenseUnused  LicenseStatus = "unused"
	LicenseActive  LicenseStatus = "active"
	LicenseExpired LicenseStatus = "expired"
	LicenseRevoked LicenseStatus = "revoked"
)

// Valid reports whether s is a known license status.
func (s LicenseStatus) Valid() bool {
	switch s {
	case LicenseUnused, LicenseActive, LicenseExpired, LicenseRevoked:
		return true
	}
	return false
}

// License is an opaque product key, optionally owned by a user.
type License struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Key             string        `gorm:"size:29;not null;uniqueIndex" json:"key"`
	ProductID       *uint         `gorm:"index" json:"productId"`
	Product         *Product      `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName     string        `gorm:"size:200;not null" json:"productName"`
	UserID          *uint         `gorm:"index" json:"userId"`
	User            *User         `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Status          LicenseStatus `gorm:"size:20;not null;default:'unused';index" json:"status"`
	MaxActivations  int           `gorm:"not null;default:1" json:"maxActivations"`
	ActivationCount int           `gorm:"not null;default:0" json:"activationCount"`
	Domain          string        `gorm:"size:255" json:"domain"`
	ActivatedAt     *time.Time    `json:"activatedAt"`
	ExpiresAt       *time.Time    `json:"expiresAt"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// EffectiveStatus reports expired for active or unused keys past ExpiresAt.
func (l *License) EffectiveStatus(now time.Time) LicenseStatus {
	if l.Status == LicenseRevoked || l.Status == LicenseExpired {
		return l.Status
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
		return LicenseExpired
	}
	return l.Status
}
