package models

import "time"

// ContactStatus tracks triage of a contact form submission.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// Valid reports whether s is a known contact status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:120;not null" json:"name"`
	Email     string        `gorm:"size:191;not null;index" json:"email"`
	Phone     string        `gorm:"size:40" json:"phone"`
	Company   string        `gorm:"size:120" json:"company"`
	Subject   string        `gorm:"size:200" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    ContactStatus `gorm:"size:20;not null;default:'new';index" json:"status"`
	IPAddress string        `gorm:"size:64" json:"ipAddress"`
	UserAgent string        `gorm:"size:300" json:"userAgent"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
