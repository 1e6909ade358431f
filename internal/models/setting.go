package models

import "time"

// SettingID is the primary key of the singleton settings row.
const SettingID uint = 1

// Setting holds site-wide configuration. Exactly one row exists.
type Setting struct {
	ID                 uint              `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SiteName           string            `gorm:"size:120;not null" json:"siteName"`
	Tagline            string            `gorm:"size:300" json:"tagline"`
	ContactEmail       string            `gorm:"size:191" json:"contactEmail"`
	ContactPhone       string            `gorm:"size:40" json:"contactPhone"`
	Address            string            `gorm:"size:300" json:"address"`
	SocialLinks        map[string]string `gorm:"serializer:json;type:text" json:"socialLinks"`
	MaintenanceMode    bool              `gorm:"not null" json:"maintenanceMode"`
	AllowRegistration  bool              `gorm:"not null" json:"allowRegistration"`
	ContactFormEnabled bool              `gorm:"not null" json:"contactFormEnabled"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// DefaultSetting is used when the settings row has not been written yet.
func DefaultSetting() *Setting {
	return &Setting{
		ID:                 SettingID,
		SiteName:           "My Business",
		SocialLinks:        map[string]string{},
		AllowRegistration:  true,
		ContactFormEnabled: true,
	}
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Service{},
		&Project{},
		&BlogPost{},
		&License{},
		&Contact{},
		&Setting{},
	}
}
