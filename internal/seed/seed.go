// Package seed loads baseline rows and optional demo content into the
// database. Demo content is intended for development only.
package seed

import (
	_ "embed"
	"fmt"
	"log/slog"

	"bizsite/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the baseline data shipped with the application.
type Fixtures struct {
	Settings   SettingsFixture   `yaml:"settings"`
	Categories []CategoryFixture `yaml:"categories"`
}

type SettingsFixture struct {
	SiteName           string            `yaml:"siteName"`
	Tagline            string            `yaml:"tagline"`
	ContactEmail       string            `yaml:"contactEmail"`
	SocialLinks        map[string]string `yaml:"socialLinks"`
	AllowRegistration  bool              `yaml:"allowRegistration"`
	ContactFormEnabled bool              `yaml:"contactFormEnabled"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
}

// LoadFixtures parses the embedded fixture file.
func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// ParseFixtures decodes raw and rejects unknown category kinds.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for _, c := range f.Categories {
		if !models.CategoryKind(c.Kind).Valid() {
			return nil, fmt.Errorf("category %q has unknown kind %q", c.Slug, c.Kind)
		}
	}
	return &f, nil
}

// Baseline inserts the settings row and the fixture categories. Rows that
// already exist are never overwritten, so running it twice is harmless.
func Baseline(db *gorm.DB, f *Fixtures) error {
	return db.Transaction(func(tx *gorm.DB) error {
		settings := models.DefaultSetting()
		if f.Settings.SiteName != "" {
			settings.SiteName = f.Settings.SiteName
		}
		settings.Tagline = f.Settings.Tagline
		settings.ContactEmail = f.Settings.ContactEmail
		if f.Settings.SocialLinks != nil {
			settings.SocialLinks = f.Settings.SocialLinks
		}
		settings.AllowRegistration = f.Settings.AllowRegistration
		settings.ContactFormEnabled = f.Settings.ContactFormEnabled
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(settings).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}

		for i, c := range f.Categories {
			cat := models.Category{
				Name:        c.Name,
				Slug:        c.Slug,
				Kind:        models.CategoryKind(c.Kind),
				Description: c.Description,
				Status:      models.StatusPublished,
				SortOrder:   i,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoNothing: true,
			}).Create(&cat).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
		}
		slog.Info("baseline data ready", "categories", len(f.Categories))
		return nil
	})
}
