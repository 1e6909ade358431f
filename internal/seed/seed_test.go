package seed

import (
	"context"
	"testing"

	"bizsite/internal/licensekey"
	"bizsite/internal/models"
	"bizsite/internal/testutil"
	"bizsite/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	require.NoError(t, err)
	assert.Equal(t, "My Business", f.Settings.SiteName)
	assert.True(t, f.Settings.ContactFormEnabled)
	require.NotEmpty(t, f.Categories)
	for _, c := range f.Categories {
		assert.NoError(t, validation.ValidateSlug(c.Slug), c.Slug)
	}
}

func TestParseFixtures_UnknownKind(t *testing.T) {
	_, err := ParseFixtures([]byte("categories:\n  - name: X\n    slug: x\n    kind: widget\n"))
	assert.ErrorContains(t, err, "unknown kind")
}

func TestBaselineIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	f, err := LoadFixtures()
	require.NoError(t, err)

	require.NoError(t, Baseline(db, f))

	// Admin edits survive a second run.
	require.NoError(t, db.Model(&models.Setting{}).Where("id = ?", models.SettingID).Update("site_name", "Renamed").Error)
	require.NoError(t, Baseline(db, f))

	var settings models.Setting
	require.NoError(t, db.First(&settings, models.SettingID).Error)
	assert.Equal(t, "Renamed", settings.SiteName)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(f.Categories)), count)
}

func TestDemo(t *testing.T) {
	db := testutil.NewDB(t)
	f, err := LoadFixtures()
	require.NoError(t, err)
	require.NoError(t, Baseline(db, f))
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)

	opts := Options{Users: 3, Products: 2, Services: 2, Projects: 2, Posts: 4, Contacts: 5, Licenses: 10}
	s := NewSeeder(db, 42)
	res, err := s.Demo(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 3, Products: 2, Services: 2, Projects: 2, Posts: 4, Contacts: 5, Licenses: 10}, res)

	var licenses []models.License
	require.NoError(t, db.Find(&licenses).Error)
	require.Len(t, licenses, 10)
	for _, l := range licenses {
		assert.True(t, licensekey.Valid(l.Key), l.Key)
		assert.LessOrEqual(t, l.ActivationCount, l.MaxActivations)
	}

	var posts []models.BlogPost
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.NoError(t, validation.ValidateSlug(p.Slug))
		require.NotNil(t, p.AuthorID)
		assert.Equal(t, admin.ID, *p.AuthorID)
		assert.Equal(t, p.Status == models.StatusPublished, p.PublishedAt != nil)
	}

	require.NoError(t, s.ClearDemo())
	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, admin.ID, users[0].ID)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Zero(t, products)
}
