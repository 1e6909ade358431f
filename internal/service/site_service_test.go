package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bizsite/internal/models"
	"bizsite/internal/requestlog"
	"bizsite/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSettingsService_DefaultsAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Business", s.SiteName)
	assert.True(t, s.AllowRegistration)
	assert.True(t, s.ContactFormEnabled)

	// Mutating the returned copy does not leak into the memo.
	s.SiteName = "mutated"
	s.SocialLinks["x"] = "y"
	again, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Business", again.SiteName)
	assert.Empty(t, again.SocialLinks)

	updated, err := env.settings.Update(ctx, SettingsInput{
		SiteName:     ptr("Acme Studio"),
		ContactEmail: ptr("hello@acme.example"),
		SocialLinks:  ptr(map[string]string{"GitHub": "https://github.com/acme", "empty": ""}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", updated.SiteName)
	assert.Equal(t, map[string]string{"github": "https://github.com/acme"}, updated.SocialLinks)

	// The memo was dropped on update, so this reads the persisted row.
	stored, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", stored.SiteName)

	_, err = env.settings.Update(ctx, SettingsInput{ContactEmail: ptr("nope")})
	assertCode(t, err, models.CodeValidation)
	_, err = env.settings.Update(ctx, SettingsInput{SocialLinks: ptr(map[string]string{"x": "ftp://x"})})
	assertCode(t, err, models.CodeValidation)
	_, err = env.settings.Update(ctx, SettingsInput{SiteName: ptr(" ")})
	assertCode(t, err, models.CodeValidation)
}

func TestSetupService(t *testing.T) {
	env := newTestEnv(t)
	setup := NewSetupService(env.users)
	users := NewUserService(env.users, setup)
	ctx := context.Background()

	status, err := setup.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.NeedsSetup)

	_, err = setup.CreateFirstAdmin(ctx, SetupInput{Email: "owner@example.com", Username: "x", Password: goodPassword})
	assertCode(t, err, models.CodeValidation)

	admin, err := setup.CreateFirstAdmin(ctx, SetupInput{Email: "owner@example.com", Username: "owner", FullName: "Owner", Password: goodPassword})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.False(t, admin.NeedsOnboarding())

	status, err = setup.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.NeedsSetup)

	_, err = setup.CreateFirstAdmin(ctx, SetupInput{Email: "second@example.com", Username: "second", Password: goodPassword})
	assertCode(t, err, models.CodeForbidden)

	// Demoting the only admin through the user service reopens setup.
	member := testutil.CreateUser(t, env.db, "helper", models.RoleAdmin)
	_, err = users.Update(ctx, member.ID, admin.ID, UpdateUserInput{Role: ptr("user")})
	require.NoError(t, err)
	_, err = users.Update(ctx, admin.ID, member.ID, UpdateUserInput{IsActive: ptr(false)})
	require.NoError(t, err)
	status, err = setup.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.NeedsSetup)
}

func TestSetupService_ConcurrentFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	setup := NewSetupService(env.users)
	ctx := context.Background()

	const callers = 8
	var created, forbidden atomic.Int32
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		in := SetupInput{
			Email:    fmt.Sprintf("owner%d@example.com", i),
			Username: fmt.Sprintf("owner%d", i),
			Password: goodPassword,
		}
		g.Go(func() error {
			_, err := setup.CreateFirstAdmin(ctx, in)
			switch {
			case err == nil:
				created.Add(1)
			case models.IsCode(err, models.CodeForbidden):
				forbidden.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, callers-1, forbidden.Load())
	n, err := env.users.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestContactService(t *testing.T) {
	env := newTestEnv(t)
	svc := NewContactService(env.contacts, env.settings, env.sanitizer)
	ctx := context.Background()

	c, err := svc.Submit(ctx, ContactSubmission{
		Name:      "<b>Jane</b>",
		Email:     "Jane@Example.com",
		Subject:   "Quote",
		Message:   "Hello <script>alert(1)</script>there",
		IPAddress: "203.0.113.9",
		UserAgent: strings.Repeat("a", 400),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.Name)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.NotContains(t, c.Message, "<script>")
	assert.Equal(t, models.ContactNew, c.Status)
	assert.Len(t, c.UserAgent, 300)

	_, err = svc.Submit(ctx, ContactSubmission{Name: "J", Email: "bad", Message: "hi"})
	assertCode(t, err, models.CodeValidation)
	_, err = svc.Submit(ctx, ContactSubmission{Name: "J", Email: "j@example.com", Message: "  "})
	assertCode(t, err, models.CodeValidation)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactRead, got.Status)

	replied, err := svc.UpdateStatus(ctx, c.ID, "replied")
	require.NoError(t, err)
	assert.Equal(t, models.ContactReplied, replied.Status)
	_, err = svc.UpdateStatus(ctx, c.ID, "spam")
	assertCode(t, err, models.CodeValidation)

	list, err := svc.List(ctx, ListContactsInput{Status: "replied"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	_, err = env.settings.Update(ctx, SettingsInput{ContactFormEnabled: ptr(false)})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ContactSubmission{Name: "J", Email: "j@example.com", Message: "hi"})
	assertCode(t, err, models.CodeForbidden)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assertCode(t, svc.Delete(ctx, c.ID), models.CodeNotFound)
}

func TestDashboardService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, "boss", models.RoleAdmin)
	testutil.CreateUser(t, env.db, "member", models.RoleUser)

	products := NewProductService(env.products, env.categories, nil)
	_, err := products.Create(ctx, ProductInput{Name: ptr("One"), Status: ptr("published")})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{Name: ptr("Two")})
	require.NoError(t, err)

	blog := NewBlogService(env.blog, env.categories, env.sanitizer, nil, fixedClock)
	_, err = blog.Create(ctx, admin.ID, BlogPostInput{Title: ptr("Post"), Content: ptr("<p>body</p>")})
	require.NoError(t, err)

	licenses := newLicenseService(env)
	_, err = licenses.Create(ctx, LicenseInput{ProductName: ptr("One")})
	require.NoError(t, err)
	_, err = licenses.Create(ctx, LicenseInput{ProductName: ptr("One"), ExpiresAt: ptr(fixedNow.Add(-time.Hour))})
	require.NoError(t, err)

	ring := requestlog.New(10)
	ring.Add(requestlog.Entry{Method: "GET", Path: "/api/products", Status: 200, Latency: time.Millisecond})
	ring.Add(requestlog.Entry{Method: "GET", Path: "/missing", Status: 404, Latency: time.Millisecond})

	svc := NewDashboardService(DashboardRepos{
		Users:      env.users,
		Categories: env.categories,
		Products:   env.products,
		Services:   env.offerings,
		Projects:   env.projects,
		Blog:       env.blog,
		Licenses:   env.licenses,
		Contacts:   env.contacts,
	}, ring, fixedClock)

	d, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Counts.Users)
	assert.EqualValues(t, 1, d.Counts.Admins)
	assert.EqualValues(t, 2, d.Counts.Products)
	assert.EqualValues(t, 1, d.Counts.BlogPosts)
	assert.EqualValues(t, 2, d.Counts.Licenses)
	assert.EqualValues(t, 2, d.LicensesBy["unused"])
	assert.EqualValues(t, 1, d.ExpiredLicenses)
	assert.EqualValues(t, 1, d.PublishedBy["products"])
	require.Len(t, d.RecentPosts, 1)
	assert.Empty(t, d.RecentPosts[0].Content)
	require.NotNil(t, d.Requests)
	assert.EqualValues(t, 2, d.Requests.Total)
	assert.Len(t, d.RecentRequests, 2)
}

func TestToolsService(t *testing.T) {
	at := time.Unix(1_700_000_020, 0)
	svc := NewToolsService(func() time.Time { return at }, nil)

	res, err := svc.TOTP("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.Len(t, res.Code, 6)
	assert.Equal(t, 20, res.Remaining)
	assert.Equal(t, 30, res.Period)

	_, err = svc.TOTP("not base32!")
	assertCode(t, err, models.CodeValidation)

	secret, err := svc.TOTPSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)

	pw, err := svc.Password(PasswordOptions{Length: 24, Symbols: true})
	require.NoError(t, err)
	assert.Len(t, pw, 24)
	assert.True(t, strings.ContainsAny(pw, lowerChars))
	assert.True(t, strings.ContainsAny(pw, upperChars))
	assert.True(t, strings.ContainsAny(pw, digitChars))
	assert.True(t, strings.ContainsAny(pw, symbolChars))

	def, err := svc.Password(PasswordOptions{})
	require.NoError(t, err)
	assert.Len(t, def, DefaultPasswordLength)
	assert.False(t, strings.ContainsAny(def, symbolChars))

	_, err = svc.Password(PasswordOptions{Length: 4})
	assertCode(t, err, models.CodeValidation)

	assert.Len(t, svc.UUID(), 36)

	slug, err := svc.Slugify("Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", slug)
	_, err = svc.Slugify("!!!")
	assertCode(t, err, models.CodeValidation)
}
