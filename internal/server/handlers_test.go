package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"bizsite/internal/auth"
	"bizsite/internal/models"
	"bizsite/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", resp.Body["status"])

	resp = ts.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	checks := obj(t, resp.Body["checks"])
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestAdminGate(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)
	user := ts.tokenFor(t, testutil.CreateUser(t, ts.db, "plain", models.RoleUser))

	pendingAdmin := &models.User{Email: "pending@example.com", Role: models.RoleAdmin, IsActive: true, Provider: models.ProviderGitHub}
	require.NoError(t, ts.db.Create(pendingAdmin).Error)
	pending := ts.tokenFor(t, pendingAdmin)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"Anonymous", "", http.StatusUnauthorized},
		{"Garbage token", "not-a-token", http.StatusUnauthorized},
		{"Plain user", user, http.StatusForbidden},
		{"Admin without username", pending, http.StatusForbidden},
		{"Admin", admin, http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, "/api/admin/dashboard", nil, tt.token)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, resp.Body["success"])
		})
	}
}

func TestAdminGate_RoleChangeAppliesToLiveSession(t *testing.T) {
	ts := newTestServer(t)
	u := testutil.CreateUser(t, ts.db, "promoted", models.RoleUser)
	token := ts.tokenFor(t, u)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/api/admin/users", nil, token).StatusCode)
	require.NoError(t, ts.db.Model(u).Update("role", models.RoleAdmin).Error)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/admin/users", nil, token).StatusCode)
}

func TestSetupFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/setup/status", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Body["needsSetup"])

	body := map[string]any{
		"email":    "owner@example.com",
		"username": "owner",
		"fullName": "Site Owner",
		"password": "Sup3r-Secret-Pass",
	}
	resp = ts.do(t, http.MethodPost, "/api/setup", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	assert.Equal(t, "admin", obj(t, resp.Body["user"])["role"])
	token, _ := resp.Body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, resp.Cookies())

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/admin/dashboard", nil, token).StatusCode)

	body["email"] = "second@example.com"
	body["username"] = "second"
	resp = ts.do(t, http.MethodPost, "/api/setup", body, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/setup/status", nil, "")
	assert.Equal(t, false, resp.Body["needsSetup"])
}

func TestRegisterLoginMeLogout(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "jane@example.com",
		"username": "jane",
		"fullName": "Jane Doe",
		"password": "Sup3r-Secret-Pass",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	assert.Equal(t, false, resp.Body["needsOnboarding"])
	assert.NotContains(t, obj(t, resp.Body["user"]), "passwordHash")

	resp = ts.do(t, http.MethodPost, "/api/auth/login", map[string]any{"identifier": "jane", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeUnauthorized, resp.Body["code"])

	resp = ts.do(t, http.MethodPost, "/api/auth/login", map[string]any{"identifier": "jane@example.com", "password": "Sup3r-Secret-Pass"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	token := resp.Body["token"].(string)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, token, sessionCookie.Value)

	resp = ts.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane", obj(t, resp.Body["user"])["username"])

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/auth/me", nil, "").StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Cookies())
	assert.Empty(t, resp.Cookies()[0].Value)
}

func TestRegisterDisabled(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp := ts.do(t, http.MethodPut, "/api/admin/settings", map[string]any{"allowRegistration": false}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	resp = ts.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "late@example.com", "username": "late", "password": "Sup3r-Secret-Pass",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOAuthFlow(t *testing.T) {
	gh := &fakeProvider{name: "github", profile: &auth.Profile{
		ID: "4242", Email: "octo@example.com", Name: "Octo Cat", Login: "octocat",
	}}
	ts := newTestServer(t, WithOAuthProviders(gh))

	resp := ts.do(t, http.MethodGet, "/api/auth/providers", nil, "")
	assert.Equal(t, []any{"github"}, resp.Body["providers"])

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/auth/gitlab", nil, "").StatusCode)

	begin := func(t *testing.T) string {
		t.Helper()
		resp := ts.do(t, http.MethodGet, "/api/auth/github", nil, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "github.test", loc.Host)
		state := loc.Query().Get("state")
		require.NotEmpty(t, state)
		return state
	}

	t.Run("New user lands on onboarding", func(t *testing.T) {
		state := begin(t)
		resp := ts.do(t, http.MethodGet, "/api/auth/github/callback?code=good-code&state="+url.QueryEscape(state), nil, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, testPublicURL+"/onboarding", resp.Header.Get("Location"))

		var token string
		for _, c := range resp.Cookies() {
			if c.Name == "session" {
				token = c.Value
			}
		}
		require.NotEmpty(t, token)

		// Pending onboarding: authenticated, but not yet onboarded.
		me := ts.do(t, http.MethodGet, "/api/auth/me", nil, token)
		require.Equal(t, http.StatusOK, me.StatusCode)
		assert.Equal(t, true, me.Body["needsOnboarding"])

		done := ts.do(t, http.MethodPost, "/api/auth/onboarding", map[string]any{"username": "octocat"}, token)
		require.Equal(t, http.StatusOK, done.StatusCode, done.Body)
		assert.Equal(t, false, done.Body["needsOnboarding"])
	})

	t.Run("Returning user lands on home", func(t *testing.T) {
		state := begin(t)
		resp := ts.do(t, http.MethodGet, "/api/auth/github/callback?code=good-code&state="+url.QueryEscape(state), nil, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, testPublicURL+"/", resp.Header.Get("Location"))
	})

	failures := []struct {
		name  string
		query func(t *testing.T) string
	}{
		{"Unknown state", func(*testing.T) string { return "code=good-code&state=forged" }},
		{"State reused", func(t *testing.T) string {
			state := begin(t)
			ts.do(t, http.MethodGet, "/api/auth/github/callback?code=good-code&state="+url.QueryEscape(state), nil, "")
			return "code=good-code&state=" + url.QueryEscape(state)
		}},
		{"Exchange fails", func(t *testing.T) string { return "code=bad-code&state=" + url.QueryEscape(begin(t)) }},
		{"Provider denied", func(*testing.T) string { return "error=access_denied" }},
	}
	for _, tt := range failures {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, "/api/auth/github/callback?"+tt.query(t), nil, "")
			require.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, testPublicURL+"/login?error=oauth_failed", resp.Header.Get("Location"))
			for _, c := range resp.Cookies() {
				assert.NotEqual(t, "session", c.Name)
			}
		})
	}
}

func TestContentPublishing(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp := ts.do(t, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Plugins", "kind": "product"}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	categoryID := obj(t, resp.Body["category"])["id"]

	resp = ts.do(t, http.MethodPost, "/api/admin/products", map[string]any{
		"name":        "Widget Pro",
		"summary":     "The best widget",
		"priceCents":  4900,
		"downloadUrl": "https://files.example.com/widget.zip",
		"categoryId":  categoryID,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	product := obj(t, resp.Body["product"])
	assert.Equal(t, "widget-pro", product["slug"])
	assert.Equal(t, "draft", product["status"])
	id := int(product["id"].(float64))

	// Drafts stay private.
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/products/widget-pro", nil, "").StatusCode)
	resp = ts.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Empty(t, list(t, resp.Body["products"]))

	resp = ts.do(t, http.MethodPatch, "/api/admin/products/"+itoa(id), map[string]any{"status": "published"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	resp = ts.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := list(t, resp.Body["products"])
	require.Len(t, items, 1)
	pagination := obj(t, resp.Body["pagination"])
	assert.Equal(t, float64(1), pagination["total"])

	resp = ts.do(t, http.MethodGet, "/api/products/widget-pro", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, obj(t, resp.Body["product"])["downloadUrl"])

	// Duplicate slug is a conflict.
	resp = ts.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Other", "slug": "widget-pro"}, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/admin/products/abc", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/api/admin/products/"+itoa(id), nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/admin/products/"+itoa(id), nil, admin).StatusCode)
}

func TestBlogPublicRead(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp := ts.do(t, http.MethodPost, "/api/admin/blog", map[string]any{
		"title":   "Hello World",
		"content": `<p>Hi</p><script>alert(1)</script>`,
		"status":  "published",
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	post := obj(t, resp.Body["post"])
	assert.NotContains(t, post["content"], "<script>")
	assert.NotEmpty(t, post["publishedAt"])

	resp = ts.do(t, http.MethodGet, "/api/blog", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	posts := list(t, resp.Body["posts"])
	require.Len(t, posts, 1)
	assert.Empty(t, obj(t, posts[0])["content"])

	resp = ts.do(t, http.MethodGet, "/api/blog/hello-world", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), obj(t, resp.Body["post"])["viewCount"])
}

func TestLicenseLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)
	owner := testutil.CreateUser(t, ts.db, "customer", models.RoleUser)

	resp := ts.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Widget Pro", "status": "published"}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	productID := obj(t, resp.Body["product"])["id"]

	resp = ts.do(t, http.MethodPost, "/api/admin/licenses", map[string]any{
		"productId":      productID,
		"userId":         owner.ID,
		"maxActivations": 1,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	license := obj(t, resp.Body["license"])
	assert.Equal(t, "active", license["status"])
	key := license["key"].(string)
	assert.Len(t, key, 29)

	resp = ts.do(t, http.MethodGet, "/api/licenses/lookup?key="+url.QueryEscape(strings.ToLower(key)), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	lookup := obj(t, resp.Body["license"])
	assert.Equal(t, "Widget Pro", lookup["productName"])
	assert.NotContains(t, lookup, "userId")
	assert.NotContains(t, lookup, "user")

	resp = ts.do(t, http.MethodGet, "/api/licenses/lookup?key=nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/licenses/activate", map[string]any{"key": key, "domain": "Example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Equal(t, float64(1), obj(t, resp.Body["license"])["activationCount"])

	resp = ts.do(t, http.MethodPost, "/api/licenses/activate", map[string]any{"key": key, "domain": "second.com"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	id := int(license["id"].(float64))
	resp = ts.do(t, http.MethodPatch, "/api/admin/licenses/"+itoa(id), map[string]any{"status": "revoked"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	resp = ts.do(t, http.MethodGet, "/api/licenses/lookup?key="+url.QueryEscape(key), nil, "")
	assert.Equal(t, "revoked", obj(t, resp.Body["license"])["status"])
}

func TestContactForm(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp := ts.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "Bob",
		"email":   "bob@example.com",
		"subject": "Quote",
		"message": "<b>Need</b> a website",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)

	resp = ts.do(t, http.MethodPost, "/api/contact", map[string]any{"name": "Bob", "email": "not-an-email", "message": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/admin/contacts?status=new", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	contacts := list(t, resp.Body["contacts"])
	require.Len(t, contacts, 1)
	contact := obj(t, contacts[0])
	assert.Equal(t, "Need a website", contact["message"])
	id := int(contact["id"].(float64))

	resp = ts.do(t, http.MethodGet, "/api/admin/contacts/"+itoa(id), nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "read", obj(t, resp.Body["contact"])["status"])

	resp = ts.do(t, http.MethodPatch, "/api/admin/contacts/"+itoa(id), map[string]any{"status": "replied"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "replied", obj(t, resp.Body["contact"])["status"])
}

func TestMaintenanceMode(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp := ts.do(t, http.MethodPut, "/api/admin/settings", map[string]any{"maintenanceMode": true}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	gated := []struct{ method, path string }{
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/blog"},
		{http.MethodGet, "/api/licenses/lookup?key=AAAA-AAAA-AAAA-AAAA-AAAA-AAAA"},
		{http.MethodPost, "/api/contact"},
	}
	for _, r := range gated {
		resp := ts.do(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, r.path)
		assert.Equal(t, "MAINTENANCE", resp.Body["code"], r.path)
	}

	// Settings, setup, auth, tools and the back office stay reachable.
	resp = ts.do(t, http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, obj(t, resp.Body["settings"])["maintenanceMode"])

	reachable := []struct {
		path  string
		token string
	}{
		{"/api/setup/status", ""},
		{"/api/auth/providers", ""},
		{"/api/auth/me", admin},
		{"/api/tools/uuid", ""},
		{"/api/admin/products", admin},
		{"/api/admin/settings", admin},
		{"/api/admin/dashboard", admin},
	}
	for _, r := range reachable {
		assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, r.path, nil, r.token).StatusCode, r.path)
	}

	// The admin can switch maintenance off again.
	resp = ts.do(t, http.MethodPut, "/api/admin/settings", map[string]any{"maintenanceMode": false}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/products", nil, "").StatusCode)
}

func TestTools(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/tools/password", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["password"], 20)

	resp = ts.do(t, http.MethodGet, "/api/tools/password?length=12&symbols=false", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pw := resp.Body["password"].(string)
	assert.Len(t, pw, 12)
	assert.False(t, strings.ContainsAny(pw, "!@#$%^&*()-_=+[]{}:,.?"))

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/tools/password?length=4", nil, "").StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/tools/totp", map[string]any{"secret": "JBSWY3DPEHPK3PXP"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	totp := obj(t, resp.Body["totp"])
	assert.Len(t, totp["code"], 6)
	assert.Equal(t, float64(30), totp["period"])

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/tools/totp", map[string]any{"secret": "not base32!"}, "").StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/tools/uuid", nil, "")
	assert.Len(t, resp.Body["uuid"], 36)

	resp = ts.do(t, http.MethodPost, "/api/tools/slugify", map[string]any{"text": "Hello, World!"}, "")
	assert.Equal(t, "hello-world", resp.Body["slug"])
}

func TestUserAdministration(t *testing.T) {
	ts := newTestServer(t)
	adminUser := testutil.CreateUser(t, ts.db, "admin", models.RoleAdmin)
	admin := ts.tokenFor(t, adminUser)

	resp := ts.do(t, http.MethodPost, "/api/admin/users", map[string]any{
		"email": "staff@example.com", "username": "staff", "password": "Sup3r-Secret-Pass",
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	staffID := int(obj(t, resp.Body["user"])["id"].(float64))

	resp = ts.do(t, http.MethodGet, "/api/admin/users?search=staff", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list(t, resp.Body["users"]), 1)

	resp = ts.do(t, http.MethodDelete, "/api/admin/users/"+itoa(int(adminUser.ID)), nil, admin)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodPatch, "/api/admin/users/"+itoa(staffID), map[string]any{"isActive": false}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Equal(t, false, obj(t, resp.Body["user"])["isActive"])

	resp = ts.do(t, http.MethodDelete, "/api/admin/users/"+itoa(staffID), nil, admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestLogEndpoint(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	ts.do(t, http.MethodGet, "/api/products", nil, "")
	ts.do(t, http.MethodGet, "/api/products/missing", nil, "")
	ts.do(t, http.MethodGet, "/health/live", nil, "")

	resp := ts.do(t, http.MethodGet, "/api/admin/requests", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := list(t, resp.Body["requests"])
	require.Len(t, entries, 2, "health probes are not logged")
	newest := obj(t, entries[0])
	assert.Equal(t, "/api/products/missing", newest["path"])
	assert.Equal(t, float64(http.StatusNotFound), newest["status"])

	resp = ts.do(t, http.MethodGet, "/api/admin/requests?after=2", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := list(t, resp.Body["requests"])
	// Sequence 3 is the first /api/admin/requests call.
	require.Len(t, after, 1)
	assert.Equal(t, "/api/admin/requests", obj(t, after[0])["path"])

	resp = ts.do(t, http.MethodGet, "/api/admin/ws/requests", nil, admin)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
