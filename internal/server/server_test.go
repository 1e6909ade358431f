package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"bizsite/internal/auth"
	"bizsite/internal/config"
	"bizsite/internal/models"
	"bizsite/internal/service"
	"bizsite/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret    = "test-secret-key-12345678901234567890123456789012"
	testPublicURL = "http://site.test"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		Port:               "0",
		DatabaseURL:        "sqlite::memory:",
		JWTSecret:          testSecret,
		SessionTTLHours:    1,
		CookieName:         "session",
		PublicURL:          testPublicURL,
		AllowedOrigins:     testPublicURL,
		RequestLogCapacity: 100,
	}
}

type fakeProvider struct {
	name    string
	profile *auth.Profile
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthURL(state string) string {
	return "https://" + f.name + ".test/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*auth.Profile, error) {
	if code != "good-code" {
		return nil, io.ErrUnexpectedEOF
	}
	return f.profile, nil
}

type testServer struct {
	*Server
	db  *gorm.DB
	app *fiber.App
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	s, err := NewServerWithDeps(testConfig(), db, nil, opts...)
	require.NoError(t, err)
	return &testServer{Server: s, db: db, app: s.App()}
}

// tokenFor signs a session for an existing user.
func (ts *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := ts.tokens.Sign(u.ID, u.NeedsOnboarding())
	require.NoError(t, err)
	return token
}

func (ts *testServer) admin(t *testing.T) string {
	t.Helper()
	return ts.tokenFor(t, testutil.CreateUser(t, ts.db, "admin", models.RoleAdmin))
}

type response struct {
	*http.Response
	Body map[string]any
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := response{Response: resp}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.Body))
	}
	return out
}

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func list(t *testing.T, v any) []any {
	t.Helper()
	l, ok := v.([]any)
	require.True(t, ok, "expected array, got %T", v)
	return l
}

var _ service.OAuthProvider = (*fakeProvider)(nil)

func itoa(n int) string { return strconv.Itoa(n) }
