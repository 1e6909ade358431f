package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeProviderServer struct {
	*httptest.Server
	user   map[string]any
	emails []map[string]any
	failed bool
}

func newFakeProviderServer(t *testing.T) *fakeProviderServer {
	f := &fakeProviderServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if f.failed || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(f.user)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.emails)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeProviderServer) config() ProviderConfig {
	return ProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/api/auth/github/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.URL + "/authorize",
			TokenURL:  f.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		ProfileURL: f.URL + "/user",
		EmailsURL:  f.URL + "/user/emails",
	}
}

func TestProviderAuthURL(t *testing.T) {
	p := NewGitHubProvider(ProviderConfig{ClientID: "abc", RedirectURL: "http://localhost/cb"})

	raw := p.AuthURL("state-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	q := u.Query()
	assert.Equal(t, "abc", q.Get("client_id"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "read:user user:email", q.Get("scope"))
	assert.Equal(t, "github", p.Name())

	g := NewGoogleProvider(ProviderConfig{ClientID: "abc", RedirectURL: "http://localhost/cb"})
	gu, err := url.Parse(g.AuthURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", gu.Host)
	assert.Equal(t, "openid email profile", gu.Query().Get("scope"))
}

func TestGitHubExchange(t *testing.T) {
	srv := newFakeProviderServer(t)
	srv.user = map[string]any{"id": 1234, "login": "octo", "name": "", "email": "", "avatar_url": "http://img/a.png"}
	srv.emails = []map[string]any{
		{"email": "secondary@example.com", "primary": false, "verified": true},
		{"email": "octo@example.com", "primary": true, "verified": true},
	}

	p := NewGitHubProvider(srv.config())
	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "1234", profile.ID)
	assert.Equal(t, "octo@example.com", profile.Email)
	assert.Equal(t, "octo", profile.Name)
	assert.Equal(t, "octo", profile.Login)
	assert.Equal(t, "http://img/a.png", profile.AvatarURL)
}

func TestGoogleExchange(t *testing.T) {
	srv := newFakeProviderServer(t)
	srv.user = map[string]any{"id": "g-77", "email": "g@example.com", "verified_email": true, "name": "Gee", "picture": "http://img/g.png"}

	cfg := srv.config()
	cfg.EmailsURL = ""
	p := NewGoogleProvider(cfg)
	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "g-77", Email: "g@example.com", Name: "Gee", AvatarURL: "http://img/g.png"}, profile)

	t.Run("unverified email is dropped", func(t *testing.T) {
		srv.user = map[string]any{"id": "g-78", "email": "victim@example.com", "verified_email": false, "name": "Mallory"}
		profile, err := p.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "g-78", profile.ID)
		assert.Empty(t, profile.Email)
	})

	t.Run("missing verification flag counts as unverified", func(t *testing.T) {
		srv.user = map[string]any{"id": "g-79", "email": "victim@example.com"}
		profile, err := p.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Empty(t, profile.Email)
	})
}

func TestExchangeFailures(t *testing.T) {
	srv := newFakeProviderServer(t)
	srv.user = map[string]any{"id": 1, "login": "x"}
	p := NewGitHubProvider(srv.config())

	_, err := p.Exchange(context.Background(), "")
	assert.Error(t, err)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)

	srv.user = map[string]any{"login": "no-id"}
	_, err = p.Exchange(context.Background(), "good-code")
	assert.Error(t, err)
}

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state := NewState()
	require.NoError(t, store.Save(ctx, state, "github", DefaultStateTTL))

	provider, ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "github", provider)

	_, ok, err = store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok, "state is single use")

	require.NoError(t, store.Save(ctx, "expired", "google", 0))
	_, ok, _ = store.Consume(ctx, "expired")
	assert.False(t, ok)
}
