package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
	googleUserURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Profile is a provider account normalised to the fields the app stores.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	Login     string
}

// ProviderConfig configures one OAuth provider. The URL fields default to the
// real provider endpoints and are overridable for tests.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoint     oauth2.Endpoint
	ProfileURL   string
	EmailsURL    string
	HTTPClient   *http.Client
}

// Provider performs the authorization code flow against a single provider.
type Provider struct {
	name       string
	oauth      *oauth2.Config
	profileURL string
	emailsURL  string
	client     *http.Client
	decode     func(ctx context.Context, p *Provider, c *http.Client) (*Profile, error)
}

// NewGitHubProvider builds a GitHub provider. Empty endpoint fields use github.com.
func NewGitHubProvider(cfg ProviderConfig) *Provider {
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = github.Endpoint
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = githubUserURL
	}
	if cfg.EmailsURL == "" {
		cfg.EmailsURL = githubEmailsURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"read:user", "user:email"}
	}
	return newProvider("github", cfg, fetchGitHubProfile)
}

// NewGoogleProvider builds a Google provider. Empty endpoint fields use Google.
func NewGoogleProvider(cfg ProviderConfig) *Provider {
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = googleUserURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	return newProvider("google", cfg, fetchGoogleProfile)
}

func newProvider(name string, cfg ProviderConfig, decode func(context.Context, *Provider, *http.Client) (*Profile, error)) *Provider {
	return &Provider{
		name: name,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     cfg.Endpoint,
		},
		profileURL: cfg.ProfileURL,
		emailsURL:  cfg.EmailsURL,
		client:     cfg.HTTPClient,
		decode:     decode,
	}
}

// Name returns the provider identifier ("github" or "google").
func (p *Provider) Name() string {
	return p.name
}

// AuthURL returns the consent page URL carrying state. It performs no I/O.
func (p *Provider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades code for an access token and fetches the account profile.
// Provider error bodies are wrapped into the returned error; callers must not
// show them to end users.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}
	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", p.name, err)
	}
	if !tok.Valid() {
		return nil, fmt.Errorf("%s token exchange: empty access token", p.name)
	}

	profile, err := p.decode(ctx, p, p.oauth.Client(ctx, tok))
	if err != nil {
		return nil, fmt.Errorf("%s profile: %w", p.name, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%s profile: missing account id", p.name)
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, dst)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func fetchGitHubProfile(ctx context.Context, p *Provider, client *http.Client) (*Profile, error) {
	var u githubUser
	if err := getJSON(ctx, client, p.profileURL, &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, errors.New("missing id in user response")
	}

	profile := &Profile{
		ID:        strconv.FormatInt(u.ID, 10),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Login:     u.Login,
	}
	if profile.Name == "" {
		profile.Name = u.Login
	}

	// Users with a private email only expose it through /user/emails.
	if profile.Email == "" && p.emailsURL != "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, p.emailsURL, &emails); err == nil {
			profile.Email = pickGitHubEmail(emails)
		}
	}
	return profile, nil
}

func pickGitHubEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, p *Provider, client *http.Client) (*Profile, error) {
	var u googleUser
	if err := getJSON(ctx, client, p.profileURL, &u); err != nil {
		return nil, err
	}
	profile := &Profile{ID: u.ID, Name: u.Name, AvatarURL: u.Picture}
	// An unverified address is never used for account linking.
	if u.VerifiedEmail {
		profile.Email = u.Email
	}
	return profile, nil
}
