package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bizsite/internal/auth"
	"bizsite/internal/models"
	"bizsite/internal/observability"
	"bizsite/internal/repository"
	"bizsite/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt cost for stored password hashes.
var hashCost = bcrypt.DefaultCost

// OAuthProvider is the part of auth.Provider the auth service needs.
type OAuthProvider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.Profile, error)
}

type AuthService struct {
	users     repository.UserRepository
	settings  *SettingsService
	tokens    *auth.TokenCodec
	providers map[models.Provider]OAuthProvider
	states    auth.StateStore
	now       Clock
}

type AuthServiceConfig struct {
	Users     repository.UserRepository
	Settings  *SettingsService
	Tokens    *auth.TokenCodec
	Providers []OAuthProvider
	States    auth.StateStore
	Now       Clock
}

// AuthResult is a user together with a freshly issued session token.
type AuthResult struct {
	User            *models.User `json:"user"`
	Token           string       `json:"-"`
	NeedsOnboarding bool         `json:"needsOnboarding"`
	IsNew           bool         `json:"-"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type LoginInput struct {
	// Identifier is an email address or a username.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type OnboardingInput struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	s := &AuthService{
		users:     cfg.Users,
		settings:  cfg.Settings,
		tokens:    cfg.Tokens,
		providers: make(map[models.Provider]OAuthProvider, len(cfg.Providers)),
		states:    cfg.States,
		now:       cfg.Now,
	}
	for _, p := range cfg.Providers {
		s.providers[models.Provider(p.Name())] = p
	}
	if s.states == nil {
		s.states = auth.NewMemoryStateStore()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Providers lists the configured OAuth provider names.
func (s *AuthService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range []models.Provider{models.ProviderGitHub, models.ProviderGoogle} {
		if _, ok := s.providers[p]; ok {
			names = append(names, string(p))
		}
	}
	return names
}

// Register creates a local account when registration is enabled.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AllowRegistration {
		return nil, models.NewForbiddenError("Registration is disabled")
	}

	var username *string
	if strings.TrimSpace(in.Username) != "" {
		username = &in.Username
	}
	u, err := createLocalUser(ctx, s.users, localUserInput{
		Email:    in.Email,
		Username: username,
		FullName: in.FullName,
		Password: in.Password,
		Role:     models.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return s.session(u, false)
}

// Login authenticates a password account. Accounts created through OAuth
// have no usable password and are always rejected.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")
	id := strings.TrimSpace(in.Identifier)
	if id == "" || in.Password == "" {
		return nil, models.NewValidationError("identifier and password are required")
	}

	var (
		u   *models.User
		err error
	)
	if strings.Contains(id, "@") {
		u, err = s.users.GetByEmail(ctx, id)
	} else {
		u, err = s.users.GetByUsername(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if u == nil || !u.LocalAuth {
		observability.LoginAttempts.WithLabelValues("password", "failure").Inc()
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		observability.LoginAttempts.WithLabelValues("password", "failure").Inc()
		return nil, invalid
	}
	if !u.IsActive {
		observability.LoginAttempts.WithLabelValues("password", "disabled").Inc()
		return nil, models.NewForbiddenError("Account is disabled")
	}

	observability.LoginAttempts.WithLabelValues("password", "success").Inc()
	s.touchLogin(ctx, u)
	return s.session(u, false)
}

// Me returns the current user. Inactive accounts read as unauthorized.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Session user no longer exists")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, models.NewForbiddenError("Account is disabled")
	}
	return u, nil
}

// CompleteOnboarding sets the username and profile fields and issues a token
// without the onboarding flag.
func (s *AuthService) CompleteOnboarding(ctx context.Context, userID uint, in OnboardingInput) (*AuthResult, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := ensureUsernameFree(ctx, s.users, username, u.ID); err != nil {
		return nil, err
	}
	fullName, err := checkLength("fullName", strings.TrimSpace(in.FullName), 120)
	if err != nil {
		return nil, err
	}
	phone, err := checkLength("phone", strings.TrimSpace(in.Phone), 40)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"username": username, "phone": phone}
	if fullName != "" {
		fields["full_name"] = fullName
	}
	if err := s.users.UpdateFields(ctx, u.ID, fields); err != nil {
		return nil, err
	}
	u, err = s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return s.session(u, false)
}

func (s *AuthService) provider(name string) (OAuthProvider, error) {
	p, ok := s.providers[models.Provider(strings.ToLower(name))]
	if !ok {
		return nil, models.NewNotFoundError("OAuth provider", name)
	}
	return p, nil
}

// AuthURL builds the provider authorization URL for state without storing it.
func (s *AuthService) AuthURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.AuthURL(state), nil
}

// BeginOAuth issues and stores a state value and returns the redirect URL.
func (s *AuthService) BeginOAuth(ctx context.Context, provider string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	state := auth.NewState()
	if err := s.states.Save(ctx, state, p.Name(), auth.DefaultStateTTL); err != nil {
		return "", models.NewInternalError(fmt.Errorf("save oauth state: %w", err))
	}
	return p.AuthURL(state), nil
}

// HandleCallback completes the authorization code flow: it checks state,
// exchanges code for a profile, resolves the local user and issues a session.
func (s *AuthService) HandleCallback(ctx context.Context, provider, code, state string) (*AuthResult, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}
	if code == "" || state == "" {
		return nil, models.NewValidationError("code and state are required")
	}
	issuedFor, ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("consume oauth state: %w", err))
	}
	if !ok || issuedFor != p.Name() {
		observability.LoginAttempts.WithLabelValues(p.Name(), "bad_state").Inc()
		return nil, models.NewUnauthorizedError("OAuth state is invalid or expired")
	}

	exchangeCtx, span := observability.StartSpan(ctx, "oauth.exchange", attribute.String("oauth.provider", p.Name()))
	profile, err := p.Exchange(exchangeCtx, code)
	observability.EndSpan(span, err)
	if err != nil {
		observability.LoginAttempts.WithLabelValues(p.Name(), "upstream_error").Inc()
		slog.WarnContext(ctx, "oauth exchange failed", "provider", p.Name(), "error", err)
		return nil, models.NewUpstreamError(err)
	}

	u, isNew, err := s.FindOrCreateUser(ctx, models.Provider(p.Name()), profile)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		observability.LoginAttempts.WithLabelValues(p.Name(), "disabled").Inc()
		return nil, models.NewForbiddenError("Account is disabled")
	}
	observability.LoginAttempts.WithLabelValues(p.Name(), "success").Inc()
	s.touchLogin(ctx, u)
	return s.session(u, isNew)
}

// FindOrCreateUser resolves profile to a local user: by provider identity
// first, then by email (linking the provider to that account), and finally by
// creating a new account with no usable password.
func (s *AuthService) FindOrCreateUser(ctx context.Context, provider models.Provider, profile *auth.Profile) (*models.User, bool, error) {
	if profile == nil || profile.ID == "" {
		return nil, false, models.NewUpstreamError(fmt.Errorf("%s profile has no id", provider))
	}

	u, err := s.users.GetByProvider(ctx, provider, profile.ID)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		return u, false, nil
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email != "" {
		u, err = s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if u != nil {
			fields := map[string]any{"provider": provider, "provider_id": profile.ID}
			if u.AvatarURL == "" && profile.AvatarURL != "" {
				fields["avatar_url"] = profile.AvatarURL
			}
			if err := s.users.UpdateFields(ctx, u.ID, fields); err != nil {
				return nil, false, err
			}
			linked, err := s.users.GetByID(ctx, u.ID)
			return linked, false, err
		}
	}

	if email == "" {
		if provider != models.ProviderGitHub {
			return nil, false, models.NewUpstreamError(fmt.Errorf("%s profile has no email", provider))
		}
		email = profile.ID + "@users.noreply.github.com"
		if profile.Login != "" {
			email = fmt.Sprintf("%s+%s@users.noreply.github.com", profile.ID, strings.ToLower(profile.Login))
		}
	}

	hash, err := randomPasswordHash()
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	providerID := profile.ID
	fullName, _ := checkLength("fullName", strings.TrimSpace(profile.Name), 120)
	u = &models.User{
		Email:        email,
		FullName:     fullName,
		AvatarURL:    profile.AvatarURL,
		Provider:     provider,
		ProviderID:   &providerID,
		Role:         models.RoleUser,
		IsActive:     true,
		PasswordHash: hash,
		LocalAuth:    false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			// Lost a race with a concurrent callback for the same account.
			if existing, lookupErr := s.users.GetByProvider(ctx, provider, profile.ID); lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return u, true, nil
}

// IssueSession signs a token for u. New users and users without a username
// must complete onboarding first.
func (s *AuthService) IssueSession(u *models.User, isNew bool) (string, error) {
	return s.tokens.Sign(u.ID, isNew || u.NeedsOnboarding())
}

func (s *AuthService) session(u *models.User, isNew bool) (*AuthResult, error) {
	token, err := s.IssueSession(u, isNew)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("sign session: %w", err))
	}
	return &AuthResult{
		User:            u,
		Token:           token,
		NeedsOnboarding: isNew || u.NeedsOnboarding(),
		IsNew:           isNew,
	}, nil
}

func (s *AuthService) touchLogin(ctx context.Context, u *models.User) {
	now := s.now().UTC()
	if err := s.users.UpdateFields(ctx, u.ID, map[string]any{"last_login_at": now}); err != nil {
		slog.WarnContext(ctx, "failed to record login time", "user_id", u.ID, "error", err)
		return
	}
	u.LastLoginAt = &now
}

func ensureUsernameFree(ctx context.Context, users repository.UserRepository, username string, selfID uint) error {
	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return models.NewConflictError("Username is already taken")
	}
	return nil
}

type localUserInput struct {
	Email    string
	Username *string
	FullName string
	Phone    string
	Password string
	Role     models.Role
}

// createLocalUser validates and stores a password account.
func createLocalUser(ctx context.Context, users repository.UserRepository, in localUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.Role.Valid() {
		return nil, models.NewValidationError("role must be admin or user")
	}
	fullName, err := checkLength("fullName", strings.TrimSpace(in.FullName), 120)
	if err != nil {
		return nil, err
	}
	phone, err := checkLength("phone", strings.TrimSpace(in.Phone), 40)
	if err != nil {
		return nil, err
	}

	var username *string
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if err := ensureUsernameFree(ctx, users, name, 0); err != nil {
			return nil, err
		}
		username = &name
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Phone:        phone,
		Provider:     models.ProviderLocal,
		Role:         in.Role,
		IsActive:     true,
		PasswordHash: string(hash),
		LocalAuth:    true,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// randomPasswordHash hashes 32 random bytes nobody ever sees.
func randomPasswordHash() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash random password: %w", err)
	}
	return string(hash), nil
}
