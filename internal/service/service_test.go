package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"bizsite/internal/auth"
	"bizsite/internal/models"
	"bizsite/internal/observability"
	"bizsite/internal/repository"
	"bizsite/internal/security"
	"bizsite/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type testEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	offerings  repository.OfferingRepository
	projects   repository.ProjectRepository
	blog       repository.BlogRepository
	licenses   repository.LicenseRepository
	contacts   repository.ContactRepository
	settings   *SettingsService
	tokens     *auth.TokenCodec
	sanitizer  *security.Sanitizer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	return &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
		offerings:  repository.NewOfferingRepository(db),
		projects:   repository.NewProjectRepository(db),
		blog:       repository.NewBlogRepository(db),
		licenses:   repository.NewLicenseRepository(db),
		contacts:   repository.NewContactRepository(db),
		settings:   NewSettingsService(repository.NewSettingRepository(db)),
		tokens:     auth.NewTokenCodec(testSecret, time.Hour, auth.WithClock(fixedClock)),
		sanitizer:  security.NewSanitizer(),
	}
}

// recordSpans routes observability spans into a recorder for the rest of t.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		observability.Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func spanNamed(t *testing.T, rec *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	t.Helper()
	var out []sdktrace.ReadOnlySpan
	for _, s := range rec.Ended() {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

// fakeProvider is an OAuthProvider returning a canned profile.
type fakeProvider struct {
	name    string
	profile *auth.Profile
	err     error
	codes   []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthURL(state string) string {
	return "https://" + f.name + ".example/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*auth.Profile, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func (e *testEnv) authService(providers ...OAuthProvider) *AuthService {
	return NewAuthService(AuthServiceConfig{
		Users:     e.users,
		Settings:  e.settings,
		Tokens:    e.tokens,
		Providers: providers,
		Now:       fixedClock,
	})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
}

func ptr[T any](v T) *T { return &v }
