package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizsite/internal/licensekey"
	"bizsite/internal/models"
	"bizsite/internal/observability"
	"bizsite/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type LicenseService struct {
	repo      repository.LicenseRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	generator *licensekey.Generator
	now       Clock
}

type LicenseInput struct {
	ProductID      *uint      `json:"productId"`
	ProductName    *string    `json:"productName"`
	UserID         *uint      `json:"userId"`
	Status         *string    `json:"status"`
	MaxActivations *int       `json:"maxActivations"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	Notes          *string    `json:"notes"`
	// ResetActivations clears the activation count and domain.
	ResetActivations bool `json:"resetActivations"`
}

type ListLicensesInput struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	Status    string `query:"status"`
	ProductID uint   `query:"productId"`
	UserID    uint   `query:"userId"`
}

// LicenseLookup is the public view of a license. It never carries the owner.
type LicenseLookup struct {
	Key             string               `json:"key"`
	Status          models.LicenseStatus `json:"status"`
	ProductID       *uint                `json:"productId"`
	ProductName     string               `json:"productName"`
	MaxActivations  int                  `json:"maxActivations"`
	ActivationCount int                  `json:"activationCount"`
	ActivatedAt     *time.Time           `json:"activatedAt"`
	ExpiresAt       *time.Time           `json:"expiresAt"`
}

func NewLicenseService(repo repository.LicenseRepository, products repository.ProductRepository, users repository.UserRepository, generator *licensekey.Generator, now Clock) *LicenseService {
	if generator == nil {
		generator = licensekey.NewGenerator(repo.KeyExists)
	}
	if now == nil {
		now = time.Now
	}
	return &LicenseService{repo: repo, products: products, users: users, generator: generator, now: now}
}

func (s *LicenseService) List(ctx context.Context, in ListLicensesInput) (models.Page[models.License], error) {
	f := repository.Filters{}.SearchIf(in.Search, "key", "product_name", "domain")
	if in.Status != "" {
		status, err := parseLicenseStatus(in.Status)
		if err != nil {
			return models.Page[models.License]{}, err
		}
		f = append(f, repository.Eq("status", status))
	}
	f = f.EqIf(in.ProductID != 0, "product_id", in.ProductID).
		EqIf(in.UserID != 0, "user_id", in.UserID)

	page := models.PageRequest{Page: in.Page, Limit: in.Limit}.Normalize()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.License]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *LicenseService) Get(ctx context.Context, id uint) (*models.License, error) {
	return s.repo.GetByID(ctx, id)
}

// Create issues a new key. The license starts active when a user is attached
// and unused otherwise.
func (s *LicenseService) Create(ctx context.Context, in LicenseInput) (*models.License, error) {
	l := &models.License{Status: models.LicenseUnused, MaxActivations: 1}
	if err := s.setProduct(ctx, l, in); err != nil {
		return nil, err
	}
	if l.ProductName == "" {
		return nil, models.NewValidationError("productId or productName is required")
	}
	if err := s.setUser(ctx, l, in.UserID); err != nil {
		return nil, err
	}
	if l.UserID != nil {
		l.Status = models.LicenseActive
	}
	if err := s.apply(l, in); err != nil {
		return nil, err
	}

	key, err := s.generator.Generate(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	l.Key = key

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, l.ID)
}

// Update assigns, revokes or extends a license.
func (s *LicenseService) Update(ctx context.Context, id uint, in LicenseInput) (*models.License, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.setProduct(ctx, l, in); err != nil {
		return nil, err
	}

	hadUser := l.UserID != nil
	if err := s.setUser(ctx, l, in.UserID); err != nil {
		return nil, err
	}
	if !hadUser && l.UserID != nil && l.Status == models.LicenseUnused {
		l.Status = models.LicenseActive
	}

	if in.ExpiresAt != nil && l.Status == models.LicenseExpired && in.ExpiresAt.After(s.now()) {
		l.Status = models.LicenseUnused
		if l.UserID != nil || l.ActivationCount > 0 {
			l.Status = models.LicenseActive
		}
	}
	if err := s.apply(l, in); err != nil {
		return nil, err
	}
	if in.ResetActivations {
		l.ActivationCount = 0
		l.Domain = ""
		l.ActivatedAt = nil
	}

	l.Product = nil
	l.User = nil
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, l.ID)
}

func (s *LicenseService) setProduct(ctx context.Context, l *models.License, in LicenseInput) error {
	if in.ProductID != nil {
		if *in.ProductID == 0 {
			l.ProductID = nil
		} else {
			p, err := s.products.GetByID(ctx, *in.ProductID)
			if err != nil {
				if models.IsCode(err, models.CodeNotFound) {
					return models.NewValidationError(fmt.Sprintf("product %d does not exist", *in.ProductID))
				}
				return err
			}
			id := p.ID
			l.ProductID = &id
			l.ProductName = p.Name
		}
	}
	if in.ProductName != nil {
		name, err := requireText("productName", in.ProductName, 200)
		if err != nil {
			return err
		}
		l.ProductName = name
	}
	return nil
}

func (s *LicenseService) setUser(ctx context.Context, l *models.License, userID *uint) error {
	if userID == nil {
		return nil
	}
	if *userID == 0 {
		l.UserID = nil
		return nil
	}
	exists, err := s.users.Exists(ctx, repository.Eq("id", *userID))
	if err != nil {
		return err
	}
	if !exists {
		return models.NewValidationError(fmt.Sprintf("user %d does not exist", *userID))
	}
	id := *userID
	l.UserID = &id
	return nil
}

func (s *LicenseService) apply(l *models.License, in LicenseInput) error {
	if in.Status != nil {
		status, err := parseLicenseStatus(*in.Status)
		if err != nil {
			return err
		}
		l.Status = status
	}
	if in.MaxActivations != nil {
		if *in.MaxActivations < 1 || *in.MaxActivations > 10000 {
			return models.NewValidationError("maxActivations must be between 1 and 10000")
		}
		l.MaxActivations = *in.MaxActivations
	}
	if in.ExpiresAt != nil {
		if in.ExpiresAt.IsZero() {
			l.ExpiresAt = nil
		} else {
			t := in.ExpiresAt.UTC()
			l.ExpiresAt = &t
		}
	}
	return setText(&l.Notes, "notes", in.Notes, 5000)
}

// Delete removes the license permanently.
func (s *LicenseService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Lookup returns the public view of key.
func (s *LicenseService) Lookup(ctx context.Context, key string) (*LicenseLookup, error) {
	l, err := s.findByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.lookupOf(l), nil
}

// Activate records an activation of key on domain. Only active, unexpired
// licenses below their activation cap can be activated.
func (s *LicenseService) Activate(ctx context.Context, key, domain string) (*LicenseLookup, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, models.NewValidationError("domain is required")
	}
	if _, err := checkLength("domain", domain, 255); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "license.activate", attribute.String("license.domain", domain))
	res, err := s.activate(ctx, key, domain)
	observability.EndSpan(span, err)
	return res, err
}

func (s *LicenseService) activate(ctx context.Context, key, domain string) (*LicenseLookup, error) {
	l, err := s.findByKey(ctx, key)
	if err != nil {
		observability.LicenseActivations.WithLabelValues("not_found").Inc()
		return nil, err
	}
	now := s.now()
	if status := l.EffectiveStatus(now); status != models.LicenseActive {
		observability.LicenseActivations.WithLabelValues(string(status)).Inc()
		return nil, models.NewConflictError(fmt.Sprintf("license is %s", status))
	}

	fields := map[string]any{"domain": domain}
	if l.ActivatedAt == nil {
		fields["activated_at"] = now.UTC()
	}
	ok, err := s.repo.IncrementActivation(ctx, l.ID, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.LicenseActivations.WithLabelValues("limit_reached").Inc()
		return nil, models.NewConflictError("license has reached its activation limit")
	}
	observability.LicenseActivations.WithLabelValues("activated").Inc()

	updated, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return s.lookupOf(updated), nil
}

func (s *LicenseService) findByKey(ctx context.Context, key string) (*models.License, error) {
	key = licensekey.Normalize(key)
	if !licensekey.Valid(key) {
		return nil, models.NewValidationError("license key must look like XXXX-XXXX-XXXX-XXXX-XXXX-XXXX")
	}
	return s.repo.GetByKey(ctx, key)
}

func (s *LicenseService) lookupOf(l *models.License) *LicenseLookup {
	return &LicenseLookup{
		Key:             l.Key,
		Status:          l.EffectiveStatus(s.now()),
		ProductID:       l.ProductID,
		ProductName:     l.ProductName,
		MaxActivations:  l.MaxActivations,
		ActivationCount: l.ActivationCount,
		ActivatedAt:     l.ActivatedAt,
		ExpiresAt:       l.ExpiresAt,
	}
}

func parseLicenseStatus(s string) (models.LicenseStatus, error) {
	status := models.LicenseStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", models.NewValidationError("status must be one of unused, active, expired, revoked")
	}
	return status, nil
}
