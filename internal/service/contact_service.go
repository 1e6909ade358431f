package service

import (
	"context"
	"strings"

	"bizsite/internal/models"
	"bizsite/internal/observability"
	"bizsite/internal/repository"
	"bizsite/internal/security"
	"bizsite/internal/validation"
)

type ContactService struct {
	repo      repository.ContactRepository
	settings  *SettingsService
	sanitizer *security.Sanitizer
}

// ContactSubmission is a public contact form post. IPAddress and UserAgent
// are filled in by the handler.
type ContactSubmission struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type ListContactsInput struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Status string `query:"status"`
}

func NewContactService(repo repository.ContactRepository, settings *SettingsService, sanitizer *security.Sanitizer) *ContactService {
	return &ContactService{repo: repo, settings: settings, sanitizer: sanitizer}
}

// Submit stores a contact message when the contact form is enabled.
func (s *ContactService) Submit(ctx context.Context, in ContactSubmission) (*models.Contact, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.ContactFormEnabled {
		return nil, models.NewForbiddenError("The contact form is currently disabled")
	}

	clean := func(v string) *string {
		out := s.sanitizer.Text(v)
		return &out
	}
	c := &models.Contact{Status: models.ContactNew}
	if c.Name, err = requireText("name", clean(in.Name), 120); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	c.Email = email
	if c.Message, err = requireText("message", clean(in.Message), 5000); err != nil {
		return nil, err
	}
	if err := setText(&c.Phone, "phone", clean(in.Phone), 40); err != nil {
		return nil, err
	}
	if err := setText(&c.Company, "company", clean(in.Company), 120); err != nil {
		return nil, err
	}
	if err := setText(&c.Subject, "subject", clean(in.Subject), 200); err != nil {
		return nil, err
	}
	c.IPAddress = truncate(in.IPAddress, 64)
	c.UserAgent = truncate(in.UserAgent, 300)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	observability.ContactSubmissions.Inc()
	return c, nil
}

func (s *ContactService) List(ctx context.Context, in ListContactsInput) (models.Page[models.Contact], error) {
	f := repository.Filters{}.SearchIf(in.Search, "name", "email", "company", "subject")
	if in.Status != "" {
		status, err := parseContactStatus(in.Status)
		if err != nil {
			return models.Page[models.Contact]{}, err
		}
		f = append(f, repository.Eq("status", status))
	}
	page := models.PageRequest{Page: in.Page, Limit: in.Limit}.Normalize()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.Contact]{}, err
	}
	return models.NewPage(items, total, page), nil
}

// Get returns a contact and marks it read if it was new.
func (s *ContactService) Get(ctx context.Context, id uint) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.ContactNew {
		c.Status = models.ContactRead
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Contact, error) {
	st, err := parseContactStatus(status)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = st
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func parseContactStatus(s string) (models.ContactStatus, error) {
	status := models.ContactStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", models.NewValidationError("status must be one of new, read, replied, archived")
	}
	return status, nil
}
