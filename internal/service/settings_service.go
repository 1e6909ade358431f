package service

import (
	"context"
	"net/url"
	"strings"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/validation"
)

// SettingsService serves the singleton settings row from an in-process memo.
type SettingsService struct {
	repo repository.SettingRepository
	memo *cache.Memo[models.Setting]
}

type SettingsInput struct {
	SiteName           *string            `json:"siteName"`
	Tagline            *string            `json:"tagline"`
	ContactEmail       *string            `json:"contactEmail"`
	ContactPhone       *string            `json:"contactPhone"`
	Address            *string            `json:"address"`
	SocialLinks        *map[string]string `json:"socialLinks"`
	MaintenanceMode    *bool              `json:"maintenanceMode"`
	AllowRegistration  *bool              `json:"allowRegistration"`
	ContactFormEnabled *bool              `json:"contactFormEnabled"`
}

func NewSettingsService(repo repository.SettingRepository) *SettingsService {
	s := &SettingsService{repo: repo}
	s.memo = cache.NewMemo(s.load)
	return s
}

func (s *SettingsService) load(ctx context.Context) (models.Setting, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return models.Setting{}, err
	}
	if stored == nil {
		return *models.DefaultSetting(), nil
	}
	if stored.SocialLinks == nil {
		stored.SocialLinks = map[string]string{}
	}
	return *stored, nil
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get(ctx context.Context) (*models.Setting, error) {
	v, err := s.memo.Get(ctx)
	if err != nil {
		return nil, err
	}
	links := make(map[string]string, len(v.SocialLinks))
	for k, l := range v.SocialLinks {
		links[k] = l
	}
	v.SocialLinks = links
	return &v, nil
}

func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*models.Setting, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if in.SiteName != nil {
		if cur.SiteName, err = requireText("siteName", in.SiteName, 120); err != nil {
			return nil, err
		}
	}
	if err := setText(&cur.Tagline, "tagline", in.Tagline, 300); err != nil {
		return nil, err
	}
	if in.ContactEmail != nil {
		email := strings.TrimSpace(*in.ContactEmail)
		if email != "" {
			if err := validation.ValidateEmail(email); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
		}
		cur.ContactEmail = email
	}
	if err := setText(&cur.ContactPhone, "contactPhone", in.ContactPhone, 40); err != nil {
		return nil, err
	}
	if err := setText(&cur.Address, "address", in.Address, 300); err != nil {
		return nil, err
	}
	if in.SocialLinks != nil {
		links := make(map[string]string, len(*in.SocialLinks))
		for name, link := range *in.SocialLinks {
			name = strings.ToLower(strings.TrimSpace(name))
			link = strings.TrimSpace(link)
			if name == "" || link == "" {
				continue
			}
			if u, err := url.Parse(link); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return nil, models.NewValidationError("social link " + name + " must be an http(s) URL")
			}
			links[name] = link
		}
		cur.SocialLinks = links
	}
	if in.MaintenanceMode != nil {
		cur.MaintenanceMode = *in.MaintenanceMode
	}
	if in.AllowRegistration != nil {
		cur.AllowRegistration = *in.AllowRegistration
	}
	if in.ContactFormEnabled != nil {
		cur.ContactFormEnabled = *in.ContactFormEnabled
	}

	cur.ID = models.SettingID
	if err := s.repo.Save(ctx, cur); err != nil {
		return nil, err
	}
	s.memo.Invalidate()
	return s.Get(ctx)
}

// Invalidate drops the memoised settings, e.g. after a seed run.
func (s *SettingsService) Invalidate() {
	s.memo.Invalidate()
}
