package service

import (
	"context"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
)

// OfferingService manages the services the business sells.
type OfferingService struct {
	repo   repository.OfferingRepository
	public publicCache
}

type OfferingInput struct {
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Summary        *string   `json:"summary"`
	Description    *string   `json:"description"`
	Icon           *string   `json:"icon"`
	PriceFromCents *int64    `json:"priceFromCents"`
	Features       *[]string `json:"features"`
	SortOrder      *int      `json:"sortOrder"`
	Status         *string   `json:"status"`
	IsFeatured     *bool     `json:"isFeatured"`
}

func NewOfferingService(repo repository.OfferingRepository, c *cache.Cache) *OfferingService {
	return &OfferingService{repo: repo, public: publicCache{cache: c, kind: cache.KindServices}}
}

func (s *OfferingService) List(ctx context.Context, in ListContentInput) (models.Page[models.Service], error) {
	in.CategoryID = 0
	f, err := in.filters("title", "slug", "summary")
	if err != nil {
		return models.Page[models.Service]{}, err
	}
	page := in.PageRequest()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.Service]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *OfferingService) ListPublic(ctx context.Context, in ListContentInput) (models.Page[models.Service], error) {
	in.Status = string(models.StatusPublished)
	var page models.Page[models.Service]
	err := s.public.list(ctx, in, &page, func() error {
		var err error
		page, err = s.List(ctx, in)
		return err
	})
	return page, err
}

func (s *OfferingService) GetPublic(ctx context.Context, slug string) (*models.Service, error) {
	var svc models.Service
	err := s.public.slug(ctx, slug, &svc, func() error {
		found, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if found.Status != models.StatusPublished {
			return models.NewNotFoundError("Service", slug)
		}
		svc = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *OfferingService) Get(ctx context.Context, id uint) (*models.Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OfferingService) Create(ctx context.Context, in OfferingInput) (*models.Service, error) {
	title, err := requireText("title", in.Title, 200)
	if err != nil {
		return nil, err
	}
	svc := &models.Service{Title: title, Status: models.StatusDraft, Features: []string{}}
	if err := s.apply(svc, in); err != nil {
		return nil, err
	}
	if svc.Slug, err = resolveSlug(ctx, s.repo, in.Slug, title, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return svc, nil
}

func (s *OfferingService) Update(ctx context.Context, id uint, in OfferingInput) (*models.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if svc.Title, err = requireText("title", in.Title, 200); err != nil {
			return nil, err
		}
	}
	if err := s.apply(svc, in); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if svc.Slug, err = resolveSlug(ctx, s.repo, in.Slug, svc.Title, svc.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return svc, nil
}

func (s *OfferingService) apply(svc *models.Service, in OfferingInput) error {
	if err := setText(&svc.Summary, "summary", in.Summary, 500); err != nil {
		return err
	}
	if err := setText(&svc.Description, "description", in.Description, 20000); err != nil {
		return err
	}
	if err := setText(&svc.Icon, "icon", in.Icon, 80); err != nil {
		return err
	}
	if in.PriceFromCents != nil {
		if *in.PriceFromCents < 0 {
			return models.NewValidationError("priceFromCents must not be negative")
		}
		svc.PriceFromCents = *in.PriceFromCents
	}
	if in.Features != nil {
		features, err := cleanList(*in.Features, 50, 200)
		if err != nil {
			return err
		}
		svc.Features = features
	}
	if in.SortOrder != nil {
		svc.SortOrder = *in.SortOrder
	}
	if err := setStatus(&svc.Status, in.Status); err != nil {
		return err
	}
	if in.IsFeatured != nil {
		svc.IsFeatured = *in.IsFeatured
	}
	return nil
}

func (s *OfferingService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.public.invalidate(ctx)
	return nil
}
