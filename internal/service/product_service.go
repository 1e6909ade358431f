package service

import (
	"context"
	"regexp"
	"strings"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	public     publicCache
}

type ProductInput struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	PriceCents  *int64    `json:"priceCents"`
	Currency    *string   `json:"currency"`
	ImageURL    *string   `json:"imageUrl"`
	DownloadURL *string   `json:"downloadUrl"`
	Version     *string   `json:"version"`
	Features    *[]string `json:"features"`
	CategoryID  *uint     `json:"categoryId"`
	Status      *string   `json:"status"`
	IsFeatured  *bool     `json:"isFeatured"`
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, c *cache.Cache) *ProductService {
	return &ProductService{repo: repo, categories: categories, public: publicCache{cache: c, kind: cache.KindProducts}}
}

func (s *ProductService) List(ctx context.Context, in ListContentInput) (models.Page[models.Product], error) {
	f, err := in.filters("name", "slug", "summary")
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	page := in.PageRequest()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return models.NewPage(items, total, page), nil
}

// ListPublic lists published products without download links.
func (s *ProductService) ListPublic(ctx context.Context, in ListContentInput) (models.Page[models.Product], error) {
	in.Status = string(models.StatusPublished)
	var page models.Page[models.Product]
	err := s.public.list(ctx, in, &page, func() error {
		var err error
		page, err = s.List(ctx, in)
		for i := range page.Items {
			page.Items[i].DownloadURL = ""
		}
		return err
	})
	return page, err
}

// GetPublic returns a published product by slug.
func (s *ProductService) GetPublic(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := s.public.slug(ctx, slug, &p, func() error {
		found, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if found.Status != models.StatusPublished {
			return models.NewNotFoundError("Product", slug)
		}
		p = *found
		p.DownloadURL = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	name, err := requireText("name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	p := &models.Product{Name: name, Currency: "USD", Status: models.StatusDraft, Features: []string{}}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if p.Slug, err = resolveSlug(ctx, s.repo, in.Slug, name, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return s.repo.GetByID(ctx, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if p.Name, err = requireText("name", in.Name, 200); err != nil {
			return nil, err
		}
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if p.Slug, err = resolveSlug(ctx, s.repo, in.Slug, p.Name, p.ID); err != nil {
			return nil, err
		}
	}
	p.Category = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return s.repo.GetByID(ctx, p.ID)
}

func (s *ProductService) apply(ctx context.Context, p *models.Product, in ProductInput) error {
	if err := setText(&p.Summary, "summary", in.Summary, 500); err != nil {
		return err
	}
	if err := setText(&p.Description, "description", in.Description, 20000); err != nil {
		return err
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return models.NewValidationError("priceCents must not be negative")
		}
		p.PriceCents = *in.PriceCents
	}
	if in.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if !currencyRegex.MatchString(cur) {
			return models.NewValidationError("currency must be a 3-letter ISO code")
		}
		p.Currency = cur
	}
	if err := setURL(&p.ImageURL, "imageUrl", in.ImageURL); err != nil {
		return err
	}
	if err := setURL(&p.DownloadURL, "downloadUrl", in.DownloadURL); err != nil {
		return err
	}
	if err := setText(&p.Version, "version", in.Version, 40); err != nil {
		return err
	}
	if in.Features != nil {
		features, err := cleanList(*in.Features, 50, 200)
		if err != nil {
			return err
		}
		p.Features = features
	}
	if err := setCategory(ctx, s.categories, &p.CategoryID, in.CategoryID, models.CategoryProduct); err != nil {
		return err
	}
	if err := setStatus(&p.Status, in.Status); err != nil {
		return err
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.public.invalidate(ctx)
	return nil
}
