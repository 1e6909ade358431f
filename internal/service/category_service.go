package service

import (
	"context"
	"strings"

	"bizsite/internal/models"
	"bizsite/internal/repository"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Kind        *string `json:"kind"`
	Status      *string `json:"status"`
	SortOrder   *int    `json:"sortOrder"`
}

type ListCategoriesInput struct {
	ListContentInput
	Kind string `query:"kind"`
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, in ListCategoriesInput) (models.Page[models.Category], error) {
	f, err := in.filters("name", "slug")
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	if in.Kind != "" {
		kind, err := parseKind(in.Kind)
		if err != nil {
			return models.Page[models.Category]{}, err
		}
		f = append(f, repository.Eq("kind", kind))
	}
	page := in.PageRequest()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return models.NewPage(items, total, page), nil
}

// ListPublic returns published categories, optionally of one kind.
func (s *CategoryService) ListPublic(ctx context.Context, kind string) ([]models.Category, error) {
	in := ListCategoriesInput{Kind: kind}
	in.Status = string(models.StatusPublished)
	in.Limit = models.MaxPageSize
	page, err := s.List(ctx, in)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name, err := requireText("name", in.Name, 120)
	if err != nil {
		return nil, err
	}
	cat := &models.Category{Name: name, Kind: models.CategoryProduct, Status: models.StatusPublished}
	if err := s.apply(cat, in); err != nil {
		return nil, err
	}
	if cat.Slug, err = resolveSlug(ctx, s.repo, in.Slug, name, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if cat.Name, err = requireText("name", in.Name, 120); err != nil {
			return nil, err
		}
	}
	if err := s.apply(cat, in); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if cat.Slug, err = resolveSlug(ctx, s.repo, in.Slug, cat.Name, cat.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) apply(cat *models.Category, in CategoryInput) error {
	if err := setText(&cat.Description, "description", in.Description, 2000); err != nil {
		return err
	}
	if in.Kind != nil {
		kind, err := parseKind(*in.Kind)
		if err != nil {
			return err
		}
		cat.Kind = kind
	}
	if err := setStatus(&cat.Status, in.Status); err != nil {
		return err
	}
	if in.SortOrder != nil {
		cat.SortOrder = *in.SortOrder
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func parseKind(s string) (models.CategoryKind, error) {
	kind := models.CategoryKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", models.NewValidationError("kind must be one of product, service, project, blog")
	}
	return kind, nil
}
