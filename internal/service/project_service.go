package service

import (
	"context"
	"time"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
)

type ProjectService struct {
	repo       repository.ProjectRepository
	categories repository.CategoryRepository
	public     publicCache
}

type ProjectInput struct {
	Title        *string    `json:"title"`
	Slug         *string    `json:"slug"`
	Summary      *string    `json:"summary"`
	Description  *string    `json:"description"`
	ClientName   *string    `json:"clientName"`
	ProjectURL   *string    `json:"projectUrl"`
	ImageURL     *string    `json:"imageUrl"`
	Technologies *[]string  `json:"technologies"`
	CategoryID   *uint      `json:"categoryId"`
	CompletedAt  *time.Time `json:"completedAt"`
	Status       *string    `json:"status"`
	IsFeatured   *bool      `json:"isFeatured"`
}

func NewProjectService(repo repository.ProjectRepository, categories repository.CategoryRepository, c *cache.Cache) *ProjectService {
	return &ProjectService{repo: repo, categories: categories, public: publicCache{cache: c, kind: cache.KindProjects}}
}

func (s *ProjectService) List(ctx context.Context, in ListContentInput) (models.Page[models.Project], error) {
	f, err := in.filters("title", "slug", "summary", "client_name")
	if err != nil {
		return models.Page[models.Project]{}, err
	}
	page := in.PageRequest()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.Project]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *ProjectService) ListPublic(ctx context.Context, in ListContentInput) (models.Page[models.Project], error) {
	in.Status = string(models.StatusPublished)
	var page models.Page[models.Project]
	err := s.public.list(ctx, in, &page, func() error {
		var err error
		page, err = s.List(ctx, in)
		return err
	})
	return page, err
}

func (s *ProjectService) GetPublic(ctx context.Context, slug string) (*models.Project, error) {
	var p models.Project
	err := s.public.slug(ctx, slug, &p, func() error {
		found, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if found.Status != models.StatusPublished {
			return models.NewNotFoundError("Project", slug)
		}
		p = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	title, err := requireText("title", in.Title, 200)
	if err != nil {
		return nil, err
	}
	p := &models.Project{Title: title, Status: models.StatusDraft, Technologies: []string{}}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if p.Slug, err = resolveSlug(ctx, s.repo, in.Slug, title, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return s.repo.GetByID(ctx, p.ID)
}

func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if p.Title, err = requireText("title", in.Title, 200); err != nil {
			return nil, err
		}
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if p.Slug, err = resolveSlug(ctx, s.repo, in.Slug, p.Title, p.ID); err != nil {
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

func (s *ProjectService) apply(ctx context.Context, p *models.Project, in ProjectInput) error {
	if err := setText(&p.Summary, "summary", in.Summary, 500); err != nil {
		return err
	}
	if err := setText(&p.Description, "description", in.Description, 20000); err != nil {
		return err
	}
	if err := setText(&p.ClientName, "clientName", in.ClientName, 120); err != nil {
		return err
	}
	if err := setURL(&p.ProjectURL, "projectUrl", in.ProjectURL); err != nil {
		return err
	}
	if err := setURL(&p.ImageURL, "imageUrl", in.ImageURL); err != nil {
		return err
	}
	if in.Technologies != nil {
		tech, err := cleanList(*in.Technologies, 30, 60)
		if err != nil {
			return err
		}
		p.Technologies = tech
	}
	if err := setCategory(ctx, s.categories, &p.CategoryID, in.CategoryID, models.CategoryProject); err != nil {
		return err
	}
	if in.CompletedAt != nil {
		if in.CompletedAt.IsZero() {
			p.CompletedAt = nil
		} else {
			t := in.CompletedAt.UTC()
			p.CompletedAt = &t
		}
	}
	if err := setStatus(&p.Status, in.Status); err != nil {
		return err
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.public.invalidate(ctx)
	return nil
}
