package service

import (
	"context"
	"log/slog"
	"time"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/security"
)

// BlogService manages blog posts. Post content is sanitised on every write.
type BlogService struct {
	repo       repository.BlogRepository
	categories repository.CategoryRepository
	sanitizer  *security.Sanitizer
	public     publicCache
	now        Clock
}

type BlogPostInput struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage"`
	CategoryID *uint     `json:"categoryId"`
	Tags       *[]string `json:"tags"`
	Status     *string   `json:"status"`
}

func NewBlogService(repo repository.BlogRepository, categories repository.CategoryRepository, sanitizer *security.Sanitizer, c *cache.Cache, now Clock) *BlogService {
	if now == nil {
		now = time.Now
	}
	return &BlogService{
		repo:       repo,
		categories: categories,
		sanitizer:  sanitizer,
		public:     publicCache{cache: c, kind: cache.KindBlog},
		now:        now,
	}
}

func (s *BlogService) List(ctx context.Context, in ListContentInput) (models.Page[models.BlogPost], error) {
	f, err := in.filters("title", "slug", "excerpt")
	if err != nil {
		return models.Page[models.BlogPost]{}, err
	}
	page := in.PageRequest()
	items, total, err := s.repo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.BlogPost]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *BlogService) ListPublic(ctx context.Context, in ListContentInput) (models.Page[models.BlogPost], error) {
	in.Status = string(models.StatusPublished)
	in.Featured = ""
	var page models.Page[models.BlogPost]
	err := s.public.list(ctx, in, &page, func() error {
		var err error
		page, err = s.List(ctx, in)
		for i := range page.Items {
			page.Items[i].Content = ""
		}
		return err
	})
	return page, err
}

// GetPublic returns a published post and counts the view. The counter is
// bumped even when the post itself is served from cache.
func (s *BlogService) GetPublic(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.public.slug(ctx, slug, &post, func() error {
		found, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if found.Status != models.StatusPublished {
			return models.NewNotFoundError("Blog post", slug)
		}
		post = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		slog.WarnContext(ctx, "blog view count update failed", "post_id", post.ID, "error", err)
	} else {
		post.ViewCount++
	}
	return &post, nil
}

func (s *BlogService) Get(ctx context.Context, id uint) (*models.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a post authored by authorID.
func (s *BlogService) Create(ctx context.Context, authorID uint, in BlogPostInput) (*models.BlogPost, error) {
	title, err := requireText("title", in.Title, 300)
	if err != nil {
		return nil, err
	}
	post := &models.BlogPost{Title: title, Status: models.StatusDraft, Tags: []string{}}
	if authorID != 0 {
		post.AuthorID = &authorID
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if post.Slug, err = resolveSlug(ctx, s.repo, in.Slug, title, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return s.repo.GetByID(ctx, post.ID)
}

func (s *BlogService) Update(ctx context.Context, id uint, in BlogPostInput) (*models.BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if post.Title, err = requireText("title", in.Title, 300); err != nil {
			return nil, err
		}
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if post.Slug, err = resolveSlug(ctx, s.repo, in.Slug, post.Title, post.ID); err != nil {
			return nil, err
		}
	}
	post.Author = nil
	post.Category = nil
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.public.invalidate(ctx)
	return s.repo.GetByID(ctx, post.ID)
}

func (s *BlogService) apply(ctx context.Context, post *models.BlogPost, in BlogPostInput) error {
	if in.Excerpt != nil {
		plain := s.sanitizer.Text(*in.Excerpt)
		if err := setText(&post.Excerpt, "excerpt", &plain, 500); err != nil {
			return err
		}
	}
	if in.Content != nil {
		clean := s.sanitizer.HTML(*in.Content)
		if err := setText(&post.Content, "content", &clean, 200000); err != nil {
			return err
		}
	}
	if err := setURL(&post.CoverImage, "coverImage", in.CoverImage); err != nil {
		return err
	}
	if err := setCategory(ctx, s.categories, &post.CategoryID, in.CategoryID, models.CategoryBlog); err != nil {
		return err
	}
	if in.Tags != nil {
		tags, err := cleanList(*in.Tags, 20, 40)
		if err != nil {
			return err
		}
		post.Tags = tags
	}
	if err := setStatus(&post.Status, in.Status); err != nil {
		return err
	}
	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		t := s.now().UTC()
		post.PublishedAt = &t
	}
	return nil
}

func (s *BlogService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.public.invalidate(ctx)
	return nil
}
