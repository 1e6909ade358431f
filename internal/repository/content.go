package repository

import (
	"context"

	"bizsite/internal/models"

	"gorm.io/gorm"
)

// SlugStore is a Store over a table with a unique slug column.
type SlugStore[T any] interface {
	Store[T]
	GetBySlug(ctx context.Context, slug string) (*T, error)
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type slugStore[T any] struct {
	*crudStore[T]
}

// GetBySlug returns a NotFound AppError when slug is unknown.
func (s *slugStore[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	v, err := s.FindOne(ctx, Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, models.NewNotFoundError(s.resource, slug)
	}
	return v, nil
}

// SlugTaken reports whether another row than excludeID uses slug.
func (s *slugStore[T]) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	preds := []Predicate{Eq("slug", slug)}
	if excludeID != 0 {
		preds = append(preds, Neq("id", excludeID))
	}
	return s.Exists(ctx, preds...)
}

type (
	CategoryRepository = SlugStore[models.Category]
	ProductRepository  = SlugStore[models.Product]
	OfferingRepository = SlugStore[models.Service]
	ProjectRepository  = SlugStore[models.Project]
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &slugStore[models.Category]{newCrudStore[models.Category](db, "Category", "sort_order ASC, name ASC")}
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &slugStore[models.Product]{newCrudStore[models.Product](db, "Product", "created_at DESC", "Category")}
}

func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &slugStore[models.Service]{newCrudStore[models.Service](db, "Service", "sort_order ASC, title ASC")}
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &slugStore[models.Project]{newCrudStore[models.Project](db, "Project", "created_at DESC", "Category")}
}

// BlogRepository adds view counting to the blog post store.
type BlogRepository interface {
	SlugStore[models.BlogPost]
	IncrementViews(ctx context.Context, id uint) error
}

type blogRepository struct {
	*slugStore[models.BlogPost]
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{&slugStore[models.BlogPost]{
		newCrudStore[models.BlogPost](db, "Blog post", "COALESCE(published_at, created_at) DESC", "Author", "Category"),
	}}
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
