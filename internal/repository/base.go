// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"bizsite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the CRUD surface shared by every table repository.
type Store[T any] interface {
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	FindOne(ctx context.Context, preds ...Predicate) (*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, preds ...Predicate) (int64, error)
	Exists(ctx context.Context, preds ...Predicate) (bool, error)
	CountBy(ctx context.Context, column string, preds ...Predicate) (map[string]int64, error)
}

type crudStore[T any] struct {
	db       *gorm.DB
	resource string
	order    string
	preload  []string
}

func newCrudStore[T any](db *gorm.DB, resource, order string, preload ...string) *crudStore[T] {
	return &crudStore[T]{db: db, resource: resource, order: order, preload: preload}
}

func (s *crudStore[T]) withPreload(db *gorm.DB) *gorm.DB {
	for _, p := range s.preload {
		db = db.Preload(p)
	}
	return db
}

func (s *crudStore[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	page := q.Page.Normalize()
	base := applyAll(s.db.WithContext(ctx).Model(new(T)), q.Filters)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order := q.Order
	if order == "" {
		order = s.order
	}
	items := make([]T, 0, page.Limit)
	err := s.withPreload(base.Session(&gorm.Session{})).
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (s *crudStore[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := s.withPreload(s.db.WithContext(ctx)).First(&v, id).Error; err != nil {
		return nil, translate(err, s.resource, id)
	}
	return &v, nil
}

// FindOne returns the first match, or nil without error when none exists.
func (s *crudStore[T]) FindOne(ctx context.Context, preds ...Predicate) (*T, error) {
	var v T
	res := applyAll(s.withPreload(s.db.WithContext(ctx)), preds).Limit(1).Find(&v)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &v, nil
}

func (s *crudStore[T]) Create(ctx context.Context, v *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
		return translate(err, s.resource, nil)
	}
	return nil
}

func (s *crudStore[T]) Update(ctx context.Context, v *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error; err != nil {
		return translate(err, s.resource, nil)
	}
	return nil
}

func (s *crudStore[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error, s.resource, id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(s.resource, id)
	}
	return nil
}

func (s *crudStore[T]) Count(ctx context.Context, preds ...Predicate) (int64, error) {
	var n int64
	if err := applyAll(s.db.WithContext(ctx).Model(new(T)), preds).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (s *crudStore[T]) Exists(ctx context.Context, preds ...Predicate) (bool, error) {
	n, err := s.Count(ctx, preds...)
	return n > 0, err
}

// CountBy groups matching rows by column.
func (s *crudStore[T]) CountBy(ctx context.Context, column string, preds ...Predicate) (map[string]int64, error) {
	var rows []struct {
		Bucket string
		Total  int64
	}
	err := applyAll(s.db.WithContext(ctx).Model(new(T)), preds).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Bucket] = r.Total
	}
	return out, nil
}
