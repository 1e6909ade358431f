package repository

import (
	"context"

	"bizsite/internal/models"

	"gorm.io/gorm"
)

// LicenseRepository defines persistence operations for license keys.
type LicenseRepository interface {
	Store[models.License]
	GetByKey(ctx context.Context, key string) (*models.License, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	// IncrementActivation bumps activation_count if it is below max_activations.
	// It reports false when the cap was already reached.
	IncrementActivation(ctx context.Context, id uint, fields map[string]any) (bool, error)
}

type licenseRepository struct {
	*crudStore[models.License]
}

func NewLicenseRepository(db *gorm.DB) LicenseRepository {
	return &licenseRepository{newCrudStore[models.License](db, "License", "created_at DESC", "Product", "User")}
}

func (r *licenseRepository) GetByKey(ctx context.Context, key string) (*models.License, error) {
	l, err := r.FindOne(ctx, Eq("key", key))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, models.NewNotFoundError("License", key)
	}
	return l, nil
}

func (r *licenseRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	return r.Exists(ctx, Eq("key", key))
}

func (r *licenseRepository) IncrementActivation(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	updates := map[string]any{"activation_count": gorm.Expr("activation_count + 1")}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).Model(&models.License{}).
		Where("id = ? AND activation_count < max_activations", id).
		Updates(updates)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
