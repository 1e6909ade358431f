package repository

import (
	"context"
	"strings"

	"bizsite/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Store[models.User]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByProvider(ctx context.Context, provider models.Provider, providerID string) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	CountAdmins(ctx context.Context) (int64, error)
}

type userRepository struct {
	*crudStore[models.User]
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{newCrudStore[models.User](db, "User", "created_at DESC")}
}

// GetByEmail returns nil, nil when no user has email. Emails compare case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, Eq("LOWER(email)", strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOne(ctx, Eq("LOWER(username)", strings.ToLower(strings.TrimSpace(username))))
}

func (r *userRepository) GetByProvider(ctx context.Context, provider models.Provider, providerID string) (*models.User, error) {
	return r.FindOne(ctx, Eq("provider", provider), Eq("provider_id", providerID))
}

// UpdateFields writes only the named columns.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, r.resource, id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(r.resource, id)
	}
	return nil
}

// CountAdmins counts active admin accounts.
func (r *userRepository) CountAdmins(ctx context.Context) (int64, error) {
	return r.Count(ctx, Eq("role", models.RoleAdmin), Eq("is_active", true))
}
