package repository

import (
	"context"
	"errors"

	"bizsite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository reads and writes the singleton settings row.
type SettingRepository interface {
	// Get returns nil, nil before the row has been written.
	Get(ctx context.Context) (*models.Setting, error)
	Save(ctx context.Context, s *models.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context) (*models.Setting, error) {
	var s models.Setting
	if err := r.db.WithContext(ctx).First(&s, models.SettingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &s, nil
}

// Save upserts the row with id 1.
func (r *settingRepository) Save(ctx context.Context, s *models.Setting) error {
	s.ID = models.SettingID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
