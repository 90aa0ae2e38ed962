package repository

import (
	"context"
	"errors"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"gorm.io/gorm"
)

type storeSettingsRepository struct {
	db *gorm.DB
}

// NewStoreSettingsRepository creates a new store settings repository
func NewStoreSettingsRepository(db *gorm.DB) repository.StoreSettingsRepository {
	return &storeSettingsRepository{db: db}
}

// Get retrieves the oldest store settings row
func (r *storeSettingsRepository) Get(ctx context.Context) (*entity.StoreSettings, error) {
	var settings entity.StoreSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create creates the store settings row
func (r *storeSettingsRepository) Create(ctx context.Context, settings *entity.StoreSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// Update updates existing store settings
func (r *storeSettingsRepository) Update(ctx context.Context, settings *entity.StoreSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
