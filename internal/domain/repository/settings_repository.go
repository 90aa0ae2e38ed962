package repository

import (
	"context"

	"github.com/sangkips/kasir-api/internal/domain/entity"
)

// StoreSettingsRepository defines the interface for store settings data access
type StoreSettingsRepository interface {
	// Get returns the store settings row, or nil when none exists yet
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Create(ctx context.Context, settings *entity.StoreSettings) error
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
