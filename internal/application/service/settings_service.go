package service

import (
	"context"
	"fmt"

	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SettingsService handles the store identity printed on receipts
type SettingsService struct {
	settingsRepo repository.StoreSettingsRepository
	defaults     entity.StoreSettings
}

// NewSettingsService creates a new settings service. defaults are stored the
// first time settings are read.
func NewSettingsService(settingsRepo repository.StoreSettingsRepository, defaults entity.StoreSettings) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetStoreSettings retrieves the store settings, creating defaults if not exists
func (s *SettingsService) GetStoreSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		defaults := s.defaults
		settings = &defaults
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateStoreSettingsInput represents the input for updating store settings
type UpdateStoreSettingsInput struct {
	Name              string
	Address           string
	Phone             string
	BonPrefix         string
	DefaultTaxPercent decimal.Decimal
	ReceiptFooter     string
	LogoURL           string
	ReceiptTemplate   enum.ReceiptTemplate
}

// UpdateStoreSettings replaces the store settings
func (s *SettingsService) UpdateStoreSettings(ctx context.Context, input *UpdateStoreSettingsInput) (*entity.StoreSettings, error) {
	if input.DefaultTaxPercent.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "default_tax_percent", Message: "must not be negative"},
		})
	}

	settings, err := s.GetStoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.Name = input.Name
	settings.Address = input.Address
	settings.Phone = input.Phone
	settings.BonPrefix = input.BonPrefix
	settings.DefaultTaxPercent = input.DefaultTaxPercent
	settings.ReceiptFooter = input.ReceiptFooter
	settings.LogoURL = input.LogoURL
	settings.ReceiptTemplate = input.ReceiptTemplate

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// DefaultStoreSettings builds the seed row from configuration values
func DefaultStoreSettings(cfg config.StoreConfig) (entity.StoreSettings, error) {
	tax := decimal.Zero
	if cfg.DefaultTaxPercent != "" {
		var err error
		tax, err = decimal.NewFromString(cfg.DefaultTaxPercent)
		if err != nil {
			return entity.StoreSettings{}, fmt.Errorf("invalid default tax percent %q: %w", cfg.DefaultTaxPercent, err)
		}
	}
	if tax.IsNegative() {
		return entity.StoreSettings{}, fmt.Errorf("default tax percent must not be negative, got %s", tax)
	}
	tmpl, err := enum.ParseReceiptTemplate(cfg.Template)
	if err != nil {
		return entity.StoreSettings{}, err
	}
	return entity.StoreSettings{
		Name:              cfg.Name,
		Address:           cfg.Address,
		Phone:             cfg.Phone,
		BonPrefix:         cfg.BonPrefix,
		DefaultTaxPercent: tax,
		ReceiptFooter:     cfg.Footer,
		LogoURL:           cfg.LogoURL,
		ReceiptTemplate:   tmpl,
	}, nil
}
