package repository

import (
	"context"
	"errors"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"gorm.io/gorm"
)

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) repository.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) GetActiveByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	normalized := entity.NormalizeVoucherCode(code)
	if normalized == "" {
		return nil, nil
	}

	var voucher entity.Voucher
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", normalized, true).
		First(&voucher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *voucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	voucher.Code = entity.NormalizeVoucherCode(voucher.Code)
	return r.db.WithContext(ctx).Save(voucher).Error
}
