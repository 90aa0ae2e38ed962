package repository

import (
	"context"

	"github.com/sangkips/kasir-api/internal/domain/entity"
)

// VoucherRepository defines the interface for voucher lookups
type VoucherRepository interface {
	// GetActiveByCode finds an active voucher by code, case-insensitively.
	// It returns nil when no active voucher has that code.
	GetActiveByCode(ctx context.Context, code string) (*entity.Voucher, error)
	Create(ctx context.Context, voucher *entity.Voucher) error
	Update(ctx context.Context, voucher *entity.Voucher) error
}
