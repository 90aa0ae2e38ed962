package service

import (
	"context"
	"errors"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pricing"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/currency"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ReasonInvalidVoucher is reported when no active voucher has the code
const ReasonInvalidVoucher = "invalid or inactive voucher code"

// CheckoutInput is a cart with its transaction-level adjustments
type CheckoutInput struct {
	Cart           entity.Cart
	VoucherCode    string
	GlobalDiscount entity.GlobalDiscount
	// TaxPercent overrides the store default when set
	TaxPercent *decimal.Decimal
}

// CheckoutService prices carts
type CheckoutService struct {
	voucherRepo repository.VoucherRepository
	settings    *SettingsService
	money       *currency.Formatter
}

// NewCheckoutService creates a new checkout service. money formats amounts
// quoted in voucher reasons.
func NewCheckoutService(voucherRepo repository.VoucherRepository, settings *SettingsService, money *currency.Formatter) *CheckoutService {
	if money == nil {
		money = currency.Default()
	}
	return &CheckoutService{
		voucherRepo: voucherRepo,
		settings:    settings,
		money:       money,
	}
}

// CalculateTotals prices the cart. An unknown voucher code is a validation
// error; removing a voucher is calling this again without the code.
func (s *CheckoutService) CalculateTotals(ctx context.Context, input *CheckoutInput) (*entity.Totals, error) {
	taxPercent, err := s.taxPercent(ctx, input.TaxPercent)
	if err != nil {
		return nil, err
	}

	var voucher *entity.Voucher
	if input.VoucherCode != "" {
		voucher, err = s.voucherRepo.GetActiveByCode(ctx, input.VoucherCode)
		if err != nil {
			return nil, err
		}
		if voucher == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "voucher_code", Message: ReasonInvalidVoucher},
			})
		}
	}

	totals, err := pricing.Calculate(pricing.Input{
		Cart:           input.Cart,
		Voucher:        voucher,
		GlobalDiscount: input.GlobalDiscount,
		TaxPercent:     taxPercent,
	})
	if err != nil {
		return nil, mapPricingError(err)
	}
	return totals, nil
}

// ApplyVoucher checks a voucher code against the cart without pricing the
// whole transaction.
func (s *CheckoutService) ApplyVoucher(ctx context.Context, cart entity.Cart, code string) (*pricing.VoucherResult, error) {
	if err := pricing.Validate(pricing.Input{Cart: cart}); err != nil {
		return nil, mapPricingError(err)
	}

	voucher, err := s.voucherRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return &pricing.VoucherResult{Reason: ReasonInvalidVoucher}, nil
	}

	result := pricing.ResolveVoucher(cart, voucher)
	if result.MinSpend != nil {
		result.Reason = pricing.MinSpendReason(s.money.WithSymbol(*result.MinSpend))
	}
	logger.Debug("checkout", "Voucher resolved", "code", voucher.Code, "applicable", result.Applicable, "reason", result.Reason)
	return &result, nil
}

func (s *CheckoutService) taxPercent(ctx context.Context, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	settings, err := s.settings.GetStoreSettings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return settings.DefaultTaxPercent, nil
}

// mapPricingError turns a precondition violation into a 422. Reaching the
// engine with such data means request validation let it through.
func mapPricingError(err error) error {
	if errors.Is(err, pricing.ErrPreconditionViolation) {
		logger.Error("checkout", "Invalid cart reached pricing", "error", err)
		return apperror.NewUnprocessableError(err.Error())
	}
	return err
}
