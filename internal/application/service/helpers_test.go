package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/pkg/currency"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type memoryVoucherRepo struct {
	vouchers map[string]*entity.Voucher
	err      error
}

func newVoucherRepo(vouchers ...*entity.Voucher) *memoryVoucherRepo {
	r := &memoryVoucherRepo{vouchers: map[string]*entity.Voucher{}}
	for _, v := range vouchers {
		r.vouchers[entity.NormalizeVoucherCode(v.Code)] = v
	}
	return r
}

func (r *memoryVoucherRepo) GetActiveByCode(_ context.Context, code string) (*entity.Voucher, error) {
	if r.err != nil {
		return nil, r.err
	}
	v, ok := r.vouchers[entity.NormalizeVoucherCode(code)]
	if !ok || !v.Active {
		return nil, nil
	}
	return v, nil
}

func (r *memoryVoucherRepo) Create(_ context.Context, v *entity.Voucher) error {
	r.vouchers[entity.NormalizeVoucherCode(v.Code)] = v
	return nil
}

func (r *memoryVoucherRepo) Update(ctx context.Context, v *entity.Voucher) error {
	return r.Create(ctx, v)
}

type memorySettingsRepo struct {
	mu       sync.Mutex
	settings *entity.StoreSettings
	creates  int
	updates  int
	err      error
}

func (r *memorySettingsRepo) Get(context.Context) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.settings == nil {
		return nil, nil
	}
	copied := *r.settings
	return &copied, nil
}

func (r *memorySettingsRepo) Create(_ context.Context, s *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	copied := *s
	r.settings = &copied
	r.creates++
	return nil
}

func (r *memorySettingsRepo) Update(_ context.Context, s *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.settings = &copied
	r.updates++
	return nil
}

var errDatabase = errors.New("database unavailable")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func testStore() entity.StoreSettings {
	return entity.StoreSettings{
		Name:              "Kopi Kita",
		Address:           "Jl. Merdeka 1",
		Phone:             "0812-3456",
		BonPrefix:         "KK",
		DefaultTaxPercent: dec("10"),
		ReceiptFooter:     "Terima kasih",
		LogoURL:           "https://example.com/logo.png",
		ReceiptTemplate:   enum.ReceiptTemplateThermal,
	}
}

type fixture struct {
	vouchers *memoryVoucherRepo
	settings *memorySettingsRepo
	checkout *CheckoutService
	receipts *ReceiptService
	store    *SettingsService
}

func newFixture(vouchers ...*entity.Voucher) *fixture {
	settingsRepo := &memorySettingsRepo{}
	voucherRepo := newVoucherRepo(vouchers...)
	store := NewSettingsService(settingsRepo, testStore())
	checkout := NewCheckoutService(voucherRepo, store, currency.Default())
	receipts := NewReceiptService(checkout, store, currency.Default(), 32)
	receipts.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return &fixture{
		vouchers: voucherRepo,
		settings: settingsRepo,
		checkout: checkout,
		receipts: receipts,
		store:    store,
	}
}

func line(name, price string, qty int) entity.CartLine {
	return entity.CartLine{
		ProductID:     uuid.New(),
		Name:          name,
		Category:      "Drinks",
		Quantity:      qty,
		OriginalPrice: dec(price),
	}
}

func voucher(code string, kind enum.DiscountKind, value string) *entity.Voucher {
	return &entity.Voucher{
		ID:     uuid.New(),
		Code:   code,
		Kind:   kind,
		Value:  dec(value),
		Scope:  enum.VoucherScopeAll,
		Active: true,
	}
}
