package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/pkg/currency"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/skip2/go-qrcode"
)

const (
	receiptDateLayout = "02/01/2006 15:04"
	qrCodeSize        = 256
)

// ReceiptInput is a priced transaction waiting to be rendered
type ReceiptInput struct {
	Checkout          CheckoutInput
	TransactionNumber int
	Date              time.Time
	Customer          string
	Cashier           string
	PaymentMethod     string
	// Template overrides the store's configured template when set
	Template *enum.ReceiptTemplate
}

// Receipt is a rendered receipt
type Receipt struct {
	Transaction *entity.Transaction  `json:"transaction"`
	Template    enum.ReceiptTemplate `json:"template"`
	Document    *printer.Document    `json:"document"`
	Text        string               `json:"text"`
	// QRCodePNG is the base64 PNG of the document's QR payload, if any
	QRCodePNG string `json:"qr_code_png,omitempty"`
}

// ReceiptService builds receipt documents from priced transactions
type ReceiptService struct {
	checkout  *CheckoutService
	settings  *SettingsService
	formatter *currency.Formatter
	width     int
	now       func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(checkout *CheckoutService, settings *SettingsService, formatter *currency.Formatter, width int) *ReceiptService {
	if width <= 0 {
		width = printer.DefaultWidth
	}
	return &ReceiptService{
		checkout:  checkout,
		settings:  settings,
		formatter: formatter,
		width:     width,
		now:       time.Now,
	}
}

// Build prices the transaction and renders it with the requested template
func (s *ReceiptService) Build(ctx context.Context, input *ReceiptInput) (*Receipt, error) {
	store, err := s.settings.GetStoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.checkout.CalculateTotals(ctx, &input.Checkout)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := &entity.Transaction{
		Bon:               FormatBon(store.BonPrefix, input.TransactionNumber),
		TransactionNumber: input.TransactionNumber,
		Date:              date.Format(receiptDateLayout),
		Customer:          input.Customer,
		Cashier:           input.Cashier,
		PaymentMethod:     input.PaymentMethod,
		Cart:              input.Checkout.Cart,
		Totals:            totals,
	}

	template := store.ReceiptTemplate
	if input.Template != nil {
		template = *input.Template
	}

	doc := s.Render(store, tx, template)
	receipt := &Receipt{
		Transaction: tx,
		Template:    template,
		Document:    doc,
		Text:        s.RenderText(doc),
	}

	if doc.QRPayload != "" {
		png, err := QRCodePNG(doc.QRPayload)
		if err != nil {
			return nil, fmt.Errorf("failed to render QR code: %w", err)
		}
		receipt.QRCodePNG = base64.StdEncoding.EncodeToString(png)
	}

	return receipt, nil
}

// Render maps a transaction onto the template's document layout
func (s *ReceiptService) Render(store *entity.StoreSettings, tx *entity.Transaction, template enum.ReceiptTemplate) *printer.Document {
	var doc *printer.Document
	if template == enum.ReceiptTemplateModern {
		doc = modernReceipt(store, tx, s.formatter, s.width)
	} else {
		doc = thermalReceipt(store, tx, s.formatter, s.width)
	}
	doc.Template = template.String()
	return doc
}

// RenderText flattens a document into the plain-text digital receipt
func (s *ReceiptService) RenderText(doc *printer.Document) string {
	return doc.RenderText()
}

// FormatBon formats a receipt number as the prefix followed by the
// zero-padded sequence, e.g. "BON000042".
func FormatBon(prefix string, seq int) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}

// QRPayload is the text encoded in a receipt's QR code
func QRPayload(storeName, bon string) string {
	return storeName + " - " + bon
}

// QRCodePNG renders payload as a PNG QR code
func QRCodePNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, qrCodeSize)
}
