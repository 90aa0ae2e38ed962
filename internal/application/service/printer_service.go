package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService connects the receipt printer and prints receipts on it.
type PrinterService struct {
	manager  *printer.Manager
	receipts *ReceiptService
}

// NewPrinterService creates a new printer service.
func NewPrinterService(manager *printer.Manager, receipts *ReceiptService) *PrinterService {
	return &PrinterService{
		manager:  manager,
		receipts: receipts,
	}
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() printer.Status {
	return s.manager.Status()
}

// Connect opens a printer on the given transport, replacing any current one.
func (s *PrinterService) Connect(ctx context.Context, kind printer.TransportKind) (printer.Status, error) {
	status, err := s.manager.Connect(ctx, kind)
	if err != nil {
		return status, mapPrinterError(err)
	}
	return status, nil
}

// Disconnect closes the current printer connection.
func (s *PrinterService) Disconnect() printer.Status {
	return s.manager.Disconnect()
}

// AutoConnect connects the transport named in configuration at startup. A
// failure is logged and leaves the printer disconnected.
func (s *PrinterService) AutoConnect(ctx context.Context, transport string) {
	kind, err := printer.ParseTransportKind(transport)
	if err != nil {
		logger.Warn("printer", "Ignoring printer transport", "transport", transport, "error", err)
		return
	}
	if kind == printer.TransportNone {
		return
	}
	if _, err := s.manager.Connect(ctx, kind); err != nil {
		logger.Warn("printer", "Auto-connect failed", "transport", kind.String(), "status", s.manager.Status().Message)
	}
}

// PrintReceipt renders the transaction with the thermal layout and prints it.
// The receipt is returned even when printing fails.
func (s *PrinterService) PrintReceipt(ctx context.Context, input *ReceiptInput) (*Receipt, error) {
	thermal := enum.ReceiptTemplateThermal
	job := *input
	job.Template = &thermal

	receipt, err := s.receipts.Build(ctx, &job)
	if err != nil {
		return nil, err
	}

	data := printer.Encode(receipt.Document)
	if err := s.manager.Print(ctx, data); err != nil {
		logger.Error("printer", "Receipt print failed", "bon", receipt.Transaction.Bon, "error", err)
		return receipt, mapPrinterError(err)
	}

	logger.Info("printer", "Receipt printed", "bon", receipt.Transaction.Bon, "bytes", len(data))
	return receipt, nil
}

// TestPrint prints a fixed sample receipt through the whole pipeline.
// Returns the receipt so the handler can show it when no printer is connected.
func (s *PrinterService) TestPrint(ctx context.Context) (*Receipt, error) {
	zero := decimal.Zero
	input := &ReceiptInput{
		Checkout: CheckoutInput{
			Cart:       sampleCart(),
			TaxPercent: &zero,
		},
		TransactionNumber: 1,
		Date:              time.Now(),
		Customer:          "PRINTER TEST",
		Cashier:           "System",
		PaymentMethod:     "Cash",
	}
	return s.PrintReceipt(ctx, input)
}

func sampleCart() entity.Cart {
	return entity.Cart{
		Lines: []entity.CartLine{
			{
				Name:          "Test Item 1",
				Quantity:      1,
				OriginalPrice: decimal.NewFromInt(10000),
			},
			{
				Name:          "Test Item 2",
				Quantity:      2,
				OriginalPrice: decimal.NewFromInt(5000),
				Variations: []entity.VariationAdjustment{
					{Variation: "Size", Option: "Large", PriceAdjustment: decimal.NewFromInt(1000)},
				},
			},
		},
	}
}

// mapPrinterError attaches the HTTP status for each printer error kind.
func mapPrinterError(err error) error {
	var status int
	switch {
	case errors.Is(err, printer.ErrDeviceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, printer.ErrNotConnected):
		status = http.StatusConflict
	case errors.Is(err, printer.ErrConnectionFailure), errors.Is(err, printer.ErrTransferFailure):
		status = http.StatusBadGateway
	case errors.Is(err, printer.ErrUnknownTransport):
		status = http.StatusBadRequest
	case errors.Is(err, printer.ErrManagerClosed):
		status = http.StatusServiceUnavailable
	default:
		return fmt.Errorf("printer: %w", err)
	}
	return apperror.NewAppError(status, err.Error())
}
