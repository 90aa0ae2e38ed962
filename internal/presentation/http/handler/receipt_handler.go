package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
)

// ReceiptHandler renders and prints receipts
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	printerService *service.PrinterService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, printerService *service.PrinterService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		printerService: printerService,
	}
}

// Preview renders a receipt without printing it
func (h *ReceiptHandler) Preview(c *gin.Context) {
	input, ok := h.receiptInput(c)
	if !ok {
		return
	}

	receipt, err := h.receiptService.Build(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt rendered", receipt)
}

// Print renders the thermal receipt and sends it to the connected printer.
// When printing fails the rendered receipt is still returned with the error.
func (h *ReceiptHandler) Print(c *gin.Context) {
	input, ok := h.receiptInput(c)
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), input)
	if err != nil {
		if receipt != nil {
			response.ErrorWithData(c, err, receipt)
			return
		}
		response.Error(c, err)
		return
	}

	if userID := GetUserID(c); userID != nil {
		logger.Info("receipt", "Printed by", "user_id", userID.String(), "bon", receipt.Transaction.Bon)
	}
	response.OK(c, "Receipt printed", receipt)
}

func (h *ReceiptHandler) receiptInput(c *gin.Context) (*service.ReceiptInput, bool) {
	var req request.ReceiptRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	input := &service.ReceiptInput{
		Checkout:          *toCheckoutInput(&req.CheckoutTotalsRequest),
		TransactionNumber: req.TransactionNumber,
		Customer:          req.Customer,
		Cashier:           req.Cashier,
		PaymentMethod:     req.PaymentMethod,
	}
	if req.Date != nil {
		input.Date = *req.Date
	} else {
		input.Date = time.Now()
	}
	if input.Cashier == "" {
		input.Cashier = GetUserEmail(c)
	}
	if req.Template != "" {
		template, err := enum.ParseReceiptTemplate(req.Template)
		if err != nil {
			response.Error(c, apperror.NewBadRequestError(err.Error()))
			return nil, false
		}
		input.Template = &template
	}
	return input, true
}
