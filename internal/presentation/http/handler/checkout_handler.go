package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles cart pricing requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CalculateTotals prices a cart
func (h *CheckoutHandler) CalculateTotals(c *gin.Context) {
	var req request.CheckoutTotalsRequest
	if !bindJSON(c, &req) {
		return
	}

	totals, err := h.checkoutService.CalculateTotals(c.Request.Context(), toCheckoutInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals calculated", totals)
}

// ApplyVoucher checks a voucher code against a cart
func (h *CheckoutHandler) ApplyVoucher(c *gin.Context) {
	var req request.ApplyVoucherRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.ApplyVoucher(c.Request.Context(), req.Cart.ToEntity(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Voucher applied"
	if !result.Applicable {
		message = "Voucher not applicable"
	}
	response.OK(c, message, result)
}

func toCheckoutInput(req *request.CheckoutTotalsRequest) *service.CheckoutInput {
	return &service.CheckoutInput{
		Cart:           req.Cart.ToEntity(),
		VoucherCode:    req.VoucherCode,
		GlobalDiscount: req.GlobalDiscount.ToEntity(),
		TaxPercent:     req.TaxPercent,
	}
}
