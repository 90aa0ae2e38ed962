package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/printer"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// Connect opens the printer on the requested transport.
func (h *PrinterHandler) Connect(c *gin.Context) {
	var req request.ConnectPrinterRequest
	if !bindJSON(c, &req) {
		return
	}

	kind, err := printer.ParseTransportKind(req.Transport)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	status, err := h.printerService.Connect(c.Request.Context(), kind)
	if err != nil {
		response.ErrorWithData(c, err, status)
		return
	}

	response.OK(c, status.Message, status)
}

// Disconnect closes the printer connection.
func (h *PrinterHandler) Disconnect(c *gin.Context) {
	status := h.printerService.Disconnect()
	response.OK(c, status.Message, status)
}

// TestPrint sends a sample receipt to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		if receipt != nil {
			response.ErrorWithData(c, err, receipt)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Test page sent to printer", receipt)
}
