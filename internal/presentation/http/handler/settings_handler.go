package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/request"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/apperror"
)

// SettingsHandler handles store settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetStoreSettings retrieves the store identity printed on receipts
func (h *SettingsHandler) GetStoreSettings(c *gin.Context) {
	settings, err := h.settingsService.GetStoreSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateStoreSettings replaces the store settings
func (h *SettingsHandler) UpdateStoreSettings(c *gin.Context) {
	var req request.UpdateStoreSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := enum.ParseReceiptTemplate(req.ReceiptTemplate)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateStoreSettings(c.Request.Context(), &service.UpdateStoreSettingsInput{
		Name:              req.Name,
		Address:           req.Address,
		Phone:             req.Phone,
		BonPrefix:         req.BonPrefix,
		DefaultTaxPercent: req.DefaultTaxPercent,
		ReceiptFooter:     req.ReceiptFooter,
		LogoURL:           req.LogoURL,
		ReceiptTemplate:   template,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
