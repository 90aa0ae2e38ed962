package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/config"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/handler"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/pkg/utils"
)

// Roles allowed to change the store settings
var settingsAdminRoles = []string{"owner", "admin"}

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Receipt  *handler.ReceiptHandler
	Printer  *handler.PrinterHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter guards the printer routes; nil builds one from Cfg.RateLimit
	RateLimiter *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	{
		registerCheckoutRoutes(v1, h)
		registerReceiptRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h, deps)
		registerSettingsRoutes(v1, h)
	}

	return router
}

func registerCheckoutRoutes(v1 *gin.RouterGroup, h *Handlers) {
	checkout := v1.Group("/checkout")
	{
		checkout.POST("/totals", h.Checkout.CalculateTotals)
		checkout.POST("/voucher", h.Checkout.ApplyVoucher)
	}
}

func registerReceiptRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := v1.Group("/receipts")
	{
		receipts.POST("/preview", h.Receipt.Preview)
		receipts.POST("/print",
			rateLimiter(deps).Middleware(),
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Receipt.Print,
		)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	printer := v1.Group("/printer")
	printer.Use(rateLimiter(deps).Middleware())
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/connect", h.Printer.Connect)
		printer.POST("/disconnect", h.Printer.Disconnect)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	settings := v1.Group("/settings")
	{
		settings.GET("/store", h.Settings.GetStoreSettings)
		settings.PUT("/store", middleware.RequireRole(settingsAdminRoles...), h.Settings.UpdateStoreSettings)
	}
}

func rateLimiter(deps *Deps) *middleware.RateLimiter {
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(
			middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration),
		)
	}
	return deps.RateLimiter
}
