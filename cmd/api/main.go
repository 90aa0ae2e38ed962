package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/infrastructure/database"
	"github.com/sangkips/kasir-api/internal/infrastructure/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/handler"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/internal/presentation/http/routes"
	"github.com/sangkips/kasir-api/pkg/currency"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/sangkips/kasir-api/pkg/printer/bluez"
	"github.com/sangkips/kasir-api/pkg/printer/usb"
	"github.com/sangkips/kasir-api/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Setup(cfg.App.Env, cfg.App.LogLevel)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	storeDefaults, err := service.DefaultStoreSettings(cfg.Store)
	if err != nil {
		fatal("Invalid store configuration", err)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		fatal("Failed to run migrations", err)
	}
	if err := database.SeedStoreSettings(db, storeDefaults); err != nil {
		logger.Warn("main", "Failed to seed store settings", "error", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	voucherRepo := repository.NewVoucherRepository(db)
	settingsRepo := repository.NewStoreSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	settingsService := service.NewSettingsService(settingsRepo, storeDefaults)
	money := currency.NewFormatter(cfg.Receipt.Locale, cfg.Receipt.CurrencySymbol)
	checkoutService := service.NewCheckoutService(voucherRepo, settingsService, money)
	receiptService := service.NewReceiptService(checkoutService, settingsService, money, cfg.Printer.PaperWidth)

	transports, closeBackends := printerTransports(&cfg.Printer)
	defer closeBackends()
	manager := printer.NewManager(cfg.Printer.ConnectTimeout, transports...)
	printerService := service.NewPrinterService(manager, receiptService)

	printerService.AutoConnect(context.Background(), cfg.Printer.Transport)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer limiter.Stop()

	router := routes.Setup(&routes.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Receipt:  handler.NewReceiptHandler(receiptService, printerService),
		Printer:  handler.NewPrinterHandler(printerService),
		Settings: handler.NewSettingsHandler(settingsService),
	}, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Printer.ConnectTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("main", "Starting server", "name", cfg.App.Name, "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main", "Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main", "Error during shutdown", "error", err)
	}
	if err := manager.Close(); err != nil {
		logger.Error("main", "Error closing printer", "error", err)
	}
	logger.Info("main", "Server stopped")
}

// printerTransports builds the radio and wired transports. A missing system
// bus only disables the radio transport.
func printerTransports(cfg *config.PrinterConfig) ([]printer.Transport, func()) {
	var (
		transports []printer.Transport
		closers    []func() error
	)

	adapter, err := bluez.NewAdapter(cfg.RadioScanWindow)
	if err != nil {
		logger.Warn("printer", "Radio transport unavailable", "error", err)
	} else {
		transports = append(transports, printer.NewRadioTransport(adapter, cfg.RadioServiceUUID))
		closers = append(closers, adapter.Close)
	}

	backend := usb.NewBackend()
	transports = append(transports, printer.NewWiredTransport(backend, printer.WiredOptions{
		ClassCode:     cfg.WiredClassCode,
		Configuration: cfg.USBConfig,
		Interface:     cfg.USBInterface,
	}))
	closers = append(closers, backend.Close)

	return transports, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("printer", "Failed to release back end", "error", err)
			}
		}
	}
}

func fatal(msg string, err error) {
	logger.Error("main", msg, "error", err)
	os.Exit(1)
}
