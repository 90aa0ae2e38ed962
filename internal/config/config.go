package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Receipt   ReceiptConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig selects the printer transport connected at startup and the
// discovery filters of both transports.
type PrinterConfig struct {
	Transport        string
	RadioServiceUUID string
	RadioScanWindow  time.Duration
	WiredClassCode   uint8
	USBConfig        int
	USBInterface     int
	ConnectTimeout   time.Duration
	PaperWidth       int
}

// StoreConfig seeds the store settings row on first start.
type StoreConfig struct {
	Name              string
	Address           string
	Phone             string
	BonPrefix         string
	DefaultTaxPercent string
	Footer            string
	LogoURL           string
	Template          string
}

type ReceiptConfig struct {
	Locale         string
	CurrencySymbol string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", "error", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Transport:        viper.GetString("PRINTER_TRANSPORT"),
			RadioServiceUUID: viper.GetString("PRINTER_RADIO_SERVICE_UUID"),
			RadioScanWindow:  viper.GetDuration("PRINTER_RADIO_SCAN_WINDOW"),
			WiredClassCode:   uint8(viper.GetUint("PRINTER_WIRED_CLASS_CODE")),
			USBConfig:        viper.GetInt("PRINTER_USB_CONFIG"),
			USBInterface:     viper.GetInt("PRINTER_USB_INTERFACE"),
			ConnectTimeout:   viper.GetDuration("PRINTER_CONNECT_TIMEOUT"),
			PaperWidth:       viper.GetInt("PRINTER_PAPER_WIDTH"),
		},
		Store: StoreConfig{
			Name:              viper.GetString("STORE_NAME"),
			Address:           viper.GetString("STORE_ADDRESS"),
			Phone:             viper.GetString("STORE_PHONE"),
			BonPrefix:         viper.GetString("STORE_BON_PREFIX"),
			DefaultTaxPercent: viper.GetString("STORE_DEFAULT_TAX_PERCENT"),
			Footer:            viper.GetString("STORE_RECEIPT_FOOTER"),
			LogoURL:           viper.GetString("STORE_LOGO_URL"),
			Template:          viper.GetString("STORE_RECEIPT_TEMPLATE"),
		},
		Receipt: ReceiptConfig{
			Locale:         viper.GetString("RECEIPT_LOCALE"),
			CurrencySymbol: viper.GetString("RECEIPT_CURRENCY_SYMBOL"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "kasir-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "kasir")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TRANSPORT", "none")
	viper.SetDefault("PRINTER_RADIO_SERVICE_UUID", "00001101-0000-1000-8000-00805f9b34fb")
	viper.SetDefault("PRINTER_RADIO_SCAN_WINDOW", "0s")
	viper.SetDefault("PRINTER_WIRED_CLASS_CODE", 7)
	viper.SetDefault("PRINTER_USB_CONFIG", 1)
	viper.SetDefault("PRINTER_USB_INTERFACE", 0)
	viper.SetDefault("PRINTER_CONNECT_TIMEOUT", "30s")
	viper.SetDefault("PRINTER_PAPER_WIDTH", 32)
	viper.SetDefault("STORE_NAME", "Toko Kasir")
	viper.SetDefault("STORE_ADDRESS", "")
	viper.SetDefault("STORE_PHONE", "")
	viper.SetDefault("STORE_BON_PREFIX", "BON")
	viper.SetDefault("STORE_DEFAULT_TAX_PERCENT", "0")
	viper.SetDefault("STORE_RECEIPT_FOOTER", "Thank you for shopping!")
	viper.SetDefault("STORE_LOGO_URL", "")
	viper.SetDefault("STORE_RECEIPT_TEMPLATE", "thermal")
	viper.SetDefault("RECEIPT_LOCALE", "id")
	viper.SetDefault("RECEIPT_CURRENCY_SYMBOL", "Rp")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
