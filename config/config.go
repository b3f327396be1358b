package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by StoreDriver.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// DefaultJWTSecret is a placeholder and is refused once staff login is on.
const DefaultJWTSecret = "change-me"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a private value when STAFF_PASSWORD_HASH is configured")

// Config holds all configuration for the application
type Config struct {
	// App
	AppName  string
	Port     string
	LogLevel string
	LogFile  string

	// CORS
	AllowedOrigins []string

	// Persistence
	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Invoice assets. Plain paths are resolved against AssetsDir, http(s)
	// URLs are fetched and "qr:<payload>" values are generated in-process.
	AssetsDir        string
	LogoAsset        string
	InstagramQRAsset string
	PaymentQRAsset   string
	SignatureAsset   string
	AssetTimeout     time.Duration

	// Branding printed on the invoice
	BrandName      string
	BrandSubtitle  string
	ContactLine    string
	SignatoryTitle string
	SignatoryOrg   string
	PDFCompression bool

	// Staff auth
	JWTSecret         string
	StaffUsername     string
	StaffPasswordHash string
	TokenTTL          time.Duration

	// Invoice mail
	ResendAPIKey   string
	MailFrom       string
	NotifyCustomer bool

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppName:  getEnv("APP_NAME", "royal-photography-billing"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),
		LogFile:  getEnv("LOG_FILE", ""),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DatabaseURL:   getEnv("DATABASE_URL", "user=postgres password=postgres dbname=postgres sslmode=disable"),
		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "royal_photography"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		AssetsDir:        getEnv("ASSETS_DIR", "public"),
		LogoAsset:        getEnv("LOGO_ASSET", "logo.png"),
		InstagramQRAsset: getEnv("INSTAGRAM_QR_ASSET", "instagram.jpg"),
		PaymentQRAsset:   getEnv("PAYMENT_QR_ASSET", "GooglePay_QR.png"),
		SignatureAsset:   getEnv("SIGNATURE_ASSET", "sign.png"),
		AssetTimeout:     time.Duration(getEnvAsInt("ASSET_TIMEOUT", 0)) * time.Second,

		BrandName:      getEnv("BRAND_NAME", "ROYAL PHOTOGRAPHY"),
		BrandSubtitle:  getEnv("BRAND_SUBTITLE", "BOOKING CONFIRMATION"),
		ContactLine:    getEnv("BRAND_CONTACT_LINE", "Phone: +91 85939 25936 | Email: bookings@royalphotography.org"),
		SignatoryTitle: getEnv("SIGNATORY_TITLE", "Managing Director"),
		SignatoryOrg:   getEnv("SIGNATORY_ORG", "Royal Group"),
		PDFCompression: getEnvAsBool("PDF_COMPRESSION", true),

		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		StaffUsername:     getEnv("STAFF_USERNAME", "admin"),
		StaffPasswordHash: getEnv("STAFF_PASSWORD_HASH", ""),
		TokenTTL:          time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "Royal Photography <bookings@royalphotography.org>"),
		NotifyCustomer: getEnvAsBool("NOTIFY_CUSTOMER", false),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "royal_billing"),
	}

	return config, nil
}

// CheckStaffAuth rejects a missing or placeholder signing secret while staff
// login is enabled.
func (c *Config) CheckStaffAuth() error {
	if c.StaffPasswordHash == "" {
		return nil
	}
	if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == DefaultJWTSecret {
		return ErrInsecureJWTSecret
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
