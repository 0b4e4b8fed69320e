// Package config loads the server configuration from the environment.
//
// Every collaborator (Stripe, Resend, Google Sheets) is optional: when its
// credentials are absent the corresponding feature degrades gracefully
// instead of preventing startup. The Config value is built once in main()
// and passed down explicitly — there is no package-level state.
package config

import (
	"os"
	"strings"
)

type Config struct {
	Port          string
	PublicBaseURL string
	StaticDir     string

	StripeSecretKey     string
	StripeWebhookSecret string

	ResendAPIKey string
	FromEmail    string
	AdminEmail   string

	SheetsPrivateKey  string
	SheetsClientEmail string
	SheetsClientID    string
	SpreadsheetID     string

	// OrderLogPath is the sqlite file for the local processing audit log.
	// Empty disables the log.
	OrderLogPath string

	// RedisAddr enables webhook event deduplication when set.
	RedisAddr string

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string
}

// Load reads the configuration from the environment.
func Load() Config {
	port := getEnv("PORT", "8080")

	return Config{
		Port:          port,
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		StaticDir:     getEnv("STATIC_DIR", "./public"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		// Deployment environments store the PEM key with literal "\n"
		// sequences; restore real newlines before handing it to the signer.
		SheetsPrivateKey:  strings.ReplaceAll(os.Getenv("GOOGLE_SHEETS_PRIVATE_KEY"), `\n`, "\n"),
		SheetsClientEmail: os.Getenv("GOOGLE_SHEETS_CLIENT_EMAIL"),
		SheetsClientID:    os.Getenv("GOOGLE_SHEETS_CLIENT_ID"),
		SpreadsheetID:     os.Getenv("GOOGLE_SHEETS_ID"),

		OrderLogPath: os.Getenv("ORDER_LOG_PATH"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// StripeConfigured reports whether checkout sessions can be created.
func (c Config) StripeConfigured() bool {
	return c.StripeSecretKey != ""
}

// ResendConfigured reports whether any email can be sent.
func (c Config) ResendConfigured() bool {
	return c.ResendAPIKey != ""
}

// SheetsConfigured reports whether ledger rows can be appended.
func (c Config) SheetsConfigured() bool {
	return c.SheetsPrivateKey != "" && c.SheetsClientEmail != "" && c.SpreadsheetID != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
