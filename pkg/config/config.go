package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// JWTSecret signs the HS256 bearer tokens issued by /v1/auth/login.
	JWTSecret string

	// Gateway is the external payment processor this backend hands checkout
	// off to and receives capture webhooks from.
	Gateway GatewayConfig

	// AllowedOrigins is a comma-separated allowlist of browser origins for
	// the customer/admin frontends. Example:
	//   https://app.tourbook.example,http://localhost:5173
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type GatewayConfig struct {
	// BaseURL of the provider API used to create checkout sessions.
	BaseURL string
	// APIKey authenticates outbound calls to the provider.
	APIKey string
	// WebhookSecret verifies inbound capture webhooks (HMAC-SHA256).
	WebhookSecret string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "tourbook"),
			User:     env("DB_USER", "tourbook"),
			Password: env("DB_PASSWORD", "tourbook"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		Gateway: GatewayConfig{
			BaseURL:       os.Getenv("GATEWAY_BASE_URL"),
			APIKey:        os.Getenv("GATEWAY_API_KEY"),
			WebhookSecret: os.Getenv("GATEWAY_WEBHOOK_SECRET"),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			// trim spaces
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
