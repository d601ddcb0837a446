package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string

	// Goal workflow policy
	// EvidenceRequired mandates at least one evidence item on completion
	// submission. Cycle-level policy is out of scope, so this is deployment-wide.
	EvidenceRequired bool

	// Notifications
	EmailFrom          string
	ResendAPIKey       string
	NotifyEmailEnabled bool

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "TalentLoop"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/talentloop.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret: envRequired("JWT_SECRET"),

		EvidenceRequired: envBool("GOAL_EVIDENCE_REQUIRED", false),

		EmailFrom:          envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:       envString("RESEND_API_KEY", ""),
		NotifyEmailEnabled: envBool("NOTIFY_EMAIL_ENABLED", false),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production.
// Development allows email to fall back to log mode for local testing.
func validateProduction(cfg *Config) {
	if cfg.NotifyEmailEnabled && cfg.ResendAPIKey == "" {
		slog.Error("production deployment with NOTIFY_EMAIL_ENABLED requires RESEND_API_KEY",
			"hint", "set NOTIFY_EMAIL_ENABLED=false to keep notifications inbox-only")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
