// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"KONKAN_DB_PATH" envDefault:"./data/konkan.db"`
	SessionSecret string `env:"KONKAN_SESSION_SECRET,required"`
	ServerHost    string `env:"KONKAN_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"KONKAN_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"KONKAN_ENV" envDefault:"development"`
	LogLevel      string `env:"KONKAN_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"KONKAN_UPLOADS_DIR" envDefault:"./uploads"`
	SiteName      string `env:"KONKAN_SITE_NAME" envDefault:"Konkan Darshan"`
	BaseURL       string `env:"KONKAN_BASE_URL" envDefault:"http://localhost:8080"`

	// Admin bootstrap: emails that always resolve to the admin role.
	AdminEmails []string `env:"KONKAN_ADMIN_EMAILS" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"KONKAN_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"KONKAN_CACHE_PREFIX" envDefault:"konkan:"` // Redis key prefix
	CacheTTL     int    `env:"KONKAN_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"KONKAN_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Social feed credentials. Read from the environment only, never persisted
	// and never rendered to clients.
	InstagramToken string `env:"KONKAN_INSTAGRAM_TOKEN"`
	YouTubeAPIKey  string `env:"KONKAN_YOUTUBE_API_KEY"`

	// GeoIP configuration
	GeoIPDBPath string `env:"KONKAN_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Retention for event log and per-visit view rows, in days.
	RetentionDays int `env:"KONKAN_RETENTION_DAYS" envDefault:"90"`

	// Background job scheduler (retention cleanup, search reindex).
	SchedulerEnabled bool `env:"KONKAN_SCHEDULER_ENABLED" envDefault:"true"`

	// Seeding configuration
	DoSeed bool `env:"KONKAN_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// IsAdminEmail reports whether email is on the configured admin allow-list.
// Comparison is case-insensitive.
func (c Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("KONKAN_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("KONKAN_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("KONKAN_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
