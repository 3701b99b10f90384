package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// defaultSessionSecret is only good enough for local development.
const defaultSessionSecret = "pasha-furniture-secret-key"

const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8585"`
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"./pasha.db"`

	SessionSecret        string        `envconfig:"SESSION_SECRET"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"8h"`
	SessionPruneInterval time.Duration `envconfig:"SESSION_PRUNE_INTERVAL" default:"24h"`
	SessionBackend       string        `envconfig:"SESSION_BACKEND" default:"memory"`
	RedisURL             string        `envconfig:"REDIS_URL"`

	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"false"`
	CookieDomain string `envconfig:"COOKIE_DOMAIN"`
	CSRFKeyB64   string `envconfig:"CSRF_KEY"`
	CSRFEnabled  bool   `envconfig:"CSRF_ENABLED" default:"false"`

	AllowPlainPasswords bool   `envconfig:"ALLOW_PLAIN_PASSWORDS" default:"true"`
	AdminUsername       string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword       string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	SeedCatalog         bool   `envconfig:"SEED_CATALOG" default:"false"`

	UploadDir    string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	ContactFrom  string `envconfig:"CONTACT_FROM"`
	ContactTo    string `envconfig:"CONTACT_TO"`

	LoginRatePerMinute int    `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"debug"`

	// Derived from the raw values above.
	CSRFKey    []byte `ignored:"true"`
	SessionKey []byte `ignored:"true"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "8585"
	}

	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}

	cfg.SessionBackend = strings.ToLower(cfg.SessionBackend)
	switch cfg.SessionBackend {
	case BackendMemory, BackendSQL:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be memory, sql or redis, got %q", cfg.SessionBackend)
	}

	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if cfg.SessionPruneInterval <= 0 {
		return nil, errors.New("SESSION_PRUNE_INTERVAL must be positive")
	}
	if cfg.LoginRatePerMinute <= 0 {
		return nil, errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET environment variable not set. Using the built-in development secret. PLEASE SET SESSION_SECRET IN PRODUCTION!")
		cfg.SessionSecret = defaultSessionSecret
	}
	cfg.SessionKey = []byte(cfg.SessionSecret)

	key, err := decodeCSRFKey(cfg.CSRFKeyB64)
	if err != nil {
		return nil, err
	}
	cfg.CSRFKey = key

	return &cfg, nil
}

func decodeCSRFKey(raw string) ([]byte, error) {
	if raw == "" {
		slog.Warn("CSRF_KEY environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET CSRF_KEY IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("CSRF_KEY is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE CSRF_KEY IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to debug.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func (c *Config) MailerConfigured() bool {
	return c.ResendAPIKey != "" && c.ContactFrom != "" && c.ContactTo != ""
}

func generateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
