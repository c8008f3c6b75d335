package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DatabaseConfig holds the mock backend's PostgreSQL settings. URL, when
// set, wins over the individual components.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`
	ConnectBackoff  time.Duration `env:"DB_CONNECT_BACKOFF" envDefault:"1s"`
}

// MinIOConfig holds object storage settings for MinIO.
// An empty Endpoint selects the in-memory store.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"hermes"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// BackendConfig describes how to reach the Hermes API.
type BackendConfig struct {
	BaseURL      string        `env:"HERMES_BASE_URL" envDefault:"http://localhost:8000"`
	APIVersion   string        `env:"HERMES_API_VERSION" envDefault:"v2"`
	AuthProvider string        `env:"HERMES_AUTH_PROVIDER" envDefault:"dex"`
	DocsIndex    string        `env:"HERMES_DOCS_INDEX" envDefault:"docs"`
	HTTPTimeout  time.Duration `env:"HERMES_HTTP_TIMEOUT" envDefault:"60s"`
}

// PeopleConfig tunes the people record cache and batch coordinator.
type PeopleConfig struct {
	LookupTimeout  time.Duration `env:"PEOPLE_LOOKUP_TIMEOUT" envDefault:"15s"`
	MaxConcurrency int           `env:"PEOPLE_MAX_CONCURRENCY" envDefault:"16"`
}

// DashboardConfig tunes the dashboard feeds and session lifetime.
type DashboardConfig struct {
	BulkTimeout    time.Duration `env:"DASHBOARD_BULK_TIMEOUT" envDefault:"30s"`
	IndexLimit     int           `env:"DASHBOARD_INDEX_LIMIT" envDefault:"10"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"12h"`
}

// MockAPIConfig holds settings only the mock backend reads.
type MockAPIConfig struct {
	DefaultUser string        `env:"MOCKAPI_DEFAULT_USER" envDefault:"test@example.com"`
	UserHeader  string        `env:"MOCKAPI_USER_HEADER" envDefault:"X-Test-User-Email"`
	SeedFile    string        `env:"MOCKAPI_SEED_FILE"`
	FailEmails  []string      `env:"MOCKAPI_FAIL_EMAILS" envSeparator:","`
	Latency     time.Duration `env:"MOCKAPI_LATENCY" envDefault:"0s"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port      string `env:"PORT" envDefault:"8080"`
	Timezone  string `env:"APP_TZ" envDefault:"UTC"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Backend   BackendConfig
	People    PeopleConfig
	Dashboard DashboardConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
	MockAPI   MockAPIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
