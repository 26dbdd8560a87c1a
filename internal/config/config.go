package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the certificate service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"certificate-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CERT_API_PORT" envDefault:"8001"`
	LogLevel        string        `env:"CERT_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage Backend Selection
	StorageBackend string `env:"CERT_STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath    string `env:"CERT_LOCAL_STORAGE_PATH" envDefault:"/tmp/certificates"`
	LocalStorageBaseURL string `env:"CERT_LOCAL_STORAGE_BASE_URL"` // Base URL for serving files (e.g., "http://localhost:8001/v1/files")

	// S3 Storage Configuration
	S3Endpoint     string        `env:"CERT_S3_ENDPOINT"` // Custom endpoint for S3-compatible stores (MinIO, LocalStack)
	S3Region       string        `env:"CERT_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string        `env:"CERT_S3_BUCKET"`
	S3AccessKeyID  string        `env:"CERT_S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `env:"CERT_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool          `env:"CERT_S3_USE_PATH_STYLE" envDefault:"true"`
	PresignTTL     time.Duration `env:"CERT_PRESIGN_TTL" envDefault:"1h"`

	// Redis cache (optional; the service degrades to resolver-only lookups without it)
	RedisURL string        `env:"CERT_REDIS_URL"`
	CacheTTL time.Duration `env:"CERT_CACHE_TTL" envDefault:"1h"`

	// Certificate resolution
	VerifyBaseURL  string `env:"CERTIFICATE_VERIFY_URL"`
	LookbackMonths int    `env:"CERT_LOOKBACK_MONTHS" envDefault:"3"`

	// Rendering
	PageSize string `env:"CERT_PAGE_SIZE" envDefault:"Letter"` // Letter or A4
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)

	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	if cfg.LookbackMonths < 0 {
		cfg.LookbackMonths = 0
	}
	if cfg.VerifyBaseURL == "" {
		if cfg.Environment == "development" {
			cfg.VerifyBaseURL = fmt.Sprintf("http://localhost:%d/verify", cfg.HTTPPort)
		} else {
			cfg.VerifyBaseURL = "https://tracks.microlearn.university/verify"
		}
	}
	cfg.VerifyBaseURL = strings.TrimSuffix(cfg.VerifyBaseURL, "/")

	switch strings.ToLower(strings.TrimSpace(cfg.PageSize)) {
	case "", "letter":
		cfg.PageSize = "Letter"
	case "a4":
		cfg.PageSize = "A4"
	default:
		return nil, fmt.Errorf("unsupported CERT_PAGE_SIZE %q (want Letter or A4)", cfg.PageSize)
	}

	if !cfg.IsLocalStorage() && !cfg.IsS3Storage() {
		return nil, fmt.Errorf("unsupported CERT_STORAGE_BACKEND %q (want s3 or local)", cfg.StorageBackend)
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if the local filesystem backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if the S3 backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}
