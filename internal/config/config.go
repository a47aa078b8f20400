// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/quantfi/tokenrisk/internal/security"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Provider API keys. Explorer access is required; the others degrade
	// the corresponding data sections when absent.
	EtherscanAPIKey string
	CoinGeckoAPIKey string
	SecurityAPIKey  string
	SantimentAPIKey string

	// Provider base URL overrides, primarily for tests and self-hosted
	// mirrors. Empty means the public endpoint.
	ExplorerBaseURL string
	MarketBaseURL   string
	SecurityBaseURL string
	SocialBaseURL   string

	// Outbound call behavior
	SourceTimeout time.Duration
	RetryAttempts int
	RetryBaseWait time.Duration

	// Batch settings
	BatchWorkers int

	// Observability
	OTLPEndpoint string
}

const (
	DefaultPort          = "8080"
	DefaultEnv           = "development"
	DefaultLogLevel      = "info"
	DefaultSourceTimeout = 10 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryBaseWait = 500 * time.Millisecond
	DefaultBatchWorkers  = 5
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", DefaultPort),
		Env:             getEnv("ENV", DefaultEnv),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:     os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		EtherscanAPIKey: os.Getenv("ETHERSCAN_API_KEY"),
		CoinGeckoAPIKey: os.Getenv("COINGECKO_API_KEY"),
		SecurityAPIKey:  os.Getenv("SECURITY_API_KEY"),
		SantimentAPIKey: os.Getenv("SANTIMENT_API_KEY"),
		ExplorerBaseURL: os.Getenv("EXPLORER_BASE_URL"),
		MarketBaseURL:   os.Getenv("MARKET_BASE_URL"),
		SecurityBaseURL: os.Getenv("SECURITY_BASE_URL"),
		SocialBaseURL:   os.Getenv("SOCIAL_BASE_URL"),
		SourceTimeout:   getEnvDuration("SOURCE_TIMEOUT", DefaultSourceTimeout),
		RetryAttempts:   int(getEnvInt64("RETRY_ATTEMPTS", DefaultRetryAttempts)),
		RetryBaseWait:   getEnvDuration("RETRY_BASE_WAIT", DefaultRetryBaseWait),
		BatchWorkers:    int(getEnvInt64("BATCH_WORKERS", DefaultBatchWorkers)),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.EtherscanAPIKey == "" {
		return fmt.Errorf("ETHERSCAN_API_KEY is required")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be at least 1")
	}
	// Base URL overrides point at self-hosted mirrors in production;
	// reject anything that would let the fetcher reach internal hosts.
	// Development keeps loopback URLs usable for local stubs.
	if c.IsProduction() {
		for name, raw := range map[string]string{
			"EXPLORER_BASE_URL": c.ExplorerBaseURL,
			"MARKET_BASE_URL":   c.MarketBaseURL,
			"SECURITY_BASE_URL": c.SecurityBaseURL,
			"SOCIAL_BASE_URL":   c.SocialBaseURL,
		} {
			if raw == "" {
				continue
			}
			if err := security.ValidateProviderURL(raw); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
