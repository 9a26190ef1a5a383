package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port string

	// FrontendURL is the dashboard origin allowed by CORS.
	FrontendURL string

	// DatabasePath is the SQLite file backing profile/post/reel records.
	DatabasePath string

	// Apify scraping integration.
	ApifyToken   string
	ApifyBaseURL string
	ApifyTimeout time.Duration

	// Redis-backed analysis result cache. Empty address disables caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Azure Blob media mirror. Empty account name selects the HTTP fetcher.
	AzureAccountName string
	AzureAccountKey  string

	RequestTimeout     time.Duration
	MediaFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64
	MaxMediaBytes      int64

	// AnalysisMaxDimension caps the engine's processing resolution.
	AnalysisMaxDimension int
	// AnalysisWorkers bounds concurrent batch analyses (0 = CPU count).
	AnalysisWorkers int
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// CacheEnabled reports whether the result cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// AzureEnabled reports whether the blob media mirror is configured.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != ""
}

func LoadFromEnv() (*Config, error) {
	// A local .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host:                 getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                 getEnvOrDefault("PORT", "8080"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "influencers.db"),
		ApifyToken:           os.Getenv("APIFY_API_TOKEN"),
		ApifyBaseURL:         getEnvOrDefault("APIFY_BASE_URL", "https://api.apify.com"),
		ApifyTimeout:         parseDurationOrDefault("APIFY_TIMEOUT", 120*time.Second),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              int(parseIntOrDefault("REDIS_DB", 0)),
		CacheTTL:             parseDurationOrDefault("CACHE_TTL", 24*time.Hour),
		AzureAccountName:     os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:      os.Getenv("AZURE_ACCOUNT_KEY"),
		RequestTimeout:       parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MediaFetchTimeout:    parseDurationOrDefault("MEDIA_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:      parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize:   parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024),
		MaxMediaBytes:        parseIntOrDefault("MAX_MEDIA_BYTES", 20*1024*1024),
		AnalysisMaxDimension: int(parseIntOrDefault("ANALYSIS_MAX_DIMENSION", 512)),
		AnalysisWorkers:      int(parseIntOrDefault("ANALYSIS_WORKERS", 0)),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxMediaBytes <= 0 {
		return nil, fmt.Errorf("MAX_MEDIA_BYTES must be > 0 (got %d)", cfg.MaxMediaBytes)
	}
	if cfg.AnalysisMaxDimension <= 0 {
		return nil, fmt.Errorf("ANALYSIS_MAX_DIMENSION must be > 0 (got %d)", cfg.AnalysisMaxDimension)
	}
	if cfg.RequestTimeout <= 0 || cfg.MediaFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.MediaFetchTimeout, cfg.AnalysisTimeout)
	}
	if cfg.AzureEnabled() && cfg.AzureAccountKey == "" {
		return nil, fmt.Errorf("AZURE_ACCOUNT_KEY required when AZURE_ACCOUNT_NAME is set")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
