package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	ProcessingTimeout  time.Duration
	MaxRequestBodySize int64
	MaxImageBytes      int64
	MaxWorkers         int

	// LocalRoot enables file:// sources confined to this directory.
	LocalRoot string

	AzureAccountName string
	AzureAccountKey  string

	// Normalize holds the server-wide defaults for requests that omit parameters.
	Normalize normalize.Options
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob credentials were supplied.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

// LocalEnabled reports whether file sources are served.
func (c *Config) LocalEnabled() bool {
	return c.LocalRoot != ""
}

func LoadFromEnv() (*Config, error) {
	defaults := normalize.DefaultOptions()

	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		ProcessingTimeout:  parseDurationOrDefault("PROCESSING_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1024*1024),  // 1MB of JSON
		MaxImageBytes:      parseIntOrDefault("MAX_IMAGE_BYTES", 64*1024*1024),      // 64MB
		MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)),                // 0 = NumCPU
		LocalRoot:          strings.TrimSpace(os.Getenv("LOCAL_ROOT")),
		AzureAccountName:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureAccountKey:    strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
		Normalize: normalize.Options{
			PMin:  parseFloatOrDefault("NORMALIZE_PMIN", defaults.PMin),
			PMax:  parseFloatOrDefault("NORMALIZE_PMAX", defaults.PMax),
			Eps:   parseFloatOrDefault("NORMALIZE_EPS", defaults.Eps),
			Clip:  parseBoolOrDefault("NORMALIZE_CLIP", defaults.Clip),
			Label: getEnvOrDefault("NORMALIZE_LABEL", defaults.Label),
		},
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", cfg.MaxImageBytes)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", cfg.MaxWorkers)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.ProcessingTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, processing=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.ProcessingTimeout)
	}
	if (cfg.AzureAccountName == "") != (cfg.AzureAccountKey == "") {
		return nil, fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
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

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
