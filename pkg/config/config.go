package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (optional cross-run cache and shared rate limit)
	Redis RedisConfig

	// Market data
	Yahoo       YahooConfig
	Fundamentus FundamentusConfig
	Fetch       FetchConfig

	// Indicators
	MomentumMode string // strict | window

	// Universe override (empty = embedded default)
	UniverseFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// YahooConfig holds Yahoo Finance endpoint configuration
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FundamentusConfig holds the B3 fundamentals fallback configuration
type FundamentusConfig struct {
	BaseURL string
	Enabled bool
	Timeout time.Duration
}

// FetchConfig is the per-ticker fetch policy: retries, randomized backoff, throttle
type FetchConfig struct {
	MaxRetries    int
	MinDelay      time.Duration
	MaxDelay      time.Duration
	RatePerSecond float64
	Burst         int
	HistoryPeriod string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "10m"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
			Timeout: getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
		},

		Fundamentus: FundamentusConfig{
			BaseURL: getEnv("FUNDAMENTUS_BASE_URL", "https://www.fundamentus.com.br"),
			Enabled: getEnvAsBool("FUNDAMENTUS_ENABLED", true),
			Timeout: getEnvAsDuration("FUNDAMENTUS_TIMEOUT", "10s"),
		},

		Fetch: FetchConfig{
			MaxRetries:    getEnvAsInt("FETCH_MAX_RETRIES", 3),
			MinDelay:      getEnvAsDuration("FETCH_MIN_DELAY", "500ms"),
			MaxDelay:      getEnvAsDuration("FETCH_MAX_DELAY", "3s"),
			RatePerSecond: getEnvAsFloat("FETCH_RATE_PER_SEC", 2),
			Burst:         getEnvAsInt("FETCH_BURST", 1),
			HistoryPeriod: getEnv("HISTORY_PERIOD", "2y"),
		},

		MomentumMode: getEnv("MOMENTUM_MODE", "strict"),
		UniverseFile: getEnv("UNIVERSE_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with all defaults applied and no environment lookups.
// Used by tests and library callers.
func Default() *Config {
	return &Config{
		Port: "8089",
		Env:  "development",
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			CacheTTL: 10 * time.Minute,
		},
		Yahoo: YahooConfig{
			BaseURL: "https://query2.finance.yahoo.com",
			Timeout: 15 * time.Second,
		},
		Fundamentus: FundamentusConfig{
			BaseURL: "https://www.fundamentus.com.br",
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Fetch: FetchConfig{
			MaxRetries:    3,
			MinDelay:      500 * time.Millisecond,
			MaxDelay:      3 * time.Second,
			RatePerSecond: 2,
			Burst:         1,
			HistoryPeriod: "2y",
		},
		MomentumMode: "strict",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be >= 0")
	}
	if c.Fetch.MinDelay < 0 || c.Fetch.MaxDelay < c.Fetch.MinDelay {
		return fmt.Errorf("FETCH_MAX_DELAY must be >= FETCH_MIN_DELAY >= 0")
	}
	if c.Fetch.RatePerSecond <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SEC must be > 0")
	}
	if c.Fetch.Burst < 1 {
		return fmt.Errorf("FETCH_BURST must be >= 1")
	}

	mode := strings.ToLower(c.MomentumMode)
	if mode != "strict" && mode != "window" {
		return fmt.Errorf("MOMENTUM_MODE must be one of: strict, window")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
