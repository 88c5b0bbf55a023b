// Package config loads the reader configuration from environment variables,
// optionally read from a .env file first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
)

const (
	RecognizerTextract  = "textract"
	RecognizerTesseract = "tesseract"

	CacheNone     = "none"
	CacheDynamoDB = "dynamodb"
	CacheRedis    = "redis"
)

// Config holds reader configuration
type Config struct {
	// Recognition
	Recognizer   string
	Language     string
	MaxImageSide int
	PollInterval time.Duration

	// Reading order and assembly
	Strategy      reader.Strategy
	ParagraphRule reader.ParagraphRule

	// Caching and storage
	Cache    string
	Table    string
	Bucket   string
	RedisURL string
	CacheTTL time.Duration

	Region   string
	LogLevel logrus.Level
}

// LoadEnv reads the given .env files into the environment. Variables that are
// already set win. Missing files are reported as an error for the caller to log.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	strategy, err := reader.ParseStrategy(getEnvOrDefault("READER_STRATEGY", reader.XYLinear.String()))
	if err != nil {
		return nil, fmt.Errorf("READER_STRATEGY: %w", err)
	}
	rule, err := reader.ParseParagraphRule(getEnvOrDefault("READER_PARAGRAPH_RULE", reader.DefaultParagraphRule.String()))
	if err != nil {
		return nil, fmt.Errorf("READER_PARAGRAPH_RULE: %w", err)
	}
	level, err := logrus.ParseLevel(getEnvOrDefault("READER_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("READER_LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Recognizer:    getEnvOrDefault("READER_RECOGNIZER", RecognizerTextract),
		Language:      getEnvOrDefault("READER_LANGUAGE", "eng"),
		MaxImageSide:  getEnvAsIntOrDefault("READER_MAX_IMAGE_SIDE", 0),
		PollInterval:  getEnvAsDurationOrDefault("READER_POLL_INTERVAL", 500*time.Millisecond),
		Strategy:      strategy,
		ParagraphRule: rule,
		Cache:         getEnvOrDefault("READER_CACHE", CacheNone),
		Table:         getEnvOrDefault("READER_TABLE", "Fragments"),
		Bucket:        getEnvOrDefault("READER_BUCKET", ""),
		RedisURL:      getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:      getEnvAsDurationOrDefault("READER_CACHE_TTL", 24*time.Hour),
		Region:        getEnvOrDefault("AWS_REGION", "eu-west-1"),
		LogLevel:      level,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.Recognizer {
	case RecognizerTextract, RecognizerTesseract:
	default:
		return fmt.Errorf("READER_RECOGNIZER must be %s or %s, got %q", RecognizerTextract, RecognizerTesseract, c.Recognizer)
	}

	switch c.Cache {
	case CacheNone:
	case CacheDynamoDB:
		if c.Table == "" {
			return fmt.Errorf("READER_TABLE is required with the dynamodb cache")
		}
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required with the redis cache")
		}
	default:
		return fmt.Errorf("READER_CACHE must be none, dynamodb or redis, got %q", c.Cache)
	}

	if c.MaxImageSide < 0 {
		return fmt.Errorf("READER_MAX_IMAGE_SIDE must not be negative, got %d", c.MaxImageSide)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("READER_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("READER_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}

	return nil
}

// NewLogger returns a logger writing to stderr at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(c.LogLevel)
	return log
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
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

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
