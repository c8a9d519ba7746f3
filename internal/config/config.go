// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the bot.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration values loaded from the environment.
type Config struct {
	Env string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (optional — advisory run lock; empty addr disables it)
	RedisAddr     string
	RedisPassword string

	// AI provider settings
	AIProvider string // "openai", "gemini", "claude", "mistral"

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// Publisher (X / Twitter API v2)
	TwitterToken   string
	TwitterBaseURL string

	// Trending topics RSS feed (optional)
	TrendsFeedURL string

	// Theme catalog file (optional — built-in catalog used when empty)
	CatalogPath string

	// Rotation tuning
	Cadence  int // every Nth publication is a trending post
	PoolSize int // candidate posts generated per theme
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Env: envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "murmur"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "murmur"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		ClaudeKey:     os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		MistralKey:     os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-small-latest"),
		MistralBaseURL: os.Getenv("MISTRAL_BASE_URL"),

		TwitterToken:   os.Getenv("TWITTER_BEARER_TOKEN"),
		TwitterBaseURL: os.Getenv("TWITTER_BASE_URL"),

		TrendsFeedURL: os.Getenv("TRENDS_FEED_URL"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}

	var err error
	if cfg.Cadence, err = envOrDefaultInt("CADENCE", 5); err != nil {
		return nil, err
	}
	if cfg.PoolSize, err = envOrDefaultInt("POOL_SIZE", 3); err != nil {
		return nil, err
	}
	if cfg.Cadence < 2 {
		return nil, fmt.Errorf("CADENCE must be at least 2, got %d", cfg.Cadence)
	}
	if cfg.PoolSize < 1 {
		return nil, fmt.Errorf("POOL_SIZE must be at least 1, got %d", cfg.PoolSize)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.TwitterToken == "" {
			return nil, fmt.Errorf("TWITTER_BEARER_TOKEN must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// IsDev returns true if the bot is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable with a fallback.
func envOrDefaultInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
