// ABOUTME: Centralized configuration for the museum guide server and CLI
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the museum guide
type Config struct {
	// OpenAI settings
	OpenAIKey   string
	BaseURL     string
	ChatModel   string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration

	// Conversation settings
	HistoryWindow  int
	SuggestWindow  int
	MaxSuggestions int
	SuggestWait    time.Duration
	DirectivesFile string

	// Server settings
	Host string
	Port int

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:        os.Getenv("OPENAI_BASE_URL"),
		ChatModel:      getEnv("MUSEUM_MODEL", DefaultModel),
		MaxTokens:      getEnvInt("MUSEUM_MAX_TOKENS", 250),
		Temperature:    getEnvFloat("MUSEUM_TEMPERATURE", 0.8),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		HistoryWindow:  getEnvInt("MUSEUM_HISTORY_WINDOW", 6),
		SuggestWindow:  getEnvInt("MUSEUM_SUGGEST_WINDOW", 4),
		MaxSuggestions: getEnvInt("MUSEUM_MAX_SUGGESTIONS", 4),
		SuggestWait:    getEnvDuration("MUSEUM_SUGGEST_WAIT", 0),
		DirectivesFile: getEnv("MUSEUM_DIRECTIVES_FILE", DefaultDirectivesPath()),
		Host:           getEnv("MUSEUM_HOST", ""),
		Port:           getEnvInt("PORT", 3000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxTokens < 1 || c.MaxTokens > 4096 {
		return fmt.Errorf("MUSEUM_MAX_TOKENS must be 1-4096, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("MUSEUM_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("MUSEUM_HISTORY_WINDOW must be positive, got %d", c.HistoryWindow)
	}
	if c.SuggestWindow < 1 {
		return fmt.Errorf("MUSEUM_SUGGEST_WINDOW must be positive, got %d", c.SuggestWindow)
	}
	if c.MaxSuggestions < 1 {
		return fmt.Errorf("MUSEUM_MAX_SUGGESTIONS must be positive, got %d", c.MaxSuggestions)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", c.Port)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for the HTTP API
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
