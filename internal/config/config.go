package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port           string   `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`

	// Gemini API settings
	GeminiAPIKey string `json:"-"` // Don't expose in JSON
	GeminiModel  string `json:"gemini_model"`

	// Upstream input bounds, in characters
	ContextLimit int `json:"context_limit"`
	ScriptLimit  int `json:"script_limit"`

	// Speech settings
	TTSProvider     string `json:"tts_provider"` // "google" or "openai"
	TTSVoice        string `json:"tts_voice,omitempty"`
	GoogleTTSAPIKey string `json:"-"`
	OpenAIAPIKey    string `json:"-"`

	// Cache settings
	CacheType          string `json:"cache_type"`     // "memory", "sqlite" or "cloud-storage"
	CacheDuration      int    `json:"cache_duration"` // in hours
	CacheBucket        string `json:"cache_bucket,omitempty"`
	CacheSQLitePath    string `json:"cache_sqlite_path,omitempty"`
	CachePurgeSchedule string `json:"cache_purge_schedule"`

	// Tutor chat
	ChatHistoryLimit int `json:"chat_history_limit"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	geminiKey := getEnvOrDefault("GEMINI_API_KEY", "")
	config := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		AllowedOrigins:     parseStringSlice(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")),
		GeminiAPIKey:       geminiKey,
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		ContextLimit:       getEnvOrDefaultInt("CONTEXT_LIMIT", 8000),
		ScriptLimit:        getEnvOrDefaultInt("SCRIPT_LIMIT", 4000),
		TTSProvider:        strings.ToLower(getEnvOrDefault("TTS_PROVIDER", "google")),
		TTSVoice:           getEnvOrDefault("TTS_VOICE", ""),
		GoogleTTSAPIKey:    getEnvOrDefault("GOOGLE_TTS_API_KEY", geminiKey),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		CacheType:          getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheDuration:      getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		CacheBucket:        getEnvOrDefault("CACHE_BUCKET", ""),
		CacheSQLitePath:    getEnvOrDefault("CACHE_SQLITE_PATH", "data/leeai-cache.db"),
		CachePurgeSchedule: getEnvOrDefault("CACHE_PURGE_SCHEDULE", "@every 10m"),
		ChatHistoryLimit:   getEnvOrDefaultInt("CHAT_HISTORY_LIMIT", 50),
	}

	return config, config.validate()
}

// CacheTTL is the cache lifetime as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheDuration) * time.Hour
}

// Addr is the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
	}
	switch c.TTSProvider {
	case "google":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "OpenAI API key is required for the openai speech provider"}
		}
	default:
		return &ConfigError{Field: "TTS_PROVIDER", Message: "must be google or openai"}
	}
	switch c.CacheType {
	case "memory", "sqlite", "cloud-storage":
	default:
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be memory, sqlite or cloud-storage"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseStringSlice parses comma-separated string into slice
func parseStringSlice(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
