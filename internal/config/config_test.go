package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every key Load reads so a developer's .env or shell
// does not leak into the test
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "HOST", "ALLOWED_ORIGINS", "GEMINI_API_KEY", "GEMINI_MODEL",
		"CONTEXT_LIMIT", "SCRIPT_LIMIT", "TTS_PROVIDER", "TTS_VOICE",
		"GOOGLE_TTS_API_KEY", "OPENAI_API_KEY", "CACHE_TYPE", "CACHE_DURATION_HOURS",
		"CACHE_BUCKET", "CACHE_SQLITE_PATH", "CACHE_PURGE_SCHEDULE", "CHAT_HISTORY_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Expected GeminiAPIKey to be 'test-key', got '%s'", cfg.GeminiAPIKey)
	}
	if cfg.GoogleTTSAPIKey != "test-key" {
		t.Errorf("Expected GoogleTTSAPIKey to fall back to the Gemini key, got '%s'", cfg.GoogleTTSAPIKey)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.ContextLimit != 8000 || cfg.ScriptLimit != 4000 {
		t.Errorf("Expected limits 8000/4000, got %d/%d", cfg.ContextLimit, cfg.ScriptLimit)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("Expected default origin, got %v", cfg.AllowedOrigins)
	}
	if cfg.TTSProvider != "google" || cfg.CacheType != "memory" {
		t.Errorf("Expected google/memory defaults, got %s/%s", cfg.TTSProvider, cfg.CacheType)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("Expected 24h cache TTL, got %v", cfg.CacheTTL())
	}
	if cfg.ChatHistoryLimit != 50 {
		t.Errorf("Expected chat history limit 50, got %d", cfg.ChatHistoryLimit)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Expected addr '0.0.0.0:8080', got '%s'", cfg.Addr())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TTS_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONTEXT_LIMIT", "100")
	t.Setenv("SCRIPT_LIMIT", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("CACHE_TYPE", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TTSProvider != "openai" {
		t.Errorf("Expected provider 'openai', got '%s'", cfg.TTSProvider)
	}
	if cfg.ContextLimit != 100 {
		t.Errorf("Expected context limit 100, got %d", cfg.ContextLimit)
	}
	if cfg.ScriptLimit != 4000 {
		t.Errorf("Expected invalid script limit to keep default, got %d", cfg.ScriptLimit)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("Expected two origins, got %v", cfg.AllowedOrigins)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"missing gemini key", map[string]string{}, "GEMINI_API_KEY"},
		{"openai without key", map[string]string{"GEMINI_API_KEY": "k", "TTS_PROVIDER": "openai"}, "OPENAI_API_KEY"},
		{"unknown provider", map[string]string{"GEMINI_API_KEY": "k", "TTS_PROVIDER": "polly"}, "TTS_PROVIDER"},
		{"unknown cache", map[string]string{"GEMINI_API_KEY": "k", "CACHE_TYPE": "redis"}, "CACHE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestConfigJSONHidesSecrets(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "g-secret", GoogleTTSAPIKey: "t-secret", OpenAIAPIKey: "o-secret", CacheType: "memory"}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	for _, secret := range []string{"g-secret", "t-secret", "o-secret"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("Expected %s to be hidden, got %s", secret, data)
		}
	}
}

func TestParseStringSlice(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{"a, b , c ", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
	}

	for _, test := range tests {
		result := parseStringSlice(test.input)
		if len(result) != len(test.expected) {
			t.Errorf("For input '%s', expected length %d, got %d", test.input, len(test.expected), len(result))
			continue
		}
		for i, expected := range test.expected {
			if result[i] != expected {
				t.Errorf("For input '%s', expected[%d] = '%s', got '%s'", test.input, i, expected, result[i])
			}
		}
	}
}
