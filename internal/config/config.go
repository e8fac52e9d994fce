package config

import (
	"os"
	"strconv"
	"time"
)

// AIConfig holds the language-model gateway settings. The API key has
// no default: its absence is a fatal configuration error surfaced as a
// service-unavailable condition, never as a generic failure.
type AIConfig struct {
	GatewayURL string
	APIKey     string
	Model      string
	Timeout    time.Duration
}

// AppConfig is the centralized configuration, populated from
// environment variables. A .env file can be auto-loaded by importing
// github.com/joho/godotenv/autoload; real environment variables take
// precedence.
type AppConfig struct {
	Port        string
	MaxUploadMB int
	AI          AIConfig
}

// Load reads configuration from environment variables.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "8080"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
		AI: AIConfig{
			GatewayURL: getEnv("AI_GATEWAY_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:     getEnv("AI_API_KEY", ""),
			Model:      getEnv("AI_MODEL", "gpt-4o-mini"),
			Timeout:    time.Duration(getEnvInt("AI_TIMEOUT_SEC", 120)) * time.Second,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
