package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("AI_TIMEOUT_SEC", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Empty(t, cfg.AI.APIKey, "the API key must have no default")
	assert.NotEmpty(t, cfg.AI.GatewayURL)
	assert.NotEmpty(t, cfg.AI.Model)
	assert.Equal(t, 120*time.Second, cfg.AI.Timeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("AI_GATEWAY_URL", "https://gateway.internal/v1/chat/completions")
	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("AI_MODEL", "custom-model")
	t.Setenv("AI_TIMEOUT_SEC", "30")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 25, cfg.MaxUploadMB)
	assert.Equal(t, "https://gateway.internal/v1/chat/completions", cfg.AI.GatewayURL)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, "custom-model", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg := Load()
	assert.Equal(t, 10, cfg.MaxUploadMB)
}
