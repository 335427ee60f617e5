package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-test-secret-of-enough-length")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Ai.LLMProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Ai.LLMModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.Ai.LLMFallbackModel)
	assert.Equal(t, 25*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, 10, cfg.Ai.HistoryWindow)
	assert.InDelta(t, 0.7, cfg.Ai.Temperature, 1e-9)
	assert.Equal(t, 400, cfg.Ai.MaxTokens)
	assert.Equal(t, 0, cfg.Ai.CallLimit)
	assert.Equal(t, "logs/governance_audit.log", cfg.App.AuditLogFilePath)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Governance.CustomerManagementMode)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_PROVIDER", "OLLAMA")
	t.Setenv("LLM_MODEL", "llama3")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CUSTOMER_MANAGEMENT_MODE", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("GATEWAY_CALL_LIMIT", "20")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, "llama3", cfg.Ai.LLMModel)
	assert.Equal(t, 5*time.Second, cfg.Ai.Timeout)
	assert.True(t, cfg.Governance.CustomerManagementMode)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 20, cfg.Ai.CallLimit)
	assert.InDelta(t, 0.2, cfg.Ai.Temperature, 1e-9)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": "", "GOOGLE_GEMINI_API_KEY": "k"}},
		{"short jwt secret", map[string]string{"JWT_SECRET": "short", "GOOGLE_GEMINI_API_KEY": "k"}},
		{"gemini without key", map[string]string{"JWT_SECRET": "a-test-secret-of-enough-length", "GOOGLE_GEMINI_API_KEY": ""}},
		{"unknown provider", map[string]string{"JWT_SECRET": "a-test-secret-of-enough-length", "LLM_PROVIDER": "huggingface"}},
		{"history window too large", map[string]string{"JWT_SECRET": "a-test-secret-of-enough-length", "GOOGLE_GEMINI_API_KEY": "k", "CHAT_HISTORY_WINDOW": "1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
