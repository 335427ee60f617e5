package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{
			name:     "ollama with fallback",
			cfg:      Config{Provider: "ollama", Model: "llama3", FallbackModel: "phi3"},
			wantName: "ollama/llama3+ollama/phi3",
		},
		{
			name:     "ollama without fallback",
			cfg:      Config{Provider: "ollama", Model: "llama3"},
			wantName: "ollama/llama3",
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "huggingface"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewLLMProvider(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}
