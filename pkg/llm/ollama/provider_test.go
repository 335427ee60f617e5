package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cora-leaf-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Model: got.Model, Message: chatMessage{Role: "assistant", Content: "pong"}, Done: true})
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3", 0)
	text, err := p.Generate(context.Background(), "ping", llm.WithMaxTokens(64), llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "pong", text)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 64, got.Options.NumPredict)
	assert.InDelta(t, 0.2, got.Options.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "ping", got.Messages[0].Content)
}

func TestOllamaProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			want: "status 503",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			want: "malformed",
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(chatResponse{Done: true})
			},
			want: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewOllamaProvider(server.URL, "llama3", 0).Generate(context.Background(), "ping")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
