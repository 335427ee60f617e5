package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"cora-leaf-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	name    string
	results []error
	calls   int
	delay   time.Duration
}

func (s *scriptedProvider) Name() string { return s.name }

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (s *scriptedProvider) Chat(ctx context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	idx := s.calls
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if idx < len(s.results) && s.results[idx] != nil {
		return "", s.results[idx]
	}
	return s.name + " reply", nil
}

func TestResilientProvider_RetriesTransientErrors(t *testing.T) {
	primary := &scriptedProvider{name: "primary", results: []error{
		errors.New("googleapi: Error 503: model overloaded"),
		errors.New("Error 429: Too Many Requests"),
	}}
	fallback := &scriptedProvider{name: "fallback"}

	r := NewResilientProvider(primary, fallback, WithBaseDelay(time.Millisecond))
	text, err := r.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "primary reply", text)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestResilientProvider_NonRetryableGoesToFallback(t *testing.T) {
	primary := &scriptedProvider{name: "primary", results: []error{errors.New("API key not valid")}}
	fallback := &scriptedProvider{name: "fallback"}

	r := NewResilientProvider(primary, fallback, WithBaseDelay(time.Millisecond))
	text, err := r.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "fallback reply", text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResilientProvider_BothFail(t *testing.T) {
	quota := errors.New("quota exceeded")
	primary := &scriptedProvider{name: "primary", results: []error{quota}}
	fallback := &scriptedProvider{name: "fallback", results: []error{quota}}

	r := NewResilientProvider(primary, fallback, WithBaseDelay(time.Millisecond))
	_, err := r.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.ErrorIs(t, err, quota)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestResilientProvider_NoFallback(t *testing.T) {
	primary := &scriptedProvider{name: "primary", results: []error{errors.New("boom")}}

	r := NewResilientProvider(primary, nil)
	_, err := r.Generate(context.Background(), "hi")

	assert.EqualError(t, err, "boom")
	assert.Equal(t, "primary", r.Name())
}

func TestResilientProvider_Timeout(t *testing.T) {
	primary := &scriptedProvider{name: "primary", delay: time.Second}
	fallback := &scriptedProvider{name: "fallback"}

	r := NewResilientProvider(primary, fallback, WithTimeout(20*time.Millisecond), WithMaxRetries(0))
	_, err := r.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, fallback.calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 429"), true},
		{errors.New("status 500"), true},
		{errors.New("503 Service Unavailable"), true},
		{errors.New("model is overloaded"), true},
		{context.DeadlineExceeded, true},
		{errors.New("permission denied"), false},
		{errors.New("quota exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
