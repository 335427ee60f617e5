package resilient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"cora-leaf-be/pkg/llm"

	"go.uber.org/zap"
)

// ResilientProvider retries the primary backend on transient failures, then
// tries the fallback once, all under one timeout.
type ResilientProvider struct {
	primary    llm.LLMProvider
	fallback   llm.LLMProvider
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	log        *zap.Logger
}

var _ llm.LLMProvider = &ResilientProvider{}

type Option func(*ResilientProvider)

func WithMaxRetries(n int) Option {
	return func(r *ResilientProvider) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(r *ResilientProvider) {
		r.baseDelay = d
	}
}

func WithTimeout(d time.Duration) Option {
	return func(r *ResilientProvider) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *ResilientProvider) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResilientProvider wraps primary. fallback may be nil.
func NewResilientProvider(primary, fallback llm.LLMProvider, opts ...Option) *ResilientProvider {
	r := &ResilientProvider{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		timeout:    25 * time.Second,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ResilientProvider) Name() string {
	if r.fallback == nil {
		return r.primary.Name()
	}
	return r.primary.Name() + "+" + r.fallback.Name()
}

func (r *ResilientProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return r.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (r *ResilientProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.executeWithRetry(resCtx, r.primary, history, opts)
	if err == nil {
		return text, nil
	}
	if r.fallback == nil || resCtx.Err() != nil {
		return "", err
	}

	r.log.Warn("primary gateway exhausted, switching to fallback",
		zap.String("primary", r.primary.Name()),
		zap.String("fallback", r.fallback.Name()),
		zap.Error(err),
	)

	text, fbErr := r.fallback.Chat(resCtx, history, opts...)
	if fbErr != nil {
		return "", fmt.Errorf("both primary and fallback failed: %w", errors.Join(err, fbErr))
	}

	return text, nil
}

func (r *ResilientProvider) executeWithRetry(ctx context.Context, p llm.LLMProvider, history []llm.Message, opts []llm.Option) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		text, err := p.Chat(ctx, history, opts...)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == r.maxRetries {
			break
		}

		r.log.Debug("retrying gateway call",
			zap.String("provider", p.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return "", fmt.Errorf("gateway timed out: %w", ctx.Err())
		}
	}
	return "", lastErr
}

// IsRetryable reports rate limits, server errors and deadlines.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "deadline")
}

func (r *ResilientProvider) backoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff
	return time.Duration(backoff + jitter)
}
