package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/config"
	"alfredoptarigan/cv-screening-agent/internal/models"
)

// ModelClient sends one single-turn prompt to a language model and returns the reply text.
type ModelClient interface {
	Complete(ctx context.Context, prompt models.Prompt, modelID string, maxOutputTokens int32) (string, error)
	Configured() bool
	Provider() string
}

var placeholderKeys = map[string]bool{
	"your_anthropic_api_key_here": true,
	"your_gemini_api_key_here":    true,
	"your_api_key_here":           true,
	"changeme":                    true,
}

// credentialConfigured reports whether key looks like a real credential.
// It never contacts the provider.
func credentialConfigured(key string) bool {
	key = strings.TrimSpace(key)
	if placeholderKeys[strings.ToLower(key)] {
		return false
	}
	return len(key) > 10
}

// NewModelClient builds the adapter for the configured provider.
func NewModelClient(cfg *config.Config, log *zap.Logger) ModelClient {
	if cfg.Model.Provider == config.ProviderGemini {
		return NewGeminiClient(cfg.Model.APIKey, cfg.Model.Timeout, log)
	}
	return NewAnthropicClient(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.Timeout, log)
}

func upstreamError(provider string, err error) *EvaluationError {
	return newError(KindUpstreamUnavailable, provider+" request failed", err)
}

func elapsedSince(start time.Time) float64 {
	return time.Since(start).Seconds()
}
