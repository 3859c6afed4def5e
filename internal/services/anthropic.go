package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/metrics"
	"alfredoptarigan/cv-screening-agent/internal/models"
)

const (
	anthropicVersion  = "2023-06-01"
	anthropicProvider = "anthropic"
)

type anthropicClient struct {
	http   *resty.Client
	apiKey string
	log    *zap.Logger
}

func NewAnthropicClient(apiKey, baseURL string, timeout time.Duration, log *zap.Logger) ModelClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("anthropic-version", anthropicVersion)

	return &anthropicClient{
		http:   client,
		apiKey: strings.TrimSpace(apiKey),
		log:    logger.WithModel(log, anthropicProvider, ""),
	}
}

func (a *anthropicClient) Provider() string {
	return anthropicProvider
}

func (a *anthropicClient) Configured() bool {
	return credentialConfigured(a.apiKey)
}

func (a *anthropicClient) Complete(ctx context.Context, prompt models.Prompt, modelID string, maxOutputTokens int32) (string, error) {
	if a.apiKey == "" {
		return "", upstreamError(anthropicProvider, fmt.Errorf("api key is not configured"))
	}

	start := time.Now()
	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", a.apiKey).
		SetBody(map[string]any{
			"model":      modelID,
			"max_tokens": maxOutputTokens,
			"system":     prompt.System,
			"messages": []map[string]string{
				{"role": "user", "content": prompt.User},
			},
		}).
		Post("/v1/messages")
	metrics.ModelRequestDuration.WithLabelValues(anthropicProvider).Observe(elapsedSince(start))

	if err != nil {
		return "", upstreamError(anthropicProvider, fmt.Errorf("failed to call messages API: %w", err))
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = logger.TruncateForLog(body, 200)
		}
		return "", upstreamError(anthropicProvider, fmt.Errorf("messages API returned %d: %s", resp.StatusCode(), msg))
	}

	if !gjson.Valid(body) {
		return "", upstreamError(anthropicProvider, fmt.Errorf("messages API returned a non-JSON body"))
	}

	text := gjson.Get(body, `content.#(type=="text").text`)
	if !text.Exists() || text.String() == "" {
		return "", upstreamError(anthropicProvider, fmt.Errorf("messages API reply has no text content"))
	}

	a.log.Debug("model reply received",
		zap.String("model", modelID),
		zap.String("stop_reason", gjson.Get(body, "stop_reason").String()),
		zap.String("reply", logger.TruncateForLog(text.String(), 500)),
	)

	return text.String(), nil
}
