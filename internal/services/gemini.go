package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/metrics"
	"alfredoptarigan/cv-screening-agent/internal/models"
)

const geminiProvider = "gemini"

// generativeModels is the subset of genai.Models used here.
type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	models  generativeModels
	apiKey  string
	timeout time.Duration
	log     *zap.Logger
}

func NewGeminiClient(apiKey string, timeout time.Duration, log *zap.Logger) ModelClient {
	apiKey = strings.TrimSpace(apiKey)
	g := &geminiClient{
		apiKey:  apiKey,
		timeout: timeout,
		log:     logger.WithModel(log, geminiProvider, ""),
	}
	if apiKey == "" {
		return g
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: &timeout,
		},
	})
	if err != nil {
		g.log.Warn("gemini client could not be created")
		return g
	}

	g.models = client.Models
	return g
}

func (g *geminiClient) Provider() string {
	return geminiProvider
}

func (g *geminiClient) Configured() bool {
	return g.models != nil && credentialConfigured(g.apiKey)
}

func (g *geminiClient) Complete(ctx context.Context, prompt models.Prompt, modelID string, maxOutputTokens int32) (string, error) {
	if g.models == nil {
		return "", upstreamError(geminiProvider, fmt.Errorf("gemini client is not initialized"))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		MaxOutputTokens:   maxOutputTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, modelID, contents, cfg)
	metrics.ModelRequestDuration.WithLabelValues(geminiProvider).Observe(elapsedSince(start))
	if err != nil {
		return "", upstreamError(geminiProvider, fmt.Errorf("failed to generate content: %w", err))
	}

	text, ok := firstText(resp)
	if !ok {
		return "", upstreamError(geminiProvider, fmt.Errorf("no text content in response"))
	}

	g.log.Debug("model reply received",
		zap.String("model", modelID),
		zap.String("reply", logger.TruncateForLog(text, 500)),
	)

	return text, nil
}

// firstText returns the first non-thought text part, unmodified.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || strings.TrimSpace(part.Text) == "" {
				continue
			}
			return part.Text, true
		}
	}
	return "", false
}
