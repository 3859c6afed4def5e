package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODEL_PROVIDER", "MODEL_API_KEY", "MODEL_NAME", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"MAX_FILE_SIZE_MB", "ALLOWED_EXTENSIONS", "STRICT_STATUS", "MODEL_TIMEOUT", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearModelEnv(t)

	cfg := FromViper(newViper())

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, ProviderAnthropic, cfg.Model.Provider)
	assert.Equal(t, defaultAnthropicModel, cfg.Model.Name)
	assert.Equal(t, int32(2048), cfg.Model.MaxOutputTokens)
	assert.Equal(t, 60*time.Second, cfg.Model.Timeout)
	assert.Equal(t, int64(10), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSizeBytes())
	assert.Equal(t, []string{".pdf"}, cfg.Upload.AllowedExtensions)
	assert.False(t, cfg.Rubric.StrictStatus)
	assert.Len(t, cfg.Server.AllowOrigins, 4)
}

func TestProviderSpecificKeyAndModel(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "gemini-key-123456")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key-123456")

	cfg := FromViper(newViper())

	require.Equal(t, ProviderGemini, cfg.Model.Provider)
	assert.Equal(t, "gemini-key-123456", cfg.Model.APIKey)
	assert.Equal(t, defaultGeminiModel, cfg.Model.Name)
}

func TestExplicitModelKeyWins(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key-123456")
	t.Setenv("MODEL_API_KEY", "  explicit-key-123456 ")
	t.Setenv("MODEL_NAME", "claude-custom")

	cfg := FromViper(newViper())

	assert.Equal(t, "explicit-key-123456", cfg.Model.APIKey)
	assert.Equal(t, "claude-custom", cfg.Model.Name)
}

func TestUnknownProviderFallsBackToAnthropic(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_PROVIDER", "openai")

	cfg := FromViper(newViper())

	assert.Equal(t, ProviderAnthropic, cfg.Model.Provider)
}

func TestUploadOverrides(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MAX_FILE_SIZE_MB", "2")
	t.Setenv("ALLOWED_EXTENSIONS", "PDF, .Pdf")
	t.Setenv("STRICT_STATUS", "true")

	cfg := FromViper(newViper())

	assert.Equal(t, int64(2*1024*1024), cfg.MaxFileSizeBytes())
	assert.Equal(t, []string{".pdf", ".pdf"}, cfg.Upload.AllowedExtensions)
	assert.True(t, cfg.Rubric.StrictStatus)
}

func TestNonPositiveUploadLimitFallsBack(t *testing.T) {
	for _, raw := range []string{"0", "-5"} {
		t.Run(raw, func(t *testing.T) {
			clearModelEnv(t)
			t.Setenv("MAX_FILE_SIZE_MB", raw)

			cfg := FromViper(newViper())

			assert.Equal(t, int64(10), cfg.Upload.MaxFileSizeMB)
			assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSizeBytes())
		})
	}
}
