package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version is overridden at build time with -ldflags "-X .../config.Version=...".
var Version = "1.0.0"

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultGeminiModel    = "gemini-2.5-flash"
)

type Config struct {
	Server    ServerConfig
	Model     ModelConfig
	Upload    UploadConfig
	Rubric    RubricConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AppName      string
	AllowOrigins []string
}

type ModelConfig struct {
	Provider        string
	APIKey          string
	Name            string
	BaseURL         string
	MaxOutputTokens int32
	Timeout         time.Duration
}

type UploadConfig struct {
	MaxFileSizeMB     int64
	AllowedExtensions []string
}

type RubricConfig struct {
	Path         string
	StrictStatus bool
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// Load reads an optional .env file and the process environment into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "CV Screening Agent")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173,http://127.0.0.1:3000")

	v.SetDefault("MODEL_PROVIDER", ProviderAnthropic)
	v.SetDefault("MODEL_BASE_URL", "https://api.anthropic.com")
	v.SetDefault("MODEL_MAX_OUTPUT_TOKENS", 2048)
	v.SetDefault("MODEL_TIMEOUT", "60s")

	v.SetDefault("MAX_FILE_SIZE_MB", 10)
	v.SetDefault("ALLOWED_EXTENSIONS", ".pdf")

	v.SetDefault("RUBRIC_PATH", "")
	v.SetDefault("STRICT_STATUS", false)

	v.SetDefault("RATE_LIMIT_MAX", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("MODEL_PROVIDER")))
	if provider != ProviderGemini {
		provider = ProviderAnthropic
	}

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("APP_ENV"),
			AppName:      v.GetString("APP_NAME"),
			AllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Model: ModelConfig{
			Provider:        provider,
			APIKey:          modelAPIKey(v, provider),
			Name:            modelName(v, provider),
			BaseURL:         v.GetString("MODEL_BASE_URL"),
			MaxOutputTokens: v.GetInt32("MODEL_MAX_OUTPUT_TOKENS"),
			Timeout:         durationOr(v, "MODEL_TIMEOUT", 60*time.Second),
		},
		Upload: UploadConfig{
			MaxFileSizeMB:     positiveOr(v.GetInt64("MAX_FILE_SIZE_MB"), 10),
			AllowedExtensions: normalizeExtensions(splitList(v.GetString("ALLOWED_EXTENSIONS"))),
		},
		Rubric: RubricConfig{
			Path:         strings.TrimSpace(v.GetString("RUBRIC_PATH")),
			StrictStatus: v.GetBool("STRICT_STATUS"),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("RATE_LIMIT_MAX"),
			Window: durationOr(v, "RATE_LIMIT_WINDOW", time.Minute),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
		},
	}
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Upload.MaxFileSizeMB * 1024 * 1024
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func modelAPIKey(v *viper.Viper, provider string) string {
	if key := strings.TrimSpace(v.GetString("MODEL_API_KEY")); key != "" {
		return key
	}
	if provider == ProviderGemini {
		return strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	}
	return strings.TrimSpace(v.GetString("ANTHROPIC_API_KEY"))
}

func modelName(v *viper.Viper, provider string) string {
	if name := strings.TrimSpace(v.GetString("MODEL_NAME")); name != "" {
		return name
	}
	if provider == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultAnthropicModel
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

func positiveOr(n, fallback int64) int64 {
	if n > 0 {
		return n
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	if len(out) == 0 {
		out = append(out, ".pdf")
	}
	return out
}
