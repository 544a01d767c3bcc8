package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFilesystem = "filesystem"
	BackendSupabase   = "supabase"
)

type Config struct {
	// Gemini
	GeminiAPIKey         string
	GeminiAPIBaseURL     string
	GeminiAPIVersion     string
	GeminiTransformModel string
	GeminiGenerateModel  string

	// OpenAI
	OpenAIAPIKey     string
	OpenAIAPIBaseURL string
	OpenAIImageModel string

	// ProviderTimeout of zero leaves the transport default in place.
	ProviderTimeout time.Duration

	// Artifacts
	ArtifactBackend   string
	ArtifactDir       string
	PublicBaseURL     string
	ArtifactRetention time.Duration
	MaxUploadBytes    int64

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	SupabaseStoragePrefix string

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string
	LogFormat   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_API_VERSION", "v1beta")
	v.SetDefault("GEMINI_TRANSFORM_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("GEMINI_GENERATE_MODEL", "gemini-1.5-flash")

	v.SetDefault("OPENAI_API_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_IMAGE_MODEL", "gpt-image-1")

	v.SetDefault("PROVIDER_TIMEOUT", "0s")

	v.SetDefault("ARTIFACT_BACKEND", BackendFilesystem)
	v.SetDefault("ARTIFACT_DIR", "public/uploads")
	v.SetDefault("ARTIFACT_RETENTION", "0s")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)

	v.SetDefault("SUPABASE_STORAGE_BUCKET", "designs")
	v.SetDefault("SUPABASE_STORAGE_PREFIX", "uploads")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:         v.GetString("GEMINI_API_KEY"),
		GeminiAPIBaseURL:     v.GetString("GEMINI_API_BASE_URL"),
		GeminiAPIVersion:     v.GetString("GEMINI_API_VERSION"),
		GeminiTransformModel: v.GetString("GEMINI_TRANSFORM_MODEL"),
		GeminiGenerateModel:  v.GetString("GEMINI_GENERATE_MODEL"),

		OpenAIAPIKey:     v.GetString("OPENAI_API_KEY"),
		OpenAIAPIBaseURL: v.GetString("OPENAI_API_BASE_URL"),
		OpenAIImageModel: v.GetString("OPENAI_IMAGE_MODEL"),

		ProviderTimeout: v.GetDuration("PROVIDER_TIMEOUT"),

		ArtifactBackend:   strings.ToLower(v.GetString("ARTIFACT_BACKEND")),
		ArtifactDir:       v.GetString("ARTIFACT_DIR"),
		PublicBaseURL:     v.GetString("PUBLIC_BASE_URL"),
		ArtifactRetention: v.GetDuration("ARTIFACT_RETENTION"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),

		SupabaseURL:           v.GetString("SUPABASE_URL"),
		SupabaseServiceKey:    v.GetString("SUPABASE_SERVICE_KEY"),
		SupabaseStorageBucket: v.GetString("SUPABASE_STORAGE_BUCKET"),
		SupabaseStoragePrefix: v.GetString("SUPABASE_STORAGE_PREFIX"),

		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		BaseURL:     v.GetString("BASE_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/uploads"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks settings needed at startup. Provider keys are not checked
// here: a missing key is reported per request so the server can still serve
// artifacts and health checks.
func (c *Config) Validate() error {
	switch c.ArtifactBackend {
	case BackendFilesystem:
		if c.ArtifactDir == "" {
			return fmt.Errorf("ARTIFACT_DIR is required")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
		if c.SupabaseStorageBucket == "" {
			return fmt.Errorf("SUPABASE_STORAGE_BUCKET is required")
		}
	default:
		return fmt.Errorf("ARTIFACT_BACKEND must be %q or %q", BackendFilesystem, BackendSupabase)
	}
	if c.ArtifactRetention < 0 {
		return fmt.Errorf("ARTIFACT_RETENTION must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
