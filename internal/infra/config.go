package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	GeminiAPIKey       string
	GeminiBaseURL      string
	AnalysisModel      string
	ImageEditModel     string
	ImageModel         string
	VideoModel         string
	AdvancedVideoModel string
	PollInterval       time.Duration
	PollMaxAttempts    int
	StoragePath        string
	AllowedOrigins     string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		AnalysisModel:      getEnv("ANALYSIS_MODEL", "gemini-2.5-flash"),
		ImageEditModel:     getEnv("IMAGE_EDIT_MODEL", "gemini-2.5-flash-image-preview"),
		ImageModel:         getEnv("IMAGE_MODEL", "imagen-4.0-generate-001"),
		VideoModel:         getEnv("VIDEO_MODEL", "veo-3.0-generate-001"),
		AdvancedVideoModel: getEnv("ADVANCED_VIDEO_MODEL", "veo-3.1-generate-001"),
		PollInterval:       time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)),
		PollMaxAttempts:    getEnvInt("POLL_MAX_ATTEMPTS", 90),
		StoragePath:        getEnv("STORAGE_PATH", "./data/artifacts"),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "*"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 60)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 900)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 120)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.PollMaxAttempts <= 0 {
		return nil, fmt.Errorf("POLL_MAX_ATTEMPTS must be positive")
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
